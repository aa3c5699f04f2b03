/*
Package config manages configuration parsing and validation for triplog.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	  +--------+-------+--------+--------+
	  |        |                |        |
	+-+--+  +--+--+          +--+--+  +--+--+
	|YAML|  | HCL |          |JSON |  |TOML |
	+----+  +-----+          +-----+  +-----+

🎯 Purpose:
- Finds the config file when none is named
- Picks a parser by file extension
- Fills defaults and validates values

🔄 Flow:
1. Discover looks for triplog.* or .triplog.* in a directory
2. Load reads the file and hands it to the registered parser
3. Validate fills defaults and rejects unusable values

📝 Defaults:
  - poll_interval: 5s (allowed 1s to 10m)
  - http_timeout: 30s
  - storage.driver: file, storage.path: ~/.triplog
  - auth.provider: backend

🔍 Example:

	path, err := config.Discover(ctx, ".")
	if err != nil {
		return err
	}
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return err
	}
	fmt.Println(cfg.PollInterval.Std())

HCL files may read the environment:

	api {
	  base_url = env.TRIPLOG_API
	}
*/
package config
