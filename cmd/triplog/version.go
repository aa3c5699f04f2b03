// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// componentModules are the dependencies whose versions matter when reporting
// a storage, backend or login problem
var componentModules = map[string]string{
	"github.com/dgraph-io/badger/v3":  "badger",
	"github.com/godbus/dbus/v5":       "dbus",
	"github.com/google/go-github/v60": "go-github",
	"golang.org/x/oauth2":             "oauth2",
}

// BuildInfo describes the running triplog binary
type BuildInfo struct {
	Version    string            `json:"version"`
	Module     string            `json:"module,omitempty"`
	Revision   string            `json:"revision,omitempty"`
	Time       string            `json:"time,omitempty"`
	Modified   bool              `json:"modified"`
	GoVersion  string            `json:"go_version"`
	Platform   string            `json:"platform"`
	Components map[string]string `json:"components,omitempty"`
}

func readBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   "dev",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	info.Module = bi.Main.Path

	for _, dep := range bi.Deps {
		name, ok := componentModules[dep.Path]
		if !ok {
			continue
		}
		if info.Components == nil {
			info.Components = map[string]string{}
		}
		info.Components[name] = dep.Version
	}

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			info.Time = setting.Value
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}
	return info
}

// String renders the build info for the terminal
func (b BuildInfo) String() string {
	var sb strings.Builder
	sb.WriteString("🧭 triplog version info:\n")
	fmt.Fprintf(&sb, "Version:   %s\n", b.Version)
	if b.Revision != "" {
		rev := b.Revision
		if b.Modified {
			rev += " (modified)"
		}
		fmt.Fprintf(&sb, "Revision:  %s\n", rev)
	}
	if b.Time != "" {
		fmt.Fprintf(&sb, "Built:     %s\n", b.Time)
	}
	fmt.Fprintf(&sb, "Go:        %s\n", b.GoVersion)
	fmt.Fprintf(&sb, "Platform:  %s\n", b.Platform)

	names := make([]string, 0, len(b.Components))
	for name := range b.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %-10s %s\n", name, b.Components[name])
	}
	return sb.String()
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipWiring: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := readBuildInfo()
			if !asJSON {
				cmd.Print(info.String())
				return nil
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return errors.Errorf("encoding build info: %w", err)
			}
			cmd.Println(string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print build info as JSON")

	return cmd
}
