//go:build tools

// Package tools pins the development tools used to generate mocks, add
// license headers and run tests.
package tools

import (
	_ "github.com/google/addlicense"
	_ "github.com/vektra/mockery/v2"
	_ "gotest.tools/gotestsum"
)
