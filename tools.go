//go:build tools
// +build tools

// This package imports things required by build tools, to force `go mod`
// to see them as dependencies.
package tools

import (
	// embed.go: go run scripts/gogenerate-assets.go
	_ "github.com/evanw/esbuild/pkg/api"
)
