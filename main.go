// ABOUTME: Entry point for the voss CLI, HTTP API, and MCP server
// ABOUTME: Builds the root command and exits non-zero on error
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/voss/cli"
)

const version = "0.1.0"

func main() {
	app := &cli.App{}
	err := cli.NewRootCmd(app, version).Execute()
	_ = app.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
