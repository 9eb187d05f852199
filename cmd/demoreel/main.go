// demoreel renders scripted AI chat + spreadsheet product demos into a
// looping GIF and a PNG still.
//
// Usage:
//
//	demoreel render --scenario dcf
//	demoreel render --config my-demo.toml --watch
//	demoreel serve
//
// Environment variables:
//
//	DEMOREEL_HOME     Config and user theme directory (default ~/.demoreel)
//	DEMOREEL_LANG     Language for rendered labels and CLI output
//	DEMOREEL_DEBUG    Write a debug log to $DEMOREEL_HOME/demoreel.log
//	DEMOREEL_PROFILE  Write a CPU profile to this path
package main

import (
	"fmt"
	"os"

	"github.com/wethinkt/go-demoreel/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
