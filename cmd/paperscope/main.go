// Command paperscope is a terminal client for the paper discovery backend. Run
// without arguments it opens the interactive browser; the subcommands print
// the same data as tables for scripting.
package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "paperscope:", err)
		os.Exit(1)
	}
}
