// Command lira is the CLI surface spec.md §6 describes as "informative,
// not core": a thin script runner over pkg/lira.Facade. It is not the
// interactive REPL spec.md explicitly places out of scope — each
// invocation runs a fixed script (a file of one verb per line) against a
// single fresh engine, or fans a directory of such scripts out across a
// worker pool via the `batch` subcommand.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
