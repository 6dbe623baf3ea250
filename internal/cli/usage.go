package cli

import (
	"fmt"
	"io"
)

// printUsage writes the predicate summary shown when myfind runs without arguments
func printUsage(w io.Writer, program string) {
	fmt.Fprintf(w, "Usage: %s <directory> <test-action> ...\n", program)
	fmt.Fprintln(w, "Arguments: -user <username|userid>")
	fmt.Fprintln(w, "           -nouser")
	fmt.Fprintln(w, "           -type [bcdpfls]")
	fmt.Fprintln(w, "           -name <glob-pattern>")
	fmt.Fprintln(w, "           -path <glob-pattern>")
	fmt.Fprintln(w, "           -print")
	fmt.Fprintln(w, "           -ls")
}

// printHelp is printUsage plus the long options
func printHelp(w io.Writer, program string, options string) {
	printUsage(w, program)
	fmt.Fprintf(w, "\nOptions (before the directory):\n%s", options)
	fmt.Fprintln(w, "\nEnvironment: MYFIND_LOG_LEVEL, MYFIND_COLOR, MYFIND_HISTORY_ENABLED, ...")
}
