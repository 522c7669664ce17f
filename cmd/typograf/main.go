// Typograf prepares plain text and HTML for publication: locale-aware
// quotes, dashes, ellipses, non-breaking spaces, and HTML entity
// conversion.
//
// Usage:
//
//	# Process stdin with Russian rules
//	echo 'Снег - это "вода"...' | typograf process --lang ru
//
//	# Process files in place with a cache of prior results
//	typograf process --lang en --write --cache results.db docs/*.txt
//
//	# List the rules that would fire for a language
//	typograf rules --lang ru
//
//	# Run scenario files against the engine
//	typograf check scenarios/
//
//	# Validate a CUE profile
//	typograf profile validate ru.cue
//
//	# Audit a result cache for drift
//	typograf cache verify --cache results.db --lang ru
package main

import (
	"fmt"
	"os"

	"github.com/typograf/typograf/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
