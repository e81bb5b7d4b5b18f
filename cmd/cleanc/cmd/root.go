// Package cmd implements the cleanc command-line driver (spec.md §6.4
// "The CLI wraps this and is out of scope"): a thin collaborator over
// pkg/clean.Compile, laid out the way the teacher's cmd/dwscript/cmd is
// (root.go/compile.go/version.go, one file per subcommand).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cleanc",
	Short: "Clean Language compiler",
	Long: `cleanc compiles Clean Language source (.cln) into a validated
WebAssembly binary module.

Clean Language is a statically-typed, tab-indented, object-oriented
language targeting WASM: single inheritance, async start/later/background,
and list/matrix collections with mutable behavior tags.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
