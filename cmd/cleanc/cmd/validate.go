package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clean-lang/cleanc/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file.wasm]",
	Short: "Run the independent validator against an already-built WASM module",
	Long: `Read a WASM binary module and run it through the independent validator
(spec.md §4.5), without compiling or instantiating it.

Useful for checking a module produced by a previous "cleanc build" run, or
one built by a different toolchain, against the same acceptance criteria
this compiler holds itself to.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}

	if errs := validate.Validate(context.Background(), data, "", args[0]); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Format(false))
		}
		return fmt.Errorf("validation failed with %d error(s)", len(errs))
	}

	fmt.Printf("%s is a valid WASM module\n", args[0])
	return nil
}
