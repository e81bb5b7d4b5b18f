package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clean-lang/cleanc/internal/ast"
	"github.com/clean-lang/cleanc/internal/parser"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a Clean Language file and display its AST",
	Long: `Parse Clean Language source and display the Abstract Syntax Tree.

With --dump-ast, prints a structural tree; otherwise prints the AST's own
String() rendering.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(_ *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}

	mod, errs := parser.Parse(string(content))
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Parser errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s at %s\n", e.Message, e.Pos)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if parseDumpAST {
		dumpModule(mod)
	} else {
		fmt.Println(mod.String())
	}
	return nil
}

func dumpModule(mod *ast.Module) {
	fmt.Printf("Module (%d imports, %d constants, %d classes, %d functions)\n",
		len(mod.Imports), len(mod.Constants), len(mod.Classes), len(mod.Functions))
	for _, c := range mod.Classes {
		fmt.Printf("  class %s\n", c.Name)
	}
	for _, f := range mod.Functions {
		fmt.Printf("  func %s\n", f.Name)
	}
	if mod.Start != nil {
		fmt.Printf("  start()\n")
	}
}
