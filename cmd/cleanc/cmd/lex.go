package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clean-lang/cleanc/internal/lexer"
)

var (
	lexEval     string
	lexShowPos  bool
	lexShowType bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Clean Language file or expression",
	Long: `Tokenize a Clean Language program and print the resulting tokens.

Examples:
  cleanc lex program.cln
  cleanc lex -e 'println("hi")'
  cleanc lex --show-type --show-pos program.cln`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show token type names")
}

func runLex(_ *cobra.Command, args []string) error {
	var input string
	switch {
	case lexEval != "":
		input = lexEval
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	l := lexer.New(input)
	for {
		tok := l.NextToken()
		printToken(tok)
		if tok.Type == lexer.EOF {
			break
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("lexing found %d illegal token(s)", len(errs))
	}
	return nil
}

func printToken(tok lexer.Token) {
	var out string
	if lexShowType {
		out = fmt.Sprintf("[%-14s]", tok.Type)
	}
	if tok.Type == lexer.EOF {
		out += " EOF"
	} else {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}
