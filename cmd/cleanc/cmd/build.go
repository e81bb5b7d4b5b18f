package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clean-lang/cleanc/pkg/clean"
)

var (
	buildOutputFile   string
	buildSkipValidate bool
	buildMaxMemPages  uint32
	buildVerbose      bool
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Compile a Clean Language file to a WASM binary module",
	Long: `Compile a Clean Language program into a validated WASM binary module
and write it to a .wasm file.

Examples:
  # Compile a source file
  cleanc build program.cln

  # Compile with a custom output file
  cleanc build program.cln -o out.wasm

  # Compile without the independent validator pass
  cleanc build program.cln --skip-validate`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutputFile, "output", "o", "", "output file (default: <input>.wasm)")
	buildCmd.Flags().BoolVar(&buildSkipValidate, "skip-validate", false, "skip the independent validator pass")
	buildCmd.Flags().Uint32Var(&buildMaxMemPages, "max-memory-pages", 0, "override the module's max linear-memory pages (0 = default)")
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "verbose output")
}

func runBuild(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	logger := zap.NewNop()
	if buildVerbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()
	}
	logger.Info("compiling", zap.String("file", filename))

	opts := []clean.Option{
		clean.WithFilename(filename),
		clean.WithValidation(!buildSkipValidate),
		clean.WithTrace(func(stage string) {
			logger.Debug("pipeline stage complete", zap.String("stage", stage))
		}),
	}
	if buildMaxMemPages > 0 {
		opts = append(opts, clean.WithMaxMemoryPages(buildMaxMemPages))
	}

	mod, diags := clean.Compile(string(content), opts...)
	if diags != nil {
		fmt.Fprintln(os.Stderr, diags.Error())
		return fmt.Errorf("compilation failed with %d error(s)", len(diags))
	}

	outFile := buildOutputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".wasm"
		} else {
			outFile = filename + ".wasm"
		}
	}

	if err := os.WriteFile(outFile, mod.Bytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	logger.Info("wrote module", zap.String("file", outFile), zap.Int("bytes", len(mod.Bytes)))
	if !buildVerbose {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}
	return nil
}
