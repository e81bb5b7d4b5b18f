// Command cleanc compiles Clean Language source into validated WASM
// binary modules.
package main

import (
	"os"

	"github.com/clean-lang/cleanc/cmd/cleanc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
