// Command adac compiles Ada 83 sources to LLVM textual IR.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adac",
	Short: "Ada 83 to LLVM IR compiler",
	Long:  `adac parses, resolves, and lowers Ada 83 compilation units to LLVM textual IR.`,
}

func main() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(aliCmd)
	rootCmd.AddCommand(diagnoseCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
