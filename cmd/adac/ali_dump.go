package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"adalite/internal/ali"
)

var aliCmd = &cobra.Command{
	Use:   "ali",
	Short: "Inspect .ali interface descriptors",
}

var aliDumpCmd = &cobra.Command{
	Use:   "dump <file.ali>",
	Short: "Pretty-print a .ali interface descriptor",
	Args:  cobra.ExactArgs(1),
	RunE:  runAliDump,
}

func init() {
	aliCmd.AddCommand(aliDumpCmd)
}

func runAliDump(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	parsed, err := ali.Read(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	out := os.Stdout
	fmt.Fprintf(out, "unit:        %s\n", parsed.Unit)
	fmt.Fprintf(out, "version:     %s\n", parsed.Version)
	fmt.Fprintf(out, "elaboration: %d\n", parsed.Elaboration)

	if len(parsed.Withs) > 0 {
		fmt.Fprintln(out, "withs:")
		for _, w := range parsed.Withs {
			fmt.Fprintf(out, "  %-24s mtime=%d\n", w.Unit, w.MTime)
		}
	}
	if len(parsed.Depends) > 0 {
		fmt.Fprintf(out, "depends:     %s\n", strings.Join(parsed.Depends, ", "))
	}
	if len(parsed.Exports) > 0 {
		fmt.Fprintln(out, "exports:")
		for _, x := range parsed.Exports {
			sig := make([]string, len(x.Args))
			for i, a := range x.Args {
				sig[i] = string(a)
			}
			fmt.Fprintf(out, "  %s(%s) -> %s\n", x.MangledName, strings.Join(sig, ", "), x.Return)
		}
	}
	if len(parsed.Exceptions) > 0 {
		fmt.Fprintf(out, "exceptions:  %s\n", strings.Join(parsed.Exceptions, ", "))
	}
	return nil
}
