package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"adalite/internal/diag"
	"adalite/internal/lexer"
	"adalite/internal/source"
	"adalite/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Dump the token stream of one source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	files := source.NewFileSet()
	fid := files.Add(path, string(text))
	bag := diag.NewBag()
	lex := lexer.New(files.Get(fid), fid, bag)

	for {
		t := lex.Next()
		line, col := files.LineCol(fid, t.Span.Start)
		fmt.Fprintf(os.Stdout, "%4d:%-3d %-14s %q\n", line, col, t.Kind, t.Text)
		if t.Kind == token.EOF {
			break
		}
	}

	if bag.HasErrors() {
		reporter := diag.NewStreamReporter(os.Stderr)
		for _, d := range bag.Items() {
			reporter.Report(files, d)
		}
		return fmt.Errorf("lexical errors in %s", path)
	}
	return nil
}
