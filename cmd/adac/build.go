package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"adalite/internal/ali"
	"adalite/internal/diag"
	"adalite/internal/driver"
	"adalite/internal/project"
)

var buildCmd = &cobra.Command{
	Use:   "build <file.ads|file.adb>",
	Short: "Compile one Ada compilation unit and its with-closure to LLVM IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

var (
	buildIncludes []string
	buildOutDir   string
	buildTarget   string
)

func init() {
	buildCmd.Flags().StringArrayVarP(&buildIncludes, "include", "I", nil, "add a directory to the unit search path (repeatable)")
	buildCmd.Flags().StringVarP(&buildOutDir, "output-dir", "o", "", "directory for .ll and .ali output")
	buildCmd.Flags().StringVar(&buildTarget, "target", "", "LLVM target triple")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := project.Load("adac.toml")
	if err != nil {
		return fmt.Errorf("reading adac.toml: %w", err)
	}
	cfg = project.Merge(cfg, project.Config{
		Includes:  buildIncludes,
		Target:    buildTarget,
		OutputDir: buildOutDir,
	})

	src := args[0]
	includes := append(append(driver.Includes{}, cfg.Includes...), filepath.Dir(src))

	ctx := driver.NewContext(includes)
	res, err := ctx.Compile(src)

	reporter := diag.NewStreamReporter(os.Stderr)
	for _, d := range ctx.Bag.Items() {
		reporter.Report(ctx.Files, d)
	}
	reporter.Summarize(ctx.Files, ctx.Bag)

	if err != nil {
		return err
	}
	if ctx.Bag.HasErrors() {
		return fmt.Errorf("compilation failed")
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = "."
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	llPath := filepath.Join(outDir, base+".ll")
	if err := os.WriteFile(llPath, []byte(res.LLVM), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", llPath, err)
	}

	if res.ALI != nil {
		aliPath := filepath.Join(outDir, base+".ali")
		f, err := os.Create(aliPath)
		if err != nil {
			return fmt.Errorf("writing %s: %w", aliPath, err)
		}
		defer f.Close()
		if err := ali.Write(f, res.ALI); err != nil {
			return fmt.Errorf("writing %s: %w", aliPath, err)
		}
	}

	fmt.Fprintf(os.Stdout, "compiled %s -> %s (%s)\n", src, llPath, res.Elapsed)
	return nil
}
