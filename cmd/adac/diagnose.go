package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"adalite/internal/diag"
	"adalite/internal/driver"
	"adalite/internal/ui"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <file.ads|file.adb>",
	Short: "Resolve a unit and its with-closure, reporting diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

var diagnoseUIMode string

func init() {
	diagnoseCmd.Flags().StringVar(&diagnoseUIMode, "ui", "auto", "progress view (auto|on|off)")
	diagnoseCmd.Flags().StringArrayVarP(&buildIncludes, "include", "I", nil, "add a directory to the unit search path (repeatable)")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	src := args[0]
	includes := append(driver.Includes{}, buildIncludes...)
	includes = append(includes, filepath.Dir(src))

	useTUI, err := shouldUseTUI(diagnoseUIMode)
	if err != nil {
		return err
	}

	ctx := driver.NewContext(includes)
	var res *driver.Result
	var compileErr error

	if useTUI {
		events := make(chan driver.Event, 256)
		ctx.Progress = driver.ChannelSink{Ch: events}
		done := make(chan struct{})
		go func() {
			res, compileErr = ctx.Compile(src)
			close(events)
			close(done)
		}()
		model := ui.NewProgressModel("diagnose "+filepath.Base(src), []string{filepath.Base(src)}, events)
		program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
		if _, uiErr := program.Run(); uiErr != nil {
			<-done
			return uiErr
		}
		<-done
	} else {
		res, compileErr = ctx.Compile(src)
	}

	reporter := diag.NewStreamReporter(os.Stderr)
	for _, d := range ctx.Bag.Items() {
		reporter.Report(ctx.Files, d)
	}
	reporter.Summarize(ctx.Files, ctx.Bag)

	if compileErr != nil {
		return compileErr
	}
	if ctx.Bag.HasErrors() {
		return fmt.Errorf("diagnostics found errors")
	}
	if res != nil {
		fmt.Fprintf(os.Stdout, "resolved %d unit(s) in %s\n", len(res.UnitNames), res.Elapsed)
	}
	return nil
}

func shouldUseTUI(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return term.IsTerminal(int(os.Stdout.Fd())), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", mode)
	}
}
