package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"stencil/internal/driver"
	"stencil/internal/expand"
	"stencil/internal/source"
	"stencil/internal/ui"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] entry dir",
	Short: "Run one generation entry over every input file in a directory",
	Long: `Batch expands every ` + driver.InputSuffix + ` file under the directory with the
named entry. Files are processed in parallel; each invocation is fully
isolated, so one failing file never poisons another.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Int("jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	batchCmd.Flags().String("args", "", "attribute argument source text")
	batchCmd.Flags().Bool("cache", false, "reuse cached expansions")
	batchCmd.Flags().String("cache-dir", "", "cache directory (default: user cache)")
	batchCmd.Flags().Bool("clear-cache", false, "drop all cached expansions before running")
	batchCmd.Flags().Bool("write", false, "write outputs next to inputs as *.gen"+driver.InputSuffix)
	batchCmd.Flags().Bool("ui", true, "live progress when stdout is a terminal")
}

func runBatch(cmd *cobra.Command, args []string) error {
	entryName, dir := args[0], args[1]

	reg, _, err := loadRegistry()
	if err != nil {
		return err
	}
	entry, ok := reg.Lookup(entryName)
	if !ok {
		return fmt.Errorf("unknown entry %q (run 'stencil entries' for the list)", entryName)
	}

	opts := driver.Options{}
	opts.Jobs, _ = cmd.Flags().GetInt("jobs")
	opts.Args, _ = cmd.Flags().GetString("args")
	if err := clearCacheIfRequested(cmd); err != nil {
		return err
	}
	if useCache, _ := cmd.Flags().GetBool("cache"); useCache {
		cache, err := openCache(cmd)
		if err != nil {
			return err
		}
		opts.Cache = cache
	}

	wantUI, _ := cmd.Flags().GetBool("ui")
	var results []driver.Result
	if wantUI && !quiet(cmd) && isTerminal(os.Stdout) {
		_, results, err = runBatchWithUI(cmd.Context(), dir, entry, opts)
	} else {
		_, results, err = runBatchPlain(cmd, dir, entry, opts)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
		}
	}

	if write, _ := cmd.Flags().GetBool("write"); write {
		if err := writeOutputs(results); err != nil {
			return err
		}
	}

	if !quiet(cmd) {
		summary := fmt.Sprintf("%d file(s), %d failed", len(results), failed)
		if failed > 0 && useColor(cmd, os.Stderr) {
			summary = color.New(color.FgRed, color.Bold).Sprint(summary)
		}
		fmt.Fprintln(os.Stderr, summary)
	}
	if showTimings(cmd) {
		for _, res := range results {
			fmt.Fprintf(os.Stderr, "%s:\n%s", res.Path, res.Timing.Summary())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to expand", failed)
	}
	return nil
}

// runBatchWithUI drives the expansion in a goroutine and feeds its events
// into the Bubble Tea progress model.
func runBatchWithUI(ctx context.Context, dir string, entry expand.Entry, opts driver.Options) (*source.FileSet, []driver.Result, error) {
	files, err := driver.ListInputFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.Event, 256)
	opts.Observer = func(ev driver.Event) { events <- ev }

	type outcome struct {
		fs      *source.FileSet
		results []driver.Result
		err     error
	}
	outcomeCh := make(chan outcome, 1)
	go func() {
		fs, results, err := driver.ExpandDir(ctx, dir, entry, opts)
		outcomeCh <- outcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("stencil batch: "+entry.Name, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	out := <-outcomeCh
	if uiErr != nil {
		return out.fs, out.results, uiErr
	}
	return out.fs, out.results, out.err
}

func runBatchPlain(cmd *cobra.Command, dir string, entry expand.Entry, opts driver.Options) (*source.FileSet, []driver.Result, error) {
	var mu sync.Mutex
	if !quiet(cmd) {
		opts.Observer = func(ev driver.Event) {
			if ev.Stage != driver.StageDone {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			status := "ok"
			switch {
			case ev.Failed:
				status = "FAILED"
			case ev.Cached:
				status = "cached"
			}
			fmt.Fprintf(os.Stderr, "[%d/%d] %-6s %s\n", ev.Index, ev.Total, status, ev.Path)
		}
	}
	return driver.ExpandDir(cmd.Context(), dir, entry, opts)
}

// writeOutputs stores each result next to its input, swapping the suffix.
func writeOutputs(results []driver.Result) error {
	for _, res := range results {
		if res.Path == "" {
			continue
		}
		outPath := strings.TrimSuffix(res.Path, driver.InputSuffix) + ".gen" + driver.InputSuffix
		if err := os.WriteFile(outPath, []byte(res.Output.String()+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(outPath), err)
		}
	}
	return nil
}
