package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"stencil/internal/diagfmt"
	"stencil/internal/driver"
	"stencil/internal/source"
	"stencil/internal/token"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] entry file.stn",
	Short: "Run one generation entry over a file",
	Long: `Expand tokenizes the file, invokes the named entry over the stream, and
prints the resulting tokens. Failures never abort the run: they surface as
@compile_error(...) nodes inside the output.`,
	Args: cobra.ExactArgs(2),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().String("format", "text", "output format (text|pretty|json)")
	expandCmd.Flags().String("args", "", "attribute argument source text")
	expandCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	expandCmd.Flags().Bool("cache", false, "reuse cached expansions")
	expandCmd.Flags().String("cache-dir", "", "cache directory (default: user cache)")
	expandCmd.Flags().Bool("clear-cache", false, "drop all cached expansions before running")
}

func runExpand(cmd *cobra.Command, args []string) error {
	entryName, path := args[0], args[1]

	reg, _, err := loadRegistry()
	if err != nil {
		return err
	}
	entry, ok := reg.Lookup(entryName)
	if !ok {
		return fmt.Errorf("unknown entry %q (run 'stencil entries' for the list)", entryName)
	}

	opts := driver.Options{}
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

	res, fs, err := driver.ExpandFile(path, entry, opts)
	if err != nil {
		return fmt.Errorf("expansion failed: %w", err)
	}

	if !quiet(cmd) {
		reportDiagnostics(cmd, res.Output)
	}
	if showTimings(cmd) {
		fmt.Fprint(os.Stderr, res.Timing.Summary())
	}

	format, _ := cmd.Flags().GetString("format")
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		// Buffer the rendering so a short write surfaces as an error
		// instead of vanishing in a deferred Close.
		var buf bytes.Buffer
		if err := renderTokens(&buf, format, res.Output, fs); err != nil {
			return err
		}
		return os.WriteFile(outPath, buf.Bytes(), 0o644)
	}
	return renderTokens(cmd.OutOrStdout(), format, res.Output, fs)
}

// renderTokens writes the output stream in the requested format.
func renderTokens(w io.Writer, format string, toks token.Stream, fs *source.FileSet) error {
	switch format {
	case "text":
		_, err := fmt.Fprintln(w, toks.String())
		return err
	case "pretty":
		return diagfmt.FormatTokensPretty(w, toks, fs)
	case "json":
		return diagfmt.FormatTokensJSON(w, toks)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// reportDiagnostics summarizes the synthetic nodes of an output stream on
// stderr, capped by --max-diagnostics.
func reportDiagnostics(cmd *cobra.Command, output token.Stream) {
	diags := output.Diagnostics()
	if len(diags) == 0 {
		return
	}
	errColor := color.New(color.FgRed, color.Bold)
	noteColor := color.New(color.FgCyan)
	errColor.DisableColor()
	noteColor.DisableColor()
	if useColor(cmd, os.Stderr) {
		errColor.EnableColor()
		noteColor.EnableColor()
	}

	limit := maxDiagnostics(cmd)
	shown := 0
	for _, tok := range diags {
		if limit > 0 && shown >= limit {
			fmt.Fprintf(os.Stderr, "... and %d more\n", len(diags)-shown)
			break
		}
		switch tok.Kind {
		case token.CompileError:
			errColor.Fprint(os.Stderr, "error: ")
			fmt.Fprintln(os.Stderr, tok.Text)
		case token.Note:
			noteColor.Fprint(os.Stderr, "  note: ")
			fmt.Fprintln(os.Stderr, tok.Text)
		}
		shown++
	}
}

func openCache(cmd *cobra.Command) (*driver.Cache, error) {
	if dir, _ := cmd.Flags().GetString("cache-dir"); dir != "" {
		return driver.OpenCacheAt(dir)
	}
	return driver.OpenCache("stencil")
}

func clearCacheIfRequested(cmd *cobra.Command) error {
	wantClear, _ := cmd.Flags().GetBool("clear-cache")
	if !wantClear {
		return nil
	}
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	return cache.DropAll()
}
