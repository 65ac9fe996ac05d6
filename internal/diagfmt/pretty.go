package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"stencil/internal/diag"
	"stencil/internal/source"
)

// Pretty renders messages in a human-readable form. For each message it
// prints:
//
//	<path>:<line>:<col>: ERROR: <message>
//
// followed by the source line with a ^~~~ underline under the primary span,
// then notes in the same shape. Color is opt-in.
func Pretty(w io.Writer, msgs []diag.Message, fs *source.FileSet, opts PrettyOpts) error {
	p := prettyPrinter{w: w, fs: fs, opts: opts}
	p.paint(opts.Color)
	for i, msg := range msgs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := p.message(msg); err != nil {
			return err
		}
	}
	return nil
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts

	sevColor  func(a ...any) string
	noteColor func(a ...any) string
	gutter    func(a ...any) string
	caret     func(a ...any) string
}

func plain(a ...any) string { return fmt.Sprint(a...) }

func (p *prettyPrinter) paint(enabled bool) {
	if !enabled {
		p.sevColor, p.noteColor, p.gutter, p.caret = plain, plain, plain, plain
		return
	}
	p.sevColor = color.New(color.FgRed, color.Bold).SprintFunc()
	p.noteColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	p.gutter = color.New(color.FgHiBlack).SprintFunc()
	p.caret = color.New(color.FgRed).SprintFunc()
}

func (p *prettyPrinter) message(msg diag.Message) error {
	head := msg.String()
	lines := strings.Split(head, "\n")
	loc := p.location(msg.Primary)
	if _, err := fmt.Fprintf(p.w, "%s: %s: %s\n", loc, p.sevColor("ERROR"), p.truncate(lines[0])); err != nil {
		return err
	}
	for _, line := range lines[1:] {
		if _, err := fmt.Fprintf(p.w, "  %s\n", p.truncate(line)); err != nil {
			return err
		}
	}
	if p.opts.ShowPreview {
		if err := p.preview(msg.Primary); err != nil {
			return err
		}
	}
	if p.opts.ShowNotes {
		for _, note := range msg.Notes {
			if _, err := fmt.Fprintf(p.w, "  %s: %s\n", p.noteColor("note"), p.truncate(note.Msg)); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(p.w, "    at %s\n", p.location(note.Span)); err != nil {
				return err
			}
			if p.opts.ShowPreview {
				if err := p.preview(note.Span); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// preview prints the source line the span starts on, with a caret underline.
// Spans covering several lines are underlined to the end of the first line.
func (p *prettyPrinter) preview(span source.Span) error {
	if p.fs == nil || span.IsZero() {
		return nil
	}
	file := p.fs.Get(span.File)
	if file == nil {
		return nil
	}
	start, end := p.fs.Resolve(span)
	lineText := file.GetLine(start.Line)
	if lineText == "" && start.Line == 0 {
		return nil
	}
	gutterText := fmt.Sprintf("%5d | ", start.Line)
	if _, err := fmt.Fprintf(p.w, "%s%s\n", p.gutter(gutterText), p.truncate(lineText)); err != nil {
		return err
	}

	// Column math is in display cells, not bytes, so wide runes and tabs
	// line up under the source text.
	startCol := int(start.Col) - 1
	if startCol < 0 {
		startCol = 0
	}
	runes := []rune(lineText)
	if startCol > len(runes) {
		startCol = len(runes)
	}
	padWidth := runewidth.StringWidth(string(runes[:startCol]))

	underEnd := len(runes)
	if end.Line == start.Line {
		underEnd = int(end.Col) - 1
		if underEnd > len(runes) {
			underEnd = len(runes)
		}
	}
	underWidth := runewidth.StringWidth(string(runes[startCol:max(startCol, underEnd)]))
	if underWidth < 1 {
		underWidth = 1
	}
	marks := "^" + strings.Repeat("~", underWidth-1)
	_, err := fmt.Fprintf(p.w, "%s%s%s\n",
		p.gutter(strings.Repeat(" ", 5)+" | "),
		strings.Repeat(" ", padWidth),
		p.caret(marks))
	return err
}

func (p *prettyPrinter) location(span source.Span) string {
	if p.fs == nil || span.IsZero() {
		return "<call-site>"
	}
	file := p.fs.Get(span.File)
	if file == nil {
		return "<unknown>"
	}
	start, _ := p.fs.Resolve(span)
	path := file.FormatPath(p.opts.PathMode.format(), p.fs.BaseDir())
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

func (p *prettyPrinter) truncate(s string) string {
	if p.opts.Width <= 0 {
		return s
	}
	return runewidth.Truncate(s, p.opts.Width, "…")
}
