package diagfmt

import (
	"encoding/json"
	"io"

	"stencil/internal/diag"
	"stencil/internal/source"
)

// LocationJSON is a span projected into file/byte/position coordinates.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary annotation in JSON output.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// MessageJSON is one diagnostic in JSON output.
type MessageJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// Output is the root of the JSON document.
type Output struct {
	Messages  []MessageJSON `json:"messages"`
	Total     int           `json:"total"`
	Truncated bool          `json:"truncated,omitempty"`
}

// JSON renders messages as an indented JSON document for tooling.
func JSON(w io.Writer, msgs []diag.Message, fs *source.FileSet, opts JSONOpts) error {
	out := Output{Total: len(msgs), Messages: []MessageJSON{}}
	limit := len(msgs)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
		out.Truncated = true
	}
	for _, msg := range msgs[:limit] {
		entry := MessageJSON{
			Message:  msg.String(),
			Location: locationJSON(fs, msg.Primary, opts),
		}
		if opts.IncludeNotes {
			for _, note := range msg.Notes {
				entry.Notes = append(entry.Notes, NoteJSON{
					Message:  note.Msg,
					Location: locationJSON(fs, note.Span, opts),
				})
			}
		}
		out.Messages = append(out.Messages, entry)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func locationJSON(fs *source.FileSet, span source.Span, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:      "<call-site>",
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if fs == nil || span.IsZero() {
		return loc
	}
	file := fs.Get(span.File)
	if file == nil {
		loc.File = "<unknown>"
		return loc
	}
	loc.File = file.FormatPath(opts.PathMode.format(), fs.BaseDir())
	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}
