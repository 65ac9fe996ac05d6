package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"stencil/internal/diag"
	"stencil/internal/source"
	"stencil/internal/token"
)

func testFileSet(t *testing.T) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("fn greet() {\n    wave(\"hello\")\n}\n")
	id := fs.AddVirtual("greet.stn", content)
	return fs, id
}

func TestPrettyBasic(t *testing.T) {
	fs, id := testFileSet(t)
	msg := diag.New(source.Span{File: id, Start: 17, End: 21}, "unknown routine wave").
		WithNote(source.Span{File: id, Start: 3, End: 8}, "declared here")

	var buf bytes.Buffer
	opts := PrettyOpts{ShowNotes: true, ShowPreview: true}
	if err := Pretty(&buf, []diag.Message{msg}, fs, opts); err != nil {
		t.Fatalf("Pretty() error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "greet.stn:2:5: ERROR: unknown routine wave") {
		t.Errorf("missing header line, got:\n%s", out)
	}
	if !strings.Contains(out, "wave(\"hello\")") {
		t.Errorf("missing source preview, got:\n%s", out)
	}
	if !strings.Contains(out, "^~~~") {
		t.Errorf("missing caret underline, got:\n%s", out)
	}
	if !strings.Contains(out, "note: declared here") {
		t.Errorf("missing note, got:\n%s", out)
	}
}

func TestPrettyCallSiteLocation(t *testing.T) {
	var buf bytes.Buffer
	msg := diag.CallSite("routine misbehaved")
	if err := Pretty(&buf, []diag.Message{msg}, nil, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty() error: %v", err)
	}
	if !strings.Contains(buf.String(), "<call-site>: ERROR: routine misbehaved") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestPrettyAttachments(t *testing.T) {
	fs, id := testFileSet(t)
	msg := diag.New(source.Span{File: id, Start: 0, End: 2}, "bad declaration").
		WithHelp("remove the fn keyword")

	var buf bytes.Buffer
	if err := Pretty(&buf, []diag.Message{msg}, fs, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty() error: %v", err)
	}
	if !strings.Contains(buf.String(), "= help: remove the fn keyword") {
		t.Errorf("attachment not folded into output:\n%s", buf.String())
	}
}

func TestJSONBasic(t *testing.T) {
	fs, id := testFileSet(t)
	msg := diag.New(source.Span{File: id, Start: 17, End: 21}, "unknown routine wave").
		WithNote(source.Span{File: id, Start: 3, End: 8}, "declared here")

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, []diag.Message{msg}, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\noutput: %s", err, buf.String())
	}
	if out.Total != 1 {
		t.Errorf("Total = %d, want 1", out.Total)
	}
	if len(out.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(out.Messages))
	}
	got := out.Messages[0]
	if got.Message != "unknown routine wave" {
		t.Errorf("Message = %q", got.Message)
	}
	if got.Location.File != "greet.stn" {
		t.Errorf("Location.File = %q, want greet.stn", got.Location.File)
	}
	if got.Location.StartLine != 2 || got.Location.StartCol != 5 {
		t.Errorf("start position = %d:%d, want 2:5", got.Location.StartLine, got.Location.StartCol)
	}
	if len(got.Notes) != 1 || got.Notes[0].Message != "declared here" {
		t.Errorf("notes = %+v", got.Notes)
	}
}

func TestJSONTruncation(t *testing.T) {
	fs, id := testFileSet(t)
	msgs := []diag.Message{
		diag.New(source.Span{File: id, Start: 0, End: 2}, "first"),
		diag.New(source.Span{File: id, Start: 3, End: 8}, "second"),
		diag.New(source.Span{File: id, Start: 17, End: 21}, "third"),
	}

	var buf bytes.Buffer
	if err := JSON(&buf, msgs, fs, JSONOpts{Max: 2}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if out.Total != 3 {
		t.Errorf("Total = %d, want 3", out.Total)
	}
	if len(out.Messages) != 2 {
		t.Errorf("got %d messages, want 2", len(out.Messages))
	}
	if !out.Truncated {
		t.Error("Truncated = false, want true")
	}
}

func TestFormatTokensPretty(t *testing.T) {
	fs, id := testFileSet(t)
	toks := token.Stream{
		{Kind: token.Ident, Span: source.Span{File: id, Start: 0, End: 2}, Text: "fn"},
		{Kind: token.Ident, Span: source.Span{File: id, Start: 3, End: 8}, Text: "greet"},
		{Kind: token.EOF, Span: source.Span{File: id, Start: 33, End: 33}},
		{Kind: token.Ident, Span: source.Span{File: id}, Text: "never"},
	}

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatalf("FormatTokensPretty() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"greet"`) {
		t.Errorf("missing token text:\n%s", out)
	}
	if strings.Contains(out, "never") {
		t.Errorf("output continued past EOF:\n%s", out)
	}
}

func TestFormatTokensJSON(t *testing.T) {
	_, id := testFileSet(t)
	toks := token.Stream{
		{Kind: token.Ident, Span: source.Span{File: id, Start: 0, End: 2}, Text: "fn"},
	}

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatalf("FormatTokensJSON() error: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(out) != 1 || out[0].Kind != "ident" || out[0].Text != "fn" {
		t.Errorf("unexpected output: %+v", out)
	}
}
