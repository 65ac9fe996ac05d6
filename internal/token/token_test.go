package token

import (
	"errors"
	"testing"

	"stencil/internal/source"
)

func TestStream_SpanRange(t *testing.T) {
	tests := []struct {
		name     string
		stream   Stream
		expected source.Span
	}{
		{
			name: "single token",
			stream: Stream{
				{Kind: Ident, Span: source.Span{File: 1, Start: 3, End: 6}, Text: "foo"},
			},
			expected: source.Span{File: 1, Start: 3, End: 6},
		},
		{
			name: "first to last",
			stream: Stream{
				{Kind: Ident, Span: source.Span{File: 1, Start: 0, End: 3}, Text: "foo"},
				{Kind: Punct, Span: source.Span{File: 1, Start: 4, End: 5}, Text: "="},
				{Kind: IntLit, Span: source.Span{File: 1, Start: 6, End: 8}, Text: "42"},
			},
			expected: source.Span{File: 1, Start: 0, End: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.stream.SpanRange()
			if err != nil {
				t.Fatalf("SpanRange() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("SpanRange() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestStream_SpanRange_Empty(t *testing.T) {
	var s Stream
	if _, err := s.SpanRange(); !errors.Is(err, source.ErrEmptyRange) {
		t.Errorf("empty stream error = %v, want ErrEmptyRange", err)
	}

	fallback := source.Span{File: 7, Start: 1, End: 2}
	if got := s.SpanOr(fallback); got != fallback {
		t.Errorf("SpanOr() = %+v, want fallback %+v", got, fallback)
	}
}

func TestStream_String(t *testing.T) {
	s := Stream{
		{Kind: Ident, Text: "let"},
		{Kind: Ident, Text: "x"},
		{Kind: Punct, Text: "="},
		{Kind: StringLit, Text: "hi"},
		{Kind: CompileError, Text: "boom"},
	}
	want := `let x = "hi" @compile_error("boom")`
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStream_Diagnostics(t *testing.T) {
	s := Stream{
		{Kind: Ident, Text: "a"},
		{Kind: CompileError, Text: "bad"},
		{Kind: Note, Text: "declared here"},
		{Kind: Punct, Text: ";"},
	}

	diags := s.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("Diagnostics() returned %d nodes, want 2", len(diags))
	}
	if diags[0].Kind != CompileError || diags[1].Kind != Note {
		t.Errorf("unexpected kinds: %v, %v", diags[0].Kind, diags[1].Kind)
	}

	rest := s.WithoutDiagnostics()
	if len(rest) != 2 {
		t.Fatalf("WithoutDiagnostics() returned %d tokens, want 2", len(rest))
	}
}

func TestStream_CloneIndependence(t *testing.T) {
	orig := Stream{{Kind: Ident, Text: "a"}}
	cl := orig.Clone()
	cl[0].Text = "b"
	if orig[0].Text != "a" {
		t.Error("Clone() shares backing storage with original")
	}
}
