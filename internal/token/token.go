package token

import (
	"strconv"
	"strings"

	"stencil/internal/source"
)

// Token represents a single token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// SpanRange returns the token's own span.
func (t Token) SpanRange() source.Span { return t.Span }

// String renders the token in a re-lexable textual form. Synthetic kinds are
// rendered as pseudo-calls so a failed expansion still produces output the
// host can tokenize.
func (t Token) String() string {
	switch t.Kind {
	case StringLit:
		return strconv.Quote(t.Text)
	case CompileError:
		return "@compile_error(" + strconv.Quote(t.Text) + ")"
	case Note:
		return "@note(" + strconv.Quote(t.Text) + ")"
	default:
		return t.Text
	}
}

// Stream is an ordered token sequence. The engine treats it as opaque
// payload: tokens go in, tokens come out, only spans and synthetic
// diagnostic nodes are interpreted.
type Stream []Token

// Append adds tokens to the end of the stream.
func (s *Stream) Append(toks ...Token) {
	*s = append(*s, toks...)
}

// AppendStream concatenates another stream onto s.
func (s *Stream) AppendStream(other Stream) {
	*s = append(*s, other...)
}

// Clone returns an independent copy of the stream.
func (s Stream) Clone() Stream {
	if s == nil {
		return nil
	}
	out := make(Stream, len(s))
	copy(out, s)
	return out
}

// Empty reports whether the stream holds no tokens.
func (s Stream) Empty() bool { return len(s) == 0 }

// Equal reports whether two streams hold identical tokens.
func (s Stream) Equal(other Stream) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// SpanRange computes the covering span from the first to the last token.
// An empty stream yields source.ErrEmptyRange; callers substitute the
// ambient call-site span.
func (s Stream) SpanRange() (source.Span, error) {
	if len(s) == 0 {
		return source.Span{}, source.ErrEmptyRange
	}
	return source.RangeBetween(s[0], s[len(s)-1]), nil
}

// SpanOr returns the stream's covering span, or fallback when empty.
func (s Stream) SpanOr(fallback source.Span) source.Span {
	sp, err := s.SpanRange()
	if err != nil {
		return fallback
	}
	return sp
}

// String joins token renderings with single spaces.
func (s Stream) String() string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// Diagnostics returns the synthetic diagnostic nodes embedded in the stream.
func (s Stream) Diagnostics() Stream {
	var out Stream
	for _, t := range s {
		if t.Kind.Synthetic() {
			out = append(out, t)
		}
	}
	return out
}

// WithoutDiagnostics returns the stream stripped of synthetic nodes.
func (s Stream) WithoutDiagnostics() Stream {
	out := make(Stream, 0, len(s))
	for _, t := range s {
		if !t.Kind.Synthetic() {
			out = append(out, t)
		}
	}
	return out
}
