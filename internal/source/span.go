package source

import (
	"errors"
	"fmt"
)

// ErrEmptyRange reports an attempt to compute a covering span over zero
// locations. Callers are expected to substitute a default span (usually the
// invocation call site) instead of propagating it further.
var ErrEmptyRange = errors.New("source: no spans to cover")

// Span is a half-open byte range inside a single file.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// IsZero reports whether the span is the zero value. The diagnostic layer
// uses the zero span as "ambient call site, to be filled in at render time".
func (s Span) IsZero() bool {
	return s == Span{}
}

// Cover returns the minimal span containing both s and other.
// Spans from different files cannot be represented as one range; in that
// case Cover returns s unchanged. This is a documented lossy fallback,
// not an error.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// CoverAll left-folds Cover over spans and returns the covering range.
// An empty slice has no meaningful range and yields ErrEmptyRange.
func CoverAll(spans []Span) (Span, error) {
	if len(spans) == 0 {
		return Span{}, ErrEmptyRange
	}
	out := spans[0]
	for _, sp := range spans[1:] {
		out = out.Cover(sp)
	}
	return out, nil
}

// Ranged is implemented by values that occupy a definite source range.
// Single-location values (spans, tokens) implement it directly; collections
// that may be empty expose a (Span, error) method instead and surface
// ErrEmptyRange.
type Ranged interface {
	SpanRange() Span
}

// SpanRange returns s itself; a span is its own covering range.
func (s Span) SpanRange() Span { return s }

// RangeOf computes the covering span of a sequence of Ranged values,
// folding Cover left to right. Empty input yields ErrEmptyRange.
func RangeOf[T Ranged](items []T) (Span, error) {
	if len(items) == 0 {
		return Span{}, ErrEmptyRange
	}
	out := items[0].SpanRange()
	for _, it := range items[1:] {
		out = out.Cover(it.SpanRange())
	}
	return out, nil
}

// RangeBetween covers the ranges of two values, typically the first and last
// element of a multi-token construct.
func RangeBetween(a, b Ranged) Span {
	return a.SpanRange().Cover(b.SpanRange())
}
