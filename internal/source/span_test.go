package source

import (
	"errors"
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a        Span
		b        Span
		expected Span
	}{
		{
			name:     "point covered with itself",
			a:        Span{File: 1, Start: 5, End: 5},
			b:        Span{File: 1, Start: 5, End: 5},
			expected: Span{File: 1, Start: 5, End: 5},
		},
		{
			name:     "disjoint spans produce minimal covering range",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 40, End: 50},
			expected: Span{File: 1, Start: 10, End: 50},
		},
		{
			name:     "overlapping spans",
			a:        Span{File: 1, Start: 10, End: 30},
			b:        Span{File: 1, Start: 20, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "second span inside first",
			a:        Span{File: 1, Start: 0, End: 100},
			b:        Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 0, End: 100},
		},
		{
			name:     "earlier operand extends start",
			a:        Span{File: 1, Start: 50, End: 60},
			b:        Span{File: 1, Start: 10, End: 15},
			expected: Span{File: 1, Start: 10, End: 60},
		},
		{
			name:     "different files fall back to the receiver",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 2, Start: 0, End: 5},
			expected: Span{File: 1, Start: 10, End: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.a.Cover(tt.b)
			if result != tt.expected {
				t.Errorf("Cover() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestCoverAll(t *testing.T) {
	spans := []Span{
		{File: 3, Start: 20, End: 25},
		{File: 3, Start: 5, End: 8},
		{File: 3, Start: 40, End: 41},
	}

	got, err := CoverAll(spans)
	if err != nil {
		t.Fatalf("CoverAll() error = %v", err)
	}
	want := Span{File: 3, Start: 5, End: 41}
	if got != want {
		t.Errorf("CoverAll() = %+v, want %+v", got, want)
	}

	// Containment: the result must cover every input span.
	for _, sp := range spans {
		if sp.Start < got.Start || sp.End > got.End {
			t.Errorf("result %+v does not contain %+v", got, sp)
		}
	}
}

func TestCoverAll_Empty(t *testing.T) {
	if _, err := CoverAll(nil); !errors.Is(err, ErrEmptyRange) {
		t.Errorf("CoverAll(nil) error = %v, want ErrEmptyRange", err)
	}
	if _, err := RangeOf[Span](nil); !errors.Is(err, ErrEmptyRange) {
		t.Errorf("RangeOf(nil) error = %v, want ErrEmptyRange", err)
	}
}

func TestRangeOf(t *testing.T) {
	items := []Span{
		{File: 1, Start: 2, End: 4},
		{File: 1, Start: 8, End: 12},
	}
	got, err := RangeOf(items)
	if err != nil {
		t.Fatalf("RangeOf() error = %v", err)
	}
	want := Span{File: 1, Start: 2, End: 12}
	if got != want {
		t.Errorf("RangeOf() = %+v, want %+v", got, want)
	}
}

func TestRangeBetween(t *testing.T) {
	first := Span{File: 2, Start: 0, End: 3}
	last := Span{File: 2, Start: 9, End: 14}
	got := RangeBetween(first, last)
	want := Span{File: 2, Start: 0, End: 14}
	if got != want {
		t.Errorf("RangeBetween() = %+v, want %+v", got, want)
	}
}

func TestSpan_IsZero(t *testing.T) {
	if !(Span{}).IsZero() {
		t.Error("zero span should report IsZero")
	}
	if (Span{File: 1}).IsZero() {
		t.Error("non-zero span should not report IsZero")
	}
}
