package ui

import (
	"strings"
	"testing"

	"stencil/internal/driver"
)

func TestProgressModelApply(t *testing.T) {
	events := make(chan driver.Event)
	model := NewProgressModel("expand", []string{"a.stn", "b.stn"}, events).(*progressModel)

	model.apply(driver.Event{Stage: driver.StageExpand, Path: "a.stn"})
	if model.rows[0].status != "expanding" {
		t.Errorf("status = %q, want expanding", model.rows[0].status)
	}

	model.apply(driver.Event{Stage: driver.StageDone, Path: "a.stn", Cached: true})
	if model.rows[0].status != "cached" || !model.rows[0].final {
		t.Errorf("row = %+v, want final cached", model.rows[0])
	}

	model.apply(driver.Event{Stage: driver.StageDone, Path: "b.stn", Failed: true})
	if model.rows[1].status != "error" {
		t.Errorf("status = %q, want error", model.rows[1].status)
	}

	// Events for unknown paths are ignored.
	if cmd := model.apply(driver.Event{Stage: driver.StageDone, Path: "zzz.stn"}); cmd != nil {
		t.Error("unknown path should not produce a command")
	}
}

func TestProgressModelView(t *testing.T) {
	events := make(chan driver.Event)
	model := NewProgressModel("expand", []string{"input.stn"}, events).(*progressModel)

	out := model.View()
	if !strings.Contains(out, "input.stn") || !strings.Contains(out, "queued") {
		t.Errorf("view missing rows:\n%s", out)
	}

	empty := NewProgressModel("expand", nil, events).(*progressModel)
	if empty.View() != "" {
		t.Error("empty model should render nothing")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		width int
		want  string
	}{
		{name: "fits", value: "short", width: 10, want: "short"},
		{name: "zero width passes through", value: "anything", width: 0, want: "anything"},
		{name: "long gets ellipsis", value: "a/very/long/path/name.stn", width: 12, want: "a/very..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.value, tt.width); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.value, tt.width, got, tt.want)
			}
		})
	}
}
