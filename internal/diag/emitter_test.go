package diag

import (
	"errors"
	"testing"

	"stencil/internal/source"
)

func TestEmitter_FreshIsSuccess(t *testing.T) {
	em := NewEmitter()
	if err := em.IntoResult(); err != nil {
		t.Errorf("fresh emitter IntoResult() = %v, want nil", err)
	}
}

func TestEmitter_CheckpointOrderAndDrain(t *testing.T) {
	em := NewEmitter()
	em.Emit(CallSite("m1"))
	em.Emit(CallSite("m2"))

	err := em.IntoResult()
	if err == nil {
		t.Fatal("IntoResult() = nil after two emits")
	}
	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("IntoResult() returned %T, want *Error", err)
	}
	msgs := de.Messages()
	if len(msgs) != 2 || msgs[0].Text != "m1" || msgs[1].Text != "m2" {
		t.Errorf("messages = %v, want [m1 m2]", msgs)
	}

	// Draining is destructive: the emitter is empty again...
	if !em.IsEmpty() {
		t.Error("emitter should be empty after checkpoint")
	}
	if err := em.IntoResult(); err != nil {
		t.Errorf("second checkpoint = %v, want nil", err)
	}

	// ...but stays usable for further accumulation.
	em.Emit(CallSite("m3"))
	err = em.IntoResult()
	if err == nil {
		t.Fatal("emitter unusable after checkpoint")
	}
	errors.As(err, &de)
	if de.Len() != 1 || de.Messages()[0].Text != "m3" {
		t.Errorf("post-checkpoint accumulation broken: %v", de.Messages())
	}
}

func TestEmitter_EmitfIsCallSite(t *testing.T) {
	em := NewEmitter()
	em.Emitf("expected %d arguments, got %d", 1, 3)

	var de *Error
	if !errors.As(em.IntoResult(), &de) {
		t.Fatal("Emitf left nothing pending")
	}
	msg := de.Messages()[0]
	if msg.Text != "expected 1 arguments, got 3" {
		t.Errorf("text = %q", msg.Text)
	}
	if !msg.Primary.IsZero() {
		t.Errorf("Emitf should bind to the ambient call site, got %+v", msg.Primary)
	}
}

func TestEmitter_ClearDropsPending(t *testing.T) {
	em := NewEmitter()
	em.Emit(CallSite("stale"))
	em.Clear()

	if err := em.IntoResult(); err != nil {
		t.Errorf("IntoResult() after Clear = %v, want nil", err)
	}

	em.Emit(CallSite("fresh"))
	var de *Error
	if !errors.As(em.IntoResult(), &de) || de.Messages()[0].Text != "fresh" {
		t.Error("emitter unusable after Clear")
	}
}

func TestEmitter_ExtendPlacesAfterPending(t *testing.T) {
	em := NewEmitter()
	em.Emit(CallSite("first"))
	em.Extend([]Message{CallSite("second"), CallSite("third")})

	var de *Error
	errors.As(em.IntoResult(), &de)
	msgs := de.Messages()
	want := []string{"first", "second", "third"}
	if len(msgs) != len(want) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(want))
	}
	for i := range want {
		if msgs[i].Text != want[i] {
			t.Errorf("messages[%d] = %q, want %q", i, msgs[i].Text, want[i])
		}
	}
}

func TestDedupReporter(t *testing.T) {
	em := NewEmitter()
	r := NewDedupReporter(em)

	sp := source.Span{File: 1, Start: 0, End: 4}
	r.Report(New(sp, "dup"))
	r.Report(New(sp, "dup"))
	r.Report(New(sp, "other"))
	r.Report(New(source.Span{File: 1, Start: 5, End: 6}, "dup"))

	if em.Len() != 3 {
		t.Errorf("deduped reporter forwarded %d messages, want 3", em.Len())
	}
}
