package diag

// Emitter is a mutable, append-only sink of messages owned by exactly one
// generation invocation. It is created empty, never shared across
// invocations, and discarded when the invocation resolves.
type Emitter struct {
	pending []Message
}

// NewEmitter creates an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit appends a message. It never fails.
func (e *Emitter) Emit(msg Message) {
	e.pending = append(e.pending, msg)
}

// Emitf is Emit of an ambient call-site message with formatting.
func (e *Emitter) Emitf(format string, args ...any) {
	e.Emit(CallSitef(format, args...))
}

// Extend appends a sequence of messages preserving their relative order,
// after everything already pending.
func (e *Emitter) Extend(msgs []Message) {
	e.pending = append(e.pending, msgs...)
}

// Len returns the number of pending messages.
func (e *Emitter) Len() int { return len(e.pending) }

// IsEmpty reports whether nothing is pending.
func (e *Emitter) IsEmpty() bool { return len(e.pending) == 0 }

// Clear drops all pending messages.
func (e *Emitter) Clear() { e.pending = nil }

// IntoResult is the checkpoint operation: it returns nil when nothing is
// pending, otherwise it drains the pending messages into an *Error and
// returns it. Draining leaves the Emitter empty but fully usable, so a
// routine may accumulate and checkpoint repeatedly within one invocation.
func (e *Emitter) IntoResult() error {
	if len(e.pending) == 0 {
		return nil
	}
	msgs := e.pending
	e.pending = nil
	return FromMessages(msgs)
}

// Report implements Reporter.
func (e *Emitter) Report(msg Message) { e.Emit(msg) }

// Reporter is the minimal contract producers use to hand over diagnostics
// without coupling to storage. Emitter is the canonical implementation;
// DedupReporter decorates another Reporter.
type Reporter interface {
	Report(msg Message)
}

type dedupKey struct {
	file  uint32
	start uint32
	end   uint32
	text  string
}

// DedupReporter wraps another Reporter and suppresses duplicate messages
// with the same primary span and text. The expansion engine itself never
// deduplicates; this exists for producers that lex or scan the same region
// repeatedly.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that forwards only unique messages.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(msg Message) {
	if r == nil {
		return
	}
	key := dedupKey{
		file:  uint32(msg.Primary.File),
		start: msg.Primary.Start,
		end:   msg.Primary.End,
		text:  msg.Text,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(msg)
	}
}
