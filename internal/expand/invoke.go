package expand

import (
	"fmt"

	"stencil/internal/diag"
	"stencil/internal/source"
	"stencil/internal/token"
)

// abortText is used when an intercepted abort carries no description.
const abortText = "generation routine aborted"

// Entry is one registered generation entry point: a routine plus its
// immutable configuration.
type Entry struct {
	Name    string
	Config  Config
	Routine Routine
}

// Request is the host's per-call payload. Item is consulted for attribute
// entries only. CallSite is the ambient range used for messages without a
// span of their own; when zero it is derived from the input streams.
type Request struct {
	Input    token.Stream
	Item     token.Stream
	CallSite source.Span
}

// outcome is the result of the Invoking phase.
type outcome struct {
	tokens  token.Stream // valid when err == nil and not aborted
	err     error        // routine's explicit failure
	aborted bool
	abort   diag.Message // synthesized from the intercepted abort
}

// Invoke runs the entry's routine over the request and reconciles its
// return value, the emitter's accumulated messages, and the dummy fallback
// buffer into the final output stream. It always returns normally: explicit
// failures and uncontrolled aborts alike come back as rendered diagnostic
// nodes, never as a panic or an error to the host.
//
// The phases run strictly in order — invoke under a recovery boundary,
// resolve against the emitter, render — and none is ever skipped.
func (e Entry) Invoke(req Request) token.Stream {
	callSite := e.callSite(req)

	// Invoking: fresh per-invocation state, routine under the recovery
	// boundary.
	em := diag.NewEmitter()
	dummy := e.seedDummy(req)
	out := e.invoke(req, &dummy, em)

	// Resolving: combine the outcome with whatever the routine emitted.
	final, rendered := resolve(out, em, dummy)

	// Rendering: surfaced diagnostics become synthetic nodes after the
	// payload tokens.
	rendered.Render(callSite, &final)
	return final
}

// callSite picks the ambient range: the explicit one when given, otherwise
// the covering span of the item or input stream.
func (e Entry) callSite(req Request) source.Span {
	if !req.CallSite.IsZero() {
		return req.CallSite
	}
	if e.Config.Kind == KindAttribute {
		if sp, err := req.Item.SpanRange(); err == nil {
			return sp
		}
	}
	return req.Input.SpanOr(source.Span{})
}

func (e Entry) seedDummy(req Request) token.Stream {
	switch e.Config.Seed {
	case SeedFromInput:
		return req.Input.Clone()
	case SeedFromItem:
		return req.Item.Clone()
	default:
		return nil
	}
}

// invoke runs the routine and intercepts uncontrolled aborts. A panic is
// downgraded to a single synthesized call-site message and never propagates
// past this boundary.
func (e Entry) invoke(req Request, dummy *token.Stream, em *diag.Emitter) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out.aborted = true
			out.abort = diag.CallSite(describeAbort(r))
		}
	}()
	if !e.Routine.valid() {
		out.err = diag.NewError(diag.CallSitef("entry %q has no routine registered", e.Name))
		return out
	}
	out.tokens, out.err = e.Routine.call(Inputs{Input: req.Input, Item: req.Item}, dummy, em)
	return out
}

// resolve applies the reconciliation rules:
//
//	success + empty emitter  => tokens alone
//	success + pending        => tokens, then rendered pending
//	failure                  => dummy, then pending merged before the
//	                            returned error, rendered
//	abort                    => dummy, then pending merged before the
//	                            synthesized abort message, rendered
func resolve(out outcome, em *diag.Emitter, dummy token.Stream) (token.Stream, *diag.Error) {
	pending := diag.Convert(em.IntoResult())

	switch {
	case out.aborted:
		return dummy, pending.Join(diag.NewError(out.abort))
	case out.err != nil:
		return dummy, pending.Join(diag.Convert(out.err))
	default:
		return out.tokens, pending
	}
}

func describeAbort(r any) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		if v == "" {
			return abortText
		}
		return v
	case nil:
		return abortText
	default:
		return fmt.Sprint(v)
	}
}

// Function dispatches a one-off function-like invocation without a
// registered entry. inputAsDummy pre-seeds the fallback buffer with input.
func Function(input token.Stream, inputAsDummy bool, r Routine) token.Stream {
	seed := SeedNone
	if inputAsDummy {
		seed = SeedFromInput
	}
	entry := Entry{Name: "function", Config: Config{Kind: KindFunction, Seed: seed}, Routine: r}
	return entry.Invoke(Request{Input: input})
}

// Attribute dispatches a one-off attribute invocation. itemAsDummy
// pre-seeds the fallback buffer with the annotated item, so a totally
// failing routine still reproduces the item unchanged.
func Attribute(args, item token.Stream, itemAsDummy bool, r Routine) token.Stream {
	seed := SeedNone
	if itemAsDummy {
		seed = SeedFromItem
	}
	entry := Entry{Name: "attribute", Config: Config{Kind: KindAttribute, Seed: seed}, Routine: r}
	return entry.Invoke(Request{Input: args, Item: item})
}

// Derive dispatches a one-off derive invocation over the item stream.
func Derive(item token.Stream, r Routine) token.Stream {
	entry := Entry{Name: "derive", Config: Config{Kind: KindDerive}, Routine: r}
	return entry.Invoke(Request{Input: item})
}
