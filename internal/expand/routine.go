package expand

import (
	"stencil/internal/diag"
	"stencil/internal/token"
)

// Inputs carries the raw token streams handed to one invocation. Item is
// populated for attribute entries only.
type Inputs struct {
	Input token.Stream
	Item  token.Stream
}

// routineFn is the uniform invocation protocol every declared shape is
// adapted into at registration time. The adapter always owns an emitter and
// a dummy buffer; shapes that do not declare them simply never observe them.
type routineFn func(in Inputs, dummy *token.Stream, em *diag.Emitter) (token.Stream, error)

// Routine is a registered generation routine: one of the supported callable
// shapes wrapped into the uniform protocol. The shape is resolved once by
// the constructor used, never by runtime reflection.
type Routine struct {
	shape string
	call  routineFn
}

// Shape names the declared parameter set, for entry listings.
func (r Routine) Shape() string { return r.shape }

func (r Routine) valid() bool { return r.call != nil }

// Plain adapts func(input) -> output.
func Plain(fn func(input token.Stream) token.Stream) Routine {
	return Routine{shape: "plain", call: func(in Inputs, _ *token.Stream, _ *diag.Emitter) (token.Stream, error) {
		return fn(in.Input), nil
	}}
}

// Fallible adapts func(input) -> (output, error).
func Fallible(fn func(input token.Stream) (token.Stream, error)) Routine {
	return Routine{shape: "fallible", call: func(in Inputs, _ *token.Stream, _ *diag.Emitter) (token.Stream, error) {
		return fn(in.Input)
	}}
}

// WithEmitter adapts func(input, emitter) -> (output, error).
func WithEmitter(fn func(input token.Stream, em *diag.Emitter) (token.Stream, error)) Routine {
	return Routine{shape: "emitter", call: func(in Inputs, _ *token.Stream, em *diag.Emitter) (token.Stream, error) {
		return fn(in.Input, em)
	}}
}

// WithDummy adapts func(input, dummy) -> (output, error). The routine may
// overwrite or append to the dummy buffer at any point before returning.
func WithDummy(fn func(input token.Stream, dummy *token.Stream) (token.Stream, error)) Routine {
	return Routine{shape: "dummy", call: func(in Inputs, dummy *token.Stream, _ *diag.Emitter) (token.Stream, error) {
		return fn(in.Input, dummy)
	}}
}

// WithBoth adapts func(input, emitter, dummy) -> (output, error).
func WithBoth(fn func(input token.Stream, em *diag.Emitter, dummy *token.Stream) (token.Stream, error)) Routine {
	return Routine{shape: "emitter+dummy", call: func(in Inputs, dummy *token.Stream, em *diag.Emitter) (token.Stream, error) {
		return fn(in.Input, em, dummy)
	}}
}

// AttrPlain adapts func(args, item) -> output for attribute entries.
func AttrPlain(fn func(args, item token.Stream) token.Stream) Routine {
	return Routine{shape: "attr plain", call: func(in Inputs, _ *token.Stream, _ *diag.Emitter) (token.Stream, error) {
		return fn(in.Input, in.Item), nil
	}}
}

// AttrFallible adapts func(args, item) -> (output, error).
func AttrFallible(fn func(args, item token.Stream) (token.Stream, error)) Routine {
	return Routine{shape: "attr fallible", call: func(in Inputs, _ *token.Stream, _ *diag.Emitter) (token.Stream, error) {
		return fn(in.Input, in.Item)
	}}
}

// AttrWithEmitter adapts func(args, item, emitter) -> (output, error).
func AttrWithEmitter(fn func(args, item token.Stream, em *diag.Emitter) (token.Stream, error)) Routine {
	return Routine{shape: "attr emitter", call: func(in Inputs, _ *token.Stream, em *diag.Emitter) (token.Stream, error) {
		return fn(in.Input, in.Item, em)
	}}
}

// AttrWithDummy adapts func(args, item, dummy) -> (output, error).
func AttrWithDummy(fn func(args, item token.Stream, dummy *token.Stream) (token.Stream, error)) Routine {
	return Routine{shape: "attr dummy", call: func(in Inputs, dummy *token.Stream, _ *diag.Emitter) (token.Stream, error) {
		return fn(in.Input, in.Item, dummy)
	}}
}

// AttrWithBoth adapts func(args, item, emitter, dummy) -> (output, error).
func AttrWithBoth(fn func(args, item token.Stream, em *diag.Emitter, dummy *token.Stream) (token.Stream, error)) Routine {
	return Routine{shape: "attr emitter+dummy", call: func(in Inputs, dummy *token.Stream, em *diag.Emitter) (token.Stream, error) {
		return fn(in.Input, in.Item, em, dummy)
	}}
}
