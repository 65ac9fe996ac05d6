package diag

import (
	"errors"
	"fmt"

	"stencil/internal/source"
	"stencil/internal/token"
)

// Silent marks a failure that renders no compile-error node at all: the
// dummy output is emitted alone. Convert turns it into an Error with zero
// messages.
var Silent = errors.New("diag: silent failure")

// Error is an ordered, normally non-empty collection of Messages
// representing one failure outcome. The zero-message form exists only as
// the conversion of Silent.
type Error struct {
	messages []Message
}

// NewError creates an Error holding a single message.
func NewError(msg Message) *Error {
	return &Error{messages: []Message{msg}}
}

// FromMessages builds an Error from a message sequence, preserving order.
// The slice is taken over by the Error.
func FromMessages(msgs []Message) *Error {
	return &Error{messages: msgs}
}

// Messages returns the message sequence. Callers must not mutate it.
func (e *Error) Messages() []Message {
	if e == nil {
		return nil
	}
	return e.messages
}

// Len returns the number of messages.
func (e *Error) Len() int {
	if e == nil {
		return 0
	}
	return len(e.messages)
}

// Push appends one more message.
func (e *Error) Push(msg Message) {
	e.messages = append(e.messages, msg)
}

// Join concatenates other's messages after e's, preserving the relative
// order on both sides. Join never drops or deduplicates a message. Either
// operand may be nil.
func (e *Error) Join(other *Error) *Error {
	if e == nil || len(e.messages) == 0 {
		if other == nil {
			return e
		}
		return other
	}
	if other == nil || len(other.messages) == 0 {
		return e
	}
	merged := make([]Message, 0, len(e.messages)+len(other.messages))
	merged = append(merged, e.messages...)
	merged = append(merged, other.messages...)
	return &Error{messages: merged}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch len(e.messages) {
	case 0:
		return "silent failure"
	case 1:
		return e.messages[0].Text
	default:
		return fmt.Sprintf("%s (and %d more)", e.messages[0].Text, len(e.messages)-1)
	}
}

// Render appends one synthetic compile-error node per message, in message
// order, followed by that message's notes. Zero spans resolve to callSite.
// Identical messages render repeatedly; deduplication is the caller's
// responsibility.
func (e *Error) Render(callSite source.Span, out *token.Stream) {
	if e == nil {
		return
	}
	for _, msg := range e.messages {
		resolved := msg.ResolveCallSite(callSite)
		out.Append(token.Token{
			Kind: token.CompileError,
			Span: resolved.Primary,
			Text: resolved.String(),
		})
		for _, note := range resolved.Notes {
			out.Append(token.Token{
				Kind: token.Note,
				Span: note.Span,
				Text: note.Msg,
			})
		}
	}
}

// RenderStream is Render into a fresh stream.
func (e *Error) RenderStream(callSite source.Span) token.Stream {
	var out token.Stream
	e.Render(callSite, &out)
	return out
}

// Convert normalizes an arbitrary error into the diagnostic model:
//
//   - *Error passes through unchanged
//   - Message wraps into a single-message Error
//   - Silent becomes the zero-message Error
//   - anything else lacks location metadata and falls back to one ambient
//     call-site message carrying err.Error()
//
// Convert(nil) returns nil.
func Convert(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	var msg Message
	if errors.As(err, &msg) {
		return NewError(msg)
	}
	if errors.Is(err, Silent) {
		return &Error{}
	}
	return NewError(CallSite(err.Error()))
}
