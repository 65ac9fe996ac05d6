package diag

import (
	"fmt"
	"strings"

	"stencil/internal/source"
)

// Note is a secondary annotation with its own span, attached to a Message.
type Note struct {
	Span source.Span
	Msg  string
}

// attachment is a labeled extra line rendered inside the message text,
// reusing the primary span.
type attachment struct {
	label string
	msg   string
}

// Message is one reportable problem. The zero Primary span means "ambient
// call site"; the renderer substitutes the invocation span for it.
type Message struct {
	Primary     source.Span
	Text        string
	Notes       []Note
	attachments []attachment
}

// New creates a message at the given span.
func New(primary source.Span, text string) Message {
	return Message{Primary: primary, Text: text}
}

// Newf creates a message at the given span with fmt-style formatting.
func Newf(primary source.Span, format string, args ...any) Message {
	return Message{Primary: primary, Text: fmt.Sprintf(format, args...)}
}

// CallSite creates a message bound to the ambient call-site range of the
// invocation it is emitted from. Prefer New with a concrete span when one
// is available.
func CallSite(text string) Message {
	return Message{Text: text}
}

// CallSitef is CallSite with fmt-style formatting.
func CallSitef(format string, args ...any) Message {
	return Message{Text: fmt.Sprintf(format, args...)}
}

// Spanned creates a message covering a ranged value.
func Spanned(r source.Ranged, text string) Message {
	return Message{Primary: r.SpanRange(), Text: text}
}

// WithNote returns a copy with an additional spanned note.
func (m Message) WithNote(sp source.Span, msg string) Message {
	notes := make([]Note, len(m.Notes), len(m.Notes)+1)
	copy(notes, m.Notes)
	m.Notes = append(notes, Note{Span: sp, Msg: msg})
	return m
}

// Attach returns a copy with an extra labeled line reusing the primary span.
func (m Message) Attach(label string, msg string) Message {
	atts := make([]attachment, len(m.attachments), len(m.attachments)+1)
	copy(atts, m.attachments)
	m.attachments = append(atts, attachment{label: label, msg: msg})
	return m
}

// WithError attaches an extra "error" line.
func (m Message) WithError(msg string) Message { return m.Attach("error", msg) }

// WithWarning attaches an extra "warning" line.
func (m Message) WithWarning(msg string) Message { return m.Attach("warning", msg) }

// WithInfo attaches an extra "note" line.
func (m Message) WithInfo(msg string) Message { return m.Attach("note", msg) }

// WithHelp attaches an extra "help" line.
func (m Message) WithHelp(msg string) Message { return m.Attach("help", msg) }

// String renders the message text with attachments folded in:
//
//	text
//
//	  = label: first line
//	           continuation
func (m Message) String() string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(m.Text, "\n"))
	if len(m.attachments) > 0 {
		b.WriteString("\n\n")
	}
	for _, att := range m.attachments {
		lines := strings.Split(att.msg, "\n")
		fmt.Fprintf(&b, "  = %s: %s\n", att.label, lines[0])
		pad := strings.Repeat(" ", len(att.label))
		for _, line := range lines[1:] {
			fmt.Fprintf(&b, "    %s  %s\n", pad, line)
		}
	}
	return b.String()
}

// Error implements the error interface so a routine can return a Message
// directly as its failure value.
func (m Message) Error() string { return m.Text }

// ResolveCallSite returns a copy with zero spans replaced by the ambient
// call-site span. Notes without a span inherit it as well.
func (m Message) ResolveCallSite(callSite source.Span) Message {
	if m.Primary.IsZero() {
		m.Primary = callSite
	}
	if len(m.Notes) > 0 {
		notes := make([]Note, len(m.Notes))
		copy(notes, m.Notes)
		for i := range notes {
			if notes[i].Span.IsZero() {
				notes[i].Span = callSite
			}
		}
		m.Notes = notes
	}
	return m
}
