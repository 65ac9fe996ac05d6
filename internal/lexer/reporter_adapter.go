package lexer

import (
	"stencil/internal/diag"
	"stencil/internal/source"
)

// DiagReporter bridges lex problems into the diagnostic model.
type DiagReporter struct {
	Next diag.Reporter
}

func (r DiagReporter) Report(span source.Span, msg string) {
	if r.Next == nil {
		return
	}
	r.Next.Report(diag.New(span, msg))
}
