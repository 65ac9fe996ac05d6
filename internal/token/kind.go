package token

// Kind classifies a token. The engine transports tokens without assigning
// language meaning; the set is deliberately coarse.
type Kind uint8

const (
	// EOF marks the end of a stream when produced by the lexer.
	EOF Kind = iota
	// Ident is an identifier-shaped word.
	Ident
	// IntLit is an integer literal.
	IntLit
	// FloatLit is a floating point literal.
	FloatLit
	// StringLit is a quoted string literal, text stored unquoted.
	StringLit
	// Punct is a single punctuation or operator byte.
	Punct
	// CompileError is a synthetic node a host renders as a compile-time
	// error. Text carries the full message.
	CompileError
	// Note is a synthetic non-fatal annotation attached to the preceding
	// CompileError node.
	Note
	// Invalid marks input the lexer could not classify.
	Invalid
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "eof"
	case Ident:
		return "ident"
	case IntLit:
		return "int"
	case FloatLit:
		return "float"
	case StringLit:
		return "string"
	case Punct:
		return "punct"
	case CompileError:
		return "compile_error"
	case Note:
		return "note"
	case Invalid:
		return "invalid"
	}
	return "unknown"
}

// Synthetic reports whether the kind is produced by diagnostic rendering
// rather than by lexing input.
func (k Kind) Synthetic() bool {
	return k == CompileError || k == Note
}
