package driver

import (
	"stencil/internal/diag"
	"stencil/internal/lexer"
	"stencil/internal/source"
	"stencil/internal/token"
)

// TokenizeResult carries the tokens of one file plus everything the lexer
// complained about.
type TokenizeResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Tokens   token.Stream
	Problems []diag.Message
}

// Tokenize loads and tokenizes a single file.
func Tokenize(path string) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeIn(fs, fileID), nil
}

// TokenizeSource tokenizes in-memory content under a virtual name.
func TokenizeSource(name string, content []byte) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenizeIn(fs, fs.AddVirtual(name, content))
}

func tokenizeIn(fs *source.FileSet, fileID source.FileID) *TokenizeResult {
	file := fs.Get(fileID)

	sink := diag.NewEmitter()
	tokens := tokenizeWith(file, sink)

	var problems []diag.Message
	if lexErr := diag.Convert(sink.IntoResult()); lexErr != nil {
		problems = lexErr.Messages()
	}
	return &TokenizeResult{
		FileSet:  fs,
		File:     file,
		Tokens:   tokens,
		Problems: problems,
	}
}

// tokenizeWith lexes one file, routing deduplicated lex problems into sink.
func tokenizeWith(file *source.File, sink diag.Reporter) token.Stream {
	lx := lexer.New(file, lexer.Options{
		Reporter: lexer.DiagReporter{Next: diag.NewDedupReporter(sink)},
	})
	return lx.Tokens()
}
