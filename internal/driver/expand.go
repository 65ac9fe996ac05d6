package driver

import (
	"fmt"

	"stencil/internal/diag"
	"stencil/internal/expand"
	"stencil/internal/observ"
	"stencil/internal/source"
	"stencil/internal/token"
)

// Options configures a driver run.
type Options struct {
	Jobs     int    // parallel workers for batch runs, <= 0 means GOMAXPROCS
	Cache    *Cache // nil disables caching
	Args     string // attribute argument source text, ignored for other kinds
	Timings  bool
	Observer Observer

	// argStream is the pre-lexed form of Args, set by batch runs so worker
	// goroutines never mutate the shared FileSet.
	argStream token.Stream
}

// Result is the outcome of expanding one file. Output always holds
// something renderable; failures arrive as synthetic diagnostic nodes
// inside it, never as a Go error.
type Result struct {
	Path   string
	FileID source.FileID
	Input  token.Stream
	Output token.Stream
	Cached bool
	Timing observ.Report
}

// Diagnostics extracts the synthetic nodes from the output.
func (r *Result) Diagnostics() token.Stream {
	return r.Output.Diagnostics()
}

// Failed reports whether the expansion surfaced any compile-error node.
func (r *Result) Failed() bool {
	for _, t := range r.Output {
		if t.Kind == token.CompileError {
			return true
		}
	}
	return false
}

// ExpandFile loads one file and runs the entry over it.
func ExpandFile(path string, entry expand.Entry, opts Options) (*Result, *source.FileSet, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, nil, err
	}
	res := expandIn(fs, fileID, path, entry, opts)
	return res, fs, nil
}

// ExpandSource expands in-memory content under a virtual name.
func ExpandSource(name string, content []byte, entry expand.Entry, opts Options) (*Result, *source.FileSet) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return expandIn(fs, fileID, name, entry, opts), fs
}

// expandIn runs the tokenize/expand pipeline for one already-loaded file.
// Lexer complaints surface the same way routine diagnostics do: as
// rendered nodes appended to the output.
func expandIn(fs *source.FileSet, fileID source.FileID, path string, entry expand.Entry, opts Options) *Result {
	timer := observ.NewTimer()
	file := fs.Get(fileID)

	var cacheKey Digest
	if opts.Cache != nil {
		cacheKey = ExpansionKey(file.Content, []byte(opts.Args), entry.Name, uint8(entry.Config.Kind), uint8(entry.Config.Seed))
		var payload Payload
		if hit, err := opts.Cache.Get(cacheKey, &payload); err == nil && hit && payload.Entry == entry.Name {
			return &Result{
				Path:   path,
				FileID: fileID,
				Output: fromPayload(&payload, fileID),
				Cached: true,
				Timing: timer.Report(),
			}
		}
	}

	opts.Observer.emit(Event{Stage: StageTokenize, Path: path})
	doneTok := timer.Phase("tokenize")
	lexSink := diag.NewEmitter()
	input := tokenizeWith(file, lexSink)
	doneTok(fmt.Sprintf("%d tokens", len(input)))

	opts.Observer.emit(Event{Stage: StageExpand, Path: path})
	doneExp := timer.Phase("expand")
	req := expand.Request{Input: input}
	if entry.Config.Kind == expand.KindAttribute {
		// For attribute entries the file content is the annotated item;
		// arguments, if any, arrive as separate source text.
		args := opts.argStream
		if args == nil && opts.Args != "" {
			argID := fs.AddVirtual(path+"#args", []byte(opts.Args))
			args = tokenizeWith(fs.Get(argID), lexSink)
		}
		req = expand.Request{Input: args, Item: input}
	}
	output := entry.Invoke(req)
	doneExp("")

	// Lex problems come first: they describe the input, not the expansion.
	lexErr := diag.Convert(lexSink.IntoResult())
	if lexErr != nil {
		callSite := input.SpanOr(source.Span{})
		prefixed := lexErr.RenderStream(callSite)
		prefixed.AppendStream(output)
		output = prefixed
	}

	if opts.Cache != nil && lexErr == nil {
		// Cache writes are best-effort: a failed Put costs one recompute
		// on the next run, never the result.
		payload := toPayload(entry.Name, SourceDigest(file.Content), output)
		_ = opts.Cache.Put(cacheKey, payload)
	}

	return &Result{
		Path:   path,
		FileID: fileID,
		Input:  input,
		Output: output,
		Timing: timer.Report(),
	}
}
