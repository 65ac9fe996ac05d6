package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"stencil/internal/diag"
	"stencil/internal/expand"
	"stencil/internal/source"
)

// InputSuffix is the extension batch runs pick up.
const InputSuffix = ".stn"

// ListInputFiles returns all input files under dir, sorted for a
// deterministic run order.
func ListInputFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, InputSuffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ExpandDir expands every input file under dir with the same entry,
// fanning out across files. Invocations never share state: each file gets
// its own emitter and dummy inside Invoke, so parallelism cannot leak
// diagnostics between files. A file that fails to load still yields a
// Result whose output carries the failure as a diagnostic node.
func ExpandDir(ctx context.Context, dir string, entry expand.Entry, opts Options) (*source.FileSet, []Result, error) {
	files, err := ListInputFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Preload sequentially: FileSet mutation is not concurrent-safe and
	// load order determines FileIDs. Workers resolve files by path.
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		opts.Observer.emit(Event{Stage: StageLoad, Path: path, Total: len(files)})
		if _, err := fileSet.Load(path); err != nil {
			loadErrors[path] = err
		}
	}

	// Lex attribute arguments once up front; workers must not grow the
	// shared FileSet. Arg lex problems resurface per invocation as Invalid
	// tokens, so they are not reported here.
	if entry.Config.Kind == expand.KindAttribute && opts.Args != "" {
		argID := fileSet.AddVirtual(filepath.Join(dir, "#args"), []byte(opts.Args))
		opts.argStream = tokenizeWith(fileSet.Get(argID), diag.NewEmitter())
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Indices are unique per goroutine, no mutex needed.
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			file, loaded := fileSet.GetByPath(path)
			if !loaded {
				loadErr := loadErrors[path]
				failure := diag.NewError(diag.CallSitef("failed to load file: %v", loadErr))
				results[i] = Result{
					Path:   path,
					Output: failure.RenderStream(source.Span{}),
				}
				opts.Observer.emit(Event{Stage: StageDone, Path: path, Index: i + 1, Total: len(files), Failed: true})
				return nil
			}

			res := expandIn(fileSet, file.ID, path, entry, opts)
			results[i] = *res
			opts.Observer.emit(Event{
				Stage:  StageDone,
				Path:   path,
				Index:  i + 1,
				Total:  len(files),
				Cached: res.Cached,
				Failed: res.Failed(),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
