package harvester

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	fcerrors "github.com/standardbeagle/filecleaner/internal/errors"
	"github.com/standardbeagle/filecleaner/internal/resulttable"
)

// Options configures one harvest run, per §4.6.
type Options struct {
	// Paths is a semicolon- or comma-separated list of source paths.
	Paths string
	// Filter is an optional doublestar glob a candidate's base name must
	// match; empty means no filtering.
	Filter string
	// Includes is the project settings document's list of include globs
	// (config.Config.Include). Only consulted when Filter is empty; a
	// candidate matching any one of them is admitted. An empty slice
	// admits everything, matching the pre-settings default.
	Includes []string
	// Depth bounds directory recursion; 0 means the top level only, -1
	// means unbounded.
	Depth int
	// Ignore excludes matching paths; nil admits everything.
	Ignore *IgnoreSet
	// Workers bounds the worker-pool size; <= 0 runs a single worker
	// alongside the directory walk.
	Workers int
	// Hash requests a content hash per file (xxhash64), enabling
	// duplicate-file detection via resulttable.DuplicateGroups. Reading
	// every candidate's bytes is not free, so it is opt-in.
	Hash bool
}

// candidate is one file discovered during the walk, queued for a
// worker to stat and classify.
type candidate struct {
	absPath string
	relRoot string
}

// Harvest walks Options.Paths and appends every admitted file to table
// as a resulttable.Row. cancelled, if non-nil, is checked between files
// (and should be flipped by the caller to implement timeouts).
func Harvest(ctx context.Context, opts Options, table *resulttable.Table, cancelled *atomic.Bool) error {
	roots, err := splitPaths(opts.Paths)
	if err != nil {
		return err
	}

	candidates := make(chan candidate, 256)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(candidates)
		for _, root := range roots {
			if cancelled != nil && cancelled.Load() {
				return nil
			}
			if err := walkOne(gctx, root, opts, candidates, cancelled); err != nil {
				return err
			}
		}
		return nil
	})

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			var local []resulttable.Row
			for c := range candidates {
				if cancelled != nil && cancelled.Load() {
					continue
				}
				info, err := os.Lstat(c.absPath)
				if err != nil || info.IsDir() {
					continue
				}
				row := resulttable.Row{
					Path:      c.absPath,
					Size:      info.Size(),
					Extension: strings.ToLower(filepath.Ext(c.absPath)),
				}
				if opts.Hash {
					if h, err := hashFile(c.absPath); err == nil {
						row.Hash = h
					}
				}
				local = append(local, row)
			}
			table.AppendRows(local)
			return nil
		})
	}

	return g.Wait()
}

// splitPaths normalizes a semicolon/comma-separated path list to
// absolute paths.
func splitPaths(paths string) ([]string, error) {
	var parts []string
	for _, p := range strings.FieldsFunc(paths, func(r rune) bool { return r == ';' || r == ',' }) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fcerrors.NewIoError("abs", p, err)
		}
		parts = append(parts, abs)
	}
	if len(parts) == 0 {
		return nil, fcerrors.NewNotFoundError("source path", paths)
	}
	return parts, nil
}

func walkOne(ctx context.Context, root string, opts Options, out chan<- candidate, cancelled *atomic.Bool) error {
	info, err := os.Stat(root)
	if err != nil {
		return fcerrors.NewIoError("stat", root, err)
	}

	if !info.IsDir() {
		if matchesFilter(filepath.Base(root), opts.Filter, opts.Includes) && !isIgnored(opts.Ignore, root, filepath.Base(root)) {
			out <- candidate{absPath: root, relRoot: root}
		}
		return nil
	}

	return walkDir(ctx, root, root, 0, opts, out, cancelled)
}

func walkDir(ctx context.Context, projectRoot, dir string, depth int, opts Options, out chan<- candidate, cancelled *atomic.Bool) error {
	if cancelled != nil && cancelled.Load() {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fcerrors.NewIoError("readdir", dir, err)
	}

	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		rel, _ := filepath.Rel(projectRoot, full)

		if isIgnored(opts.Ignore, projectRoot, rel) {
			continue
		}

		if e.IsDir() {
			if opts.Depth >= 0 && depth >= opts.Depth {
				continue
			}
			if err := walkDir(ctx, projectRoot, full, depth+1, opts, out, cancelled); err != nil {
				return err
			}
			continue
		}

		if matchesFilter(e.Name(), opts.Filter, opts.Includes) {
			out <- candidate{absPath: full, relRoot: projectRoot}
		}
	}
	return nil
}

// hashFile streams a candidate's bytes through xxhash64, used to group
// byte-identical files for duplicate-file reporting.
func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fcerrors.NewIoError("open", path, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fcerrors.NewIoError("read", path, err)
	}
	return h.Sum64(), nil
}

// matchesFilter applies the CLI's single --filter glob when present;
// otherwise it falls back to the settings document's include globs, any
// one of which admits the candidate. No filter and no includes admits
// everything.
func matchesFilter(name, filter string, includes []string) bool {
	if filter != "" {
		ok, _ := doublestar.Match(filter, name)
		return ok
	}
	if len(includes) == 0 {
		return true
	}
	for _, inc := range includes {
		if ok, _ := doublestar.Match(inc, name); ok {
			return true
		}
	}
	return false
}

// isIgnored reports whether relPath (already relative to projectRoot)
// is excluded. The standalone-file call site in walkOne passes the file's
// base name as relPath, so rules are matched against that name alone.
func isIgnored(set *IgnoreSet, projectRoot, relPath string) bool {
	if set == nil {
		return false
	}
	return set.ShouldIgnore(relPath)
}
