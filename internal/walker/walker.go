// Package walker expands command line arguments into source files and runs
// a processing function over them with a bounded worker pool. Each file is
// independent, so files fan out across workers while results are still
// reported in input order.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"grepast/internal/language"
)

// Result is the outcome of processing one file.
type Result struct {
	Path string
	// Explicit is true when the path was named directly on the command
	// line rather than discovered inside a directory.
	Explicit bool
	Output   string
	Err      error
}

// ProcessFunc processes one file and returns its rendered output, "" when
// the file produced nothing to show.
type ProcessFunc func(path string) (string, error)

// Walker fans file processing out over a fixed number of workers.
type Walker struct {
	workers int
	process ProcessFunc
}

// New creates a walker. A worker count below 1 is raised to 1.
func New(workers int, process ProcessFunc) *Walker {
	if workers < 1 {
		workers = 1
	}
	return &Walker{workers: workers, process: process}
}

// target is one file queued for processing.
type target struct {
	index    int
	path     string
	explicit bool
}

// Collect expands the arguments into processable files. Explicitly named
// files are kept regardless of language so their errors surface; files
// found by walking a directory are filtered to supported languages, and
// hidden directories are skipped.
func Collect(args []string) ([]Result, error) {
	var targets []Result
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			targets = append(targets, Result{Path: arg, Explicit: true})
			continue
		}
		err = filepath.WalkDir(arg, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				if name := entry.Name(); strings.HasPrefix(name, ".") && path != arg {
					return filepath.SkipDir
				}
				return nil
			}
			if language.SupportedPath(path) {
				targets = append(targets, Result{Path: path})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	return targets, nil
}

// Run processes the collected files and returns one result per file, in
// the same order.
func (w *Walker) Run(files []Result) []Result {
	results := make([]Result, len(files))
	jobs := make(chan target, len(files))

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				output, err := w.process(job.path)
				results[job.index] = Result{
					Path:     job.path,
					Explicit: job.explicit,
					Output:   output,
					Err:      err,
				}
			}
		}()
	}

	for i, f := range files {
		jobs <- target{index: i, path: f.Path, explicit: f.Explicit}
	}
	close(jobs)
	wg.Wait()

	return results
}
