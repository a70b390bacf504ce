package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes the generated files with at most workers writes in
// flight, creating directories as needed. A file whose content is already
// on disk is left untouched. It returns the number of files written.
func WriteFiles(ctx context.Context, files []GeneratedFile, workers int) (int, error) {
	if workers < 1 {
		workers = 1
	}

	var written atomic.Int64

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, file := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			changed, err := writeFile(file)
			if err != nil {
				return err
			}

			if changed {
				written.Add(1)
			}

			return nil
		})
	}

	err := eg.Wait()

	return int(written.Load()), err
}

// writeFile writes one file and reports whether its content changed.
func writeFile(file GeneratedFile) (bool, error) {
	path := file.Path()

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, file.Content) {
		return false, nil
	}

	if err := os.MkdirAll(file.Dir, dirPerm); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", file.Dir, err)
	}

	if err := os.WriteFile(path, file.Content, filePerm); err != nil {
		return false, fmt.Errorf("writing file %s: %w", path, err)
	}

	return true, nil
}
