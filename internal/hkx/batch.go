package hkx

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FindFiles resolves the analysis input set. A file path is returned as-is;
// a directory is walked recursively for container files, sorted
// lexicographically so batch output is deterministic.
func FindFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("inspect path %q: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if filepath.Ext(path) == Extension {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// AnalyzeAll analyzes every path and returns records in input order.
// Records share nothing mutable, so the batch fans out across workers when
// asked; workers <= 1 keeps the sequential reference behavior.
func AnalyzeAll(ctx context.Context, paths []string, workers int) []*FileRecord {
	records := make([]*FileRecord, len(paths))

	if workers <= 1 {
		for i, path := range paths {
			if ctx.Err() != nil {
				return records[:i]
			}
			records[i] = Analyze(path)
		}
		return records
	}

	if workers > len(paths) {
		workers = len(paths)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				records[i] = Analyze(paths[i])
			}
		}()
	}

	for i := range paths {
		select {
		case indexes <- i:
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return compactRecords(records)
		}
	}
	close(indexes)
	wg.Wait()
	return records
}

func compactRecords(records []*FileRecord) []*FileRecord {
	out := records[:0]
	for _, rec := range records {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}
