package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"hkxtool/internal/compat"
	"hkxtool/internal/hkx"
	"hkxtool/internal/logging"
	"hkxtool/internal/report"
	"hkxtool/internal/scancache"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var summaryOnly bool
	var compatOnly bool
	var noCache bool
	var exportPath string
	var workers int

	cmd := &cobra.Command{
		Use:   "analyze <path> [path...]",
		Short: "Analyze HKX containers for Skyrim SE compatibility",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()
			out := cmd.OutOrStdout()

			var files []string
			for _, arg := range args {
				found, err := hkx.FindFiles(arg)
				if err != nil {
					return err
				}
				if len(found) == 0 {
					fmt.Fprintf(out, "[WARN] No %s files found in %s\n", hkx.Extension, arg)
				}
				files = append(files, found...)
			}
			if len(files) == 0 {
				fmt.Fprintln(out, "No files analyzed.")
				return nil
			}

			workerCount := workers
			if workerCount <= 0 {
				workerCount = cfg.Analysis.Workers
			}

			var store *scancache.Store
			if !noCache {
				store, err = ctx.openCache(cfg)
				if err != nil {
					return err
				}
				if store != nil {
					defer store.Close()
				}
			}

			logger.Info("analyzing containers",
				logging.Int("files", len(files)),
				logging.Int("workers", workerCount),
				logging.Bool("cached", store != nil))

			records := analyzeWithCache(cmd.Context(), store, files, workerCount)
			if len(records) == 0 {
				fmt.Fprintln(out, "No files analyzed.")
				return nil
			}

			if compatOnly {
				printCompatProblems(out, records)
			} else {
				if !summaryOnly {
					printRecords(out, records)
				}
				printSummary(out, records)
			}

			if exportPath != "" {
				doc := report.Build(records)
				if err := report.WriteFile(exportPath, doc); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nExported results to: %s\n", exportPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "Show only summary statistics")
	cmd.Flags().BoolVar(&compatOnly, "compat-only", false, "Show only Skyrim SE compatibility issues")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the scan cache")
	cmd.Flags().StringVar(&exportPath, "export", "", "Export results to a JSON report file")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel analysis workers (default from config)")
	return cmd
}

// analyzeWithCache resolves each path against the scan cache and analyzes
// only the misses, preserving input order. A nil store analyzes everything.
func analyzeWithCache(ctx context.Context, store *scancache.Store, paths []string, workers int) []*hkx.FileRecord {
	if store == nil {
		return hkx.AnalyzeAll(ctx, paths, workers)
	}

	records := make([]*hkx.FileRecord, len(paths))
	type miss struct {
		index   int
		mtimeNS int64
	}
	var misses []miss
	var missPaths []string

	for i, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			misses = append(misses, miss{index: i})
			missPaths = append(missPaths, path)
			continue
		}
		mtimeNS := info.ModTime().UnixNano()
		if rec, hit, err := store.Get(ctx, path, info.Size(), mtimeNS); err == nil && hit {
			records[i] = rec
			continue
		}
		misses = append(misses, miss{index: i, mtimeNS: mtimeNS})
		missPaths = append(missPaths, path)
	}

	analyzed := hkx.AnalyzeAll(ctx, missPaths, workers)
	for j, rec := range analyzed {
		if j >= len(misses) {
			break
		}
		records[misses[j].index] = rec
		if misses[j].mtimeNS != 0 {
			_ = store.Put(ctx, rec, misses[j].mtimeNS)
		}
	}

	// A canceled batch leaves gaps.
	out := records[:0]
	for _, rec := range records {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

func printRecords(out io.Writer, records []*hkx.FileRecord) {
	for _, rec := range records {
		fmt.Fprintf(out, "\n%s\n", formatRecord(rec))
		for _, issue := range compat.Check(rec) {
			fmt.Fprintf(out, "  Skyrim Compat: %s\n", issue)
		}
	}
}

func printCompatProblems(out io.Writer, records []*hkx.FileRecord) {
	for _, rec := range records {
		problems := compat.Problems(rec)
		if len(problems) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s:\n", filepath.Base(rec.Path))
		for _, issue := range problems {
			fmt.Fprintf(out, "  ⚠ %s\n", issue)
		}
	}
}

func formatRecord(rec *hkx.FileRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", filepath.Base(rec.Path))
	fmt.Fprintf(&b, "  Size: %.1f KB\n", float64(rec.Size)/1024)
	fmt.Fprintf(&b, "  Valid: %v\n", rec.Valid)
	if rec.Error != "" {
		fmt.Fprintf(&b, "  Error: %s\n", rec.Error)
	}
	if rec.Valid {
		fmt.Fprintf(&b, "  Havok Version: %s\n", rec.VersionLabel)
		if rec.ContentVersion != "" {
			fmt.Fprintf(&b, "  Content Version: %s\n", rec.ContentVersion)
		}
		fmt.Fprintf(&b, "  Endianness: %s\n", rec.Endianness)
		if rec.NumSections > 0 {
			fmt.Fprintf(&b, "  Sections: %d\n", rec.NumSections)
		}
		if len(rec.DetectedClasses) > 0 {
			fmt.Fprintf(&b, "  Classes: %s\n", strings.Join(rec.DetectedClasses, ", "))
		}
		fmt.Fprintf(&b, "  Has Animation: %v\n", rec.HasAnimation)
		fmt.Fprintf(&b, "  Has Skeleton: %v\n", rec.HasSkeleton)
		fmt.Fprintf(&b, "  Compression: %s\n", rec.Compression)
	}
	return strings.TrimRight(b.String(), "\n")
}

func printSummary(out io.Writer, records []*hkx.FileRecord) {
	s := report.Summarize(records)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "HKX Analysis Summary")
	totals := [][]string{
		{"Total files", fmt.Sprintf("%d", s.Total)},
		{"Valid HKX", fmt.Sprintf("%d", s.Valid)},
		{"Total size", fmt.Sprintf("%.2f MB", float64(s.TotalBytes)/1024/1024)},
		{"With animation", fmt.Sprintf("%d", s.WithAnimation)},
		{"With skeleton", fmt.Sprintf("%d", s.WithSkeleton)},
		{"With binding", fmt.Sprintf("%d", s.WithBinding)},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, totals, []columnAlignment{alignLeft, alignRight}))

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Havok Versions")
	fmt.Fprintln(out, renderTable([]string{"Version", "Files"}, countRows(s.VersionCounts), []columnAlignment{alignLeft, alignRight}))

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Compression Types")
	fmt.Fprintln(out, renderTable([]string{"Compression", "Files"}, countRows(s.CompressionCounts), []columnAlignment{alignLeft, alignRight}))
}

func countRows(counts map[string]int) [][]string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, fmt.Sprintf("%d", counts[key])})
	}
	return rows
}
