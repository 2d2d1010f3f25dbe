// Package report aggregates per-file analysis records into batch summaries
// and serializes the structured report document.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"hkxtool/internal/hkx"
)

// Record is the external per-file schema.
type Record struct {
	Filename        string   `json:"filename"`
	Filepath        string   `json:"filepath"`
	FilesizeBytes   int64    `json:"filesize_bytes"`
	FilesizeKB      float64  `json:"filesize_kb"`
	Valid           bool     `json:"valid"`
	Error           *string  `json:"error"`
	Endianness      string   `json:"endianness"`
	HavokVersion    string   `json:"havok_version"`
	HavokVersionRaw *string  `json:"havok_version_raw"`
	ContentVersion  *string  `json:"content_version"`
	NumSections     int      `json:"num_sections"`
	DetectedClasses []string `json:"detected_classes"`
	HasAnimation    bool     `json:"has_animation"`
	HasSkeleton     bool     `json:"has_skeleton"`
	HasBinding      bool     `json:"has_binding"`
	CompressionType string   `json:"compression_type"`
}

// SummaryJSON is the external roll-up schema.
type SummaryJSON struct {
	TotalFiles    int     `json:"total_files"`
	ValidFiles    int     `json:"valid_files"`
	TotalSizeMB   float64 `json:"total_size_mb"`
	WithAnimation int     `json:"with_animation"`
	WithSkeleton  int     `json:"with_skeleton"`
}

// Document is the full report: an ordered record list plus the summary.
type Document struct {
	AnalysisResults []Record    `json:"analysis_results"`
	Summary         SummaryJSON `json:"summary"`
}

// Summary is the in-memory batch roll-up, recomputed from records on demand.
type Summary struct {
	Total         int
	Valid         int
	WithAnimation int
	WithSkeleton  int
	WithBinding   int
	TotalBytes    int64

	// CompressionCounts covers every record, valid or not. VersionCounts
	// covers only valid records, so its values sum to Valid.
	CompressionCounts map[string]int
	VersionCounts     map[string]int
}

// Summarize computes the batch roll-up in one pass.
func Summarize(records []*hkx.FileRecord) Summary {
	s := Summary{
		CompressionCounts: make(map[string]int),
		VersionCounts:     make(map[string]int),
	}
	for _, rec := range records {
		s.Total++
		s.TotalBytes += rec.Size
		if rec.Valid {
			s.Valid++
			s.VersionCounts[rec.VersionLabel]++
		}
		if rec.HasAnimation {
			s.WithAnimation++
		}
		if rec.HasSkeleton {
			s.WithSkeleton++
		}
		if rec.HasBinding {
			s.WithBinding++
		}
		s.CompressionCounts[string(rec.Compression)]++
	}
	return s
}

// Build assembles the serializable document for a batch.
func Build(records []*hkx.FileRecord) Document {
	s := Summarize(records)
	doc := Document{
		AnalysisResults: make([]Record, 0, len(records)),
		Summary: SummaryJSON{
			TotalFiles:    s.Total,
			ValidFiles:    s.Valid,
			TotalSizeMB:   round2(float64(s.TotalBytes) / 1024 / 1024),
			WithAnimation: s.WithAnimation,
			WithSkeleton:  s.WithSkeleton,
		},
	}
	for _, rec := range records {
		doc.AnalysisResults = append(doc.AnalysisResults, toRecord(rec))
	}
	return doc
}

func toRecord(rec *hkx.FileRecord) Record {
	classes := rec.DetectedClasses
	if classes == nil {
		classes = []string{}
	}
	out := Record{
		Filename:        filepath.Base(rec.Path),
		Filepath:        rec.Path,
		FilesizeBytes:   rec.Size,
		FilesizeKB:      round2(float64(rec.Size) / 1024),
		Valid:           rec.Valid,
		Endianness:      string(rec.Endianness),
		HavokVersion:    rec.VersionLabel,
		NumSections:     rec.NumSections,
		DetectedClasses: classes,
		HasAnimation:    rec.HasAnimation,
		HasSkeleton:     rec.HasSkeleton,
		HasBinding:      rec.HasBinding,
		CompressionType: string(rec.Compression),
	}
	if rec.Error != "" {
		out.Error = ptr(rec.Error)
	}
	if rec.VersionRaw != 0 {
		out.HavokVersionRaw = ptr(fmt.Sprintf("%#x", rec.VersionRaw))
	}
	if rec.ContentVersion != "" {
		out.ContentVersion = ptr(rec.ContentVersion)
	}
	return out
}

// Write serializes the document as indented UTF-8 JSON. HTML escaping is off
// so embedded non-ASCII and punctuation survive literally.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteFile serializes the document to path.
func WriteFile(path string, doc Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer file.Close()
	if err := Write(file, doc); err != nil {
		return err
	}
	return file.Close()
}

// Read decodes a previously written report document.
func Read(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode report: %w", err)
	}
	return doc, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(s string) *string {
	return &s
}
