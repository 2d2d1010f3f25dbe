package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hkxtool/internal/hkx"
)

func sampleRecords() []*hkx.FileRecord {
	return []*hkx.FileRecord{
		{
			Path:            "/data/hkx/c0000/a000_000000.hkx",
			Size:            150 * 1024,
			Valid:           true,
			Endianness:      hkx.EndianLittle,
			VersionRaw:      0x0E000000,
			VersionLabel:    "hk2018 (Elden Ring / DS3)",
			NumSections:     3,
			DetectedClasses: []string{"hkaAnimationContainer", "hkaSplineCompressedAnimation"},
			HasAnimation:    true,
			Compression:     hkx.CompressionSpline,
		},
		{
			Path:         "/data/hkx/c0000/skeleton.hkx",
			Size:         32 * 1024,
			Valid:        true,
			Endianness:   hkx.EndianLittle,
			VersionRaw:   0x0E000000,
			VersionLabel: "hk2018 (Elden Ring / DS3)",
			DetectedClasses: []string{
				"hkaSkeleton",
			},
			HasSkeleton: true,
			Compression: hkx.CompressionUnknown,
		},
		{
			Path:        "/data/hkx/junk.hkx",
			Size:        12,
			Error:       "File too small to be a valid HKX",
			Endianness:  hkx.EndianUnknown,
			Compression: hkx.CompressionUnknown,
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRecords())
	if s.Total != 3 || s.Valid != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if s.WithAnimation != 1 || s.WithSkeleton != 1 || s.WithBinding != 0 {
		t.Fatalf("summary = %+v", s)
	}
	if s.TotalBytes != 150*1024+32*1024+12 {
		t.Fatalf("TotalBytes = %d", s.TotalBytes)
	}

	// Version counts cover only valid records.
	versionSum := 0
	for _, n := range s.VersionCounts {
		versionSum += n
	}
	if versionSum != s.Valid {
		t.Fatalf("version counts sum to %d, want %d", versionSum, s.Valid)
	}
	if s.VersionCounts["hk2018 (Elden Ring / DS3)"] != 2 {
		t.Fatalf("VersionCounts = %v", s.VersionCounts)
	}

	// Compression counts cover every record.
	compressionSum := 0
	for _, n := range s.CompressionCounts {
		compressionSum += n
	}
	if compressionSum != s.Total {
		t.Fatalf("compression counts sum to %d, want %d", compressionSum, s.Total)
	}
	if s.CompressionCounts[string(hkx.CompressionSpline)] != 1 {
		t.Fatalf("CompressionCounts = %v", s.CompressionCounts)
	}
}

func TestBuildDocument(t *testing.T) {
	doc := Build(sampleRecords())
	if len(doc.AnalysisResults) != 3 {
		t.Fatalf("records = %d", len(doc.AnalysisResults))
	}
	if doc.Summary.TotalFiles != 3 || doc.Summary.ValidFiles != 2 {
		t.Fatalf("summary = %+v", doc.Summary)
	}
	if doc.Summary.TotalSizeMB != 0.18 {
		t.Fatalf("TotalSizeMB = %v", doc.Summary.TotalSizeMB)
	}

	first := doc.AnalysisResults[0]
	if first.Filename != "a000_000000.hkx" || first.Filepath != "/data/hkx/c0000/a000_000000.hkx" {
		t.Fatalf("record = %+v", first)
	}
	if first.FilesizeKB != 150 {
		t.Fatalf("FilesizeKB = %v", first.FilesizeKB)
	}
	if first.HavokVersionRaw == nil || *first.HavokVersionRaw != "0xe000000" {
		t.Fatalf("HavokVersionRaw = %v", first.HavokVersionRaw)
	}
	if first.Error != nil {
		t.Fatalf("Error = %v", *first.Error)
	}

	invalid := doc.AnalysisResults[2]
	if invalid.Error == nil || *invalid.Error != "File too small to be a valid HKX" {
		t.Fatalf("invalid record = %+v", invalid)
	}
	if invalid.HavokVersionRaw != nil || invalid.ContentVersion != nil {
		t.Fatalf("invalid record should have null version fields: %+v", invalid)
	}
	if invalid.DetectedClasses == nil || len(invalid.DetectedClasses) != 0 {
		t.Fatalf("DetectedClasses should be an empty array, got %v", invalid.DetectedClasses)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	doc := Build(sampleRecords())

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"analysis_results"`) || !strings.Contains(out, `"summary"`) {
		t.Fatalf("output missing top-level keys:\n%s", out)
	}
	// Nil pointers serialize as JSON null, not an empty string.
	if !strings.Contains(out, `"error": null`) {
		t.Fatalf("valid record should carry a null error:\n%s", out)
	}
	// HTML escaping is off.
	if strings.Contains(out, `<`) {
		t.Fatalf("output should not be HTML-escaped:\n%s", out)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Summary != doc.Summary {
		t.Fatalf("summary round trip: %+v != %+v", got.Summary, doc.Summary)
	}
	if len(got.AnalysisResults) != len(doc.AnalysisResults) {
		t.Fatalf("record count round trip: %d != %d", len(got.AnalysisResults), len(doc.AnalysisResults))
	}
	if got.AnalysisResults[0].FilesizeBytes != doc.AnalysisResults[0].FilesizeBytes {
		t.Fatalf("record round trip: %+v", got.AnalysisResults[0])
	}
}

func TestWriteFile(t *testing.T) {
	doc := Build(sampleRecords())
	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(data, buf.Bytes()) {
		t.Fatal("file content differs from streamed output")
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		0:        0,
		1.005:    1,
		1.006:    1.01,
		146.4844: 146.48,
	}
	for in, want := range cases {
		if got := round2(in); got != want {
			t.Fatalf("round2(%v) = %v, want %v", in, got, want)
		}
	}
}
