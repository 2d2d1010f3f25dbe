package hkx

import (
	"bytes"
	"strings"
)

// scanClasses searches the sample for known class-name signatures and derives
// the record's content flags. The search is a raw, unanchored substring
// match: a signature landing inside compressed data is accepted as a hit,
// and longer names also light up their prefixes (hkaSkeletonMapper data
// matches hkaSkeleton too). Detection order follows the fixed signature
// list, never file order.
func scanClasses(rec *FileRecord, data []byte) {
	for _, name := range classSignatures {
		if !bytes.Contains(data, []byte(name)) {
			continue
		}
		rec.DetectedClasses = append(rec.DetectedClasses, name)

		if strings.Contains(name, "Animation") && !strings.Contains(name, "Container") {
			rec.HasAnimation = true
			// Later animation signatures in scan order overwrite earlier
			// classifications.
			if strings.Contains(name, "Spline") {
				rec.Compression = CompressionSpline
			} else if strings.Contains(name, "Interleaved") {
				rec.Compression = CompressionInterleaved
			}
		}
		if strings.Contains(name, "Skeleton") && !strings.Contains(name, "Mapper") {
			rec.HasSkeleton = true
		}
		if strings.Contains(name, "Binding") {
			rec.HasBinding = true
		}
	}
}

// scanVersionString looks for an embedded SDK version string and captures the
// NUL-terminated ASCII run after the first marker that has one within 64
// bytes. A marker without a terminator is skipped in favor of the next.
func scanVersionString(rec *FileRecord, data []byte) {
	for _, marker := range versionStringMarkers {
		idx := bytes.Index(data, []byte(marker))
		if idx < 0 {
			continue
		}
		window := idx + taggedPrefixWindow
		if window > len(data) {
			window = len(data)
		}
		rel := bytes.IndexByte(data[idx:window], 0)
		if rel > 0 {
			rec.ContentVersion = decodeASCII(data[idx : idx+rel])
			return
		}
	}
}
