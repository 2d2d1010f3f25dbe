package hkx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// Analyze inspects the file at path and returns its record. Errors never
// propagate: an unreadable or unrecognizable file yields an invalid record
// with Error set, and the caller's batch keeps going.
func Analyze(path string) *FileRecord {
	info, err := os.Stat(path)
	if err != nil {
		rec := newFileRecord(path, 0)
		rec.Error = fmt.Sprintf("Cannot read file: %v", err)
		return rec
	}

	rec := newFileRecord(path, info.Size())

	file, err := os.Open(path)
	if err != nil {
		rec.Error = fmt.Sprintf("Cannot read file: %v", err)
		return rec
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxHeaderRead))
	if err != nil {
		rec.Error = fmt.Sprintf("Cannot read file: %v", err)
		return rec
	}

	analyzeInto(rec, data)
	return rec
}

// AnalyzeBytes classifies an in-memory prefix without touching the
// filesystem. size is the full file size the prefix was read from.
func AnalyzeBytes(path string, size int64, data []byte) *FileRecord {
	rec := newFileRecord(path, size)
	analyzeInto(rec, data)
	return rec
}

func analyzeInto(rec *FileRecord, data []byte) {
	if len(data) < 64 {
		rec.Error = "File too small to be a valid HKX"
		return
	}

	if bytes.Equal(data[:8], packfileMagic) {
		rec.Valid = true

		// The flag byte reads inverted relative to conventional endian
		// markers. The format is reverse-engineered, so the observed rule is
		// kept as-is: zero reports big, anything else little. The 64-byte
		// minimum above keeps the offset in bounds.
		if data[offEndianFlag] == 0 {
			rec.Endianness = EndianBig
		} else {
			rec.Endianness = EndianLittle
		}

		extractFields(rec, data)
		scanVersionString(rec, data)
		scanClasses(rec, data)
		return
	}

	classifyAlternative(rec, data)
}

// classifyAlternative handles containers that do not open with the packfile
// magic: tagfile variants that start with a textual SDK version, packfiles
// wrapped behind an outer header, and raw blobs recognizable only by class
// signatures.
func classifyAlternative(rec *FileRecord, data []byte) {
	if hasTaggedPrefix(data) {
		rec.Valid = true
		if end := bytes.IndexByte(data[:taggedPrefixWindow], 0); end > 0 {
			rec.ContentVersion = decodeASCII(data[:end])
			switch {
			case strings.Contains(rec.ContentVersion, "2018"):
				rec.VersionLabel = versionTable[0x0E000000]
			case strings.Contains(rec.ContentVersion, "2014"):
				rec.VersionLabel = versionTable[0x0B000000]
			case strings.Contains(rec.ContentVersion, "2016"):
				rec.VersionLabel = versionTable[0x0D000000]
			}
		}
		scanClasses(rec, data)
		return
	}

	// Packfile magic at a 4-byte-aligned offset inside an outer container.
	// Finding it is enough to call the file valid; field layout behind the
	// wrapper is not recovered.
	limit := offsetScanWindow
	if max := len(data) - len(packfileMagic); max < limit {
		limit = max
	}
	for off := 0; off < limit; off += offsetScanAlign {
		if bytes.Equal(data[off:off+len(packfileMagic)], packfileMagic) {
			rec.Valid = true
			break
		}
	}

	if !rec.Valid {
		scanClasses(rec, data)
		if len(rec.DetectedClasses) > 0 {
			rec.Valid = true
			rec.VersionLabel = "unknown (headerless, classes detected)"
		}
	}

	if !rec.Valid {
		rec.Error = "No valid HKX header or Havok class signatures found"
	}
}

func hasTaggedPrefix(data []byte) bool {
	return bytes.HasPrefix(data, []byte("hk_")) || bytes.HasPrefix(data, []byte("HK_"))
}

// extractFields probes the header for the user tag, SDK version, and section
// count. The layout is only partially known, so each field is an independent
// (offset, plausibility) probe; a miss leaves that field at its default and
// keeps everything already extracted.
func extractFields(rec *FileRecord, data []byte) {
	if v, ok := readU32(data, offUserTag); ok {
		rec.UserTag = v
	}

	candidate, ok := readU32(data, offVersion)
	if ok {
		if label, known := versionTable[candidate]; known {
			rec.VersionRaw = candidate
			rec.VersionLabel = label
		} else {
			for _, off := range altVersionOffsets {
				v, ok := readU32(data, off)
				if !ok {
					continue
				}
				if label, known := versionTable[v]; known {
					rec.VersionRaw = v
					rec.VersionLabel = label
					break
				}
			}
			if rec.VersionRaw == 0 {
				rec.VersionLabel = fmt.Sprintf("unknown (0x%08X)", candidate)
			}
		}
	}

	for _, off := range sectionOffsets {
		v, ok := readU32(data, off)
		if !ok {
			continue
		}
		if v > 0 && v < uint32(maxPlausibleSects) {
			rec.NumSections = int(v)
			break
		}
	}
}

// readU32 reads a little-endian uint32, reporting absence instead of
// failing. Header integers decode little-endian even when the record's own
// endianness flag says big; the two concerns are independent in this format.
func readU32(data []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(data) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data[off:]), true
}

// decodeASCII converts bytes to a string, substituting the replacement rune
// for anything outside 7-bit ASCII.
func decodeASCII(b []byte) string {
	out := make([]rune, 0, len(b))
	for _, c := range b {
		if c < 0x80 {
			out = append(out, rune(c))
		} else {
			out = append(out, '�')
		}
	}
	return string(out)
}
