// Package compat evaluates recovered container metadata against the Skyrim
// SE runtime profile (little-endian, hk2014, uncompressed animation data)
// and lists the conversion steps a file would need before it could load.
//
// The rules form a fixed table evaluated in order; they are independent, so
// one file can collect several issues. Supporting a different target runtime
// means writing another rule set, not parameterizing this one.
package compat

import (
	"strings"

	"hkxtool/internal/hkx"
)

// Code tags an issue with the concern it names.
type Code string

const (
	CodeInvalid     Code = "INVALID"
	CodeVersion     Code = "VERSION"
	CodeCompression Code = "COMPRESSION"
	CodeEndian      Code = "ENDIAN"
	CodeOK          Code = "OK"
)

// Issue is one portability concern raised for a file. Issues carry no
// identity; they are produced fresh on every evaluation.
type Issue struct {
	Code    Code
	Message string
}

func (i Issue) String() string {
	return string(i.Code) + ": " + i.Message
}

// Problem reports whether the issue names an actual concern rather than the
// all-clear entry.
func (i Issue) Problem() bool {
	return i.Code != CodeOK
}

// Check evaluates one record against the target profile. An invalid record
// short-circuits; otherwise every rule runs and a clean file gets a single
// informational entry.
func Check(rec *hkx.FileRecord) []Issue {
	if !rec.Valid {
		return []Issue{{Code: CodeInvalid, Message: "File is not a valid HKX file"}}
	}

	var issues []Issue

	if strings.Contains(rec.VersionLabel, "2018") || strings.Contains(rec.VersionLabel, "Elden Ring") {
		issues = append(issues, Issue{
			Code: CodeVersion,
			Message: "Elden Ring uses Havok 2018, Skyrim SE uses Havok 2014. " +
				"Conversion required via hkxcmd or HavokBehaviorPostProcess.",
		})
	}

	if rec.Compression == hkx.CompressionSpline {
		issues = append(issues, Issue{
			Code: CodeCompression,
			Message: "Spline-compressed animation data. " +
				"Soulstruct or custom decompressor needed before retargeting.",
		})
	}

	if rec.Endianness == hkx.EndianBig {
		issues = append(issues, Issue{
			Code: CodeEndian,
			Message: "Big-endian format detected. Skyrim SE uses little-endian. " +
				"Byte-swap conversion required.",
		})
	}

	if len(issues) == 0 {
		issues = append(issues, Issue{
			Code:    CodeOK,
			Message: "No obvious compatibility issues detected (further testing needed)",
		})
	}
	return issues
}

// Problems filters Check output down to actual concerns.
func Problems(rec *hkx.FileRecord) []Issue {
	var out []Issue
	for _, issue := range Check(rec) {
		if issue.Problem() {
			out = append(out, issue)
		}
	}
	return out
}
