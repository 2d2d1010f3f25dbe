// Package hkx inspects Havok HKX container files and recovers structural
// metadata without a complete format specification.
//
// The format is only partially documented, so everything here is heuristic
// recovery: a bounded prefix of each file is read into memory, the header
// variant is classified, version and section fields are probed at trial
// offsets, and known class-name byte signatures are located by raw substring
// search. Malformed or out-of-range fields are skipped rather than surfaced
// as errors; a partially populated valid record beats a hard failure.
//
// Every analysis produces exactly one FileRecord, valid or not. Records are
// fully populated in a single pass and never mutated afterwards, which makes
// batch analysis trivially parallel.
package hkx
