package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

var packfileMagic = []byte{0x57, 0xE0, 0xE0, 0x57, 0x10, 0xC0, 0xC0, 0x10}

// ContainerOption mutates a synthetic container buffer before it is written.
type ContainerOption func([]byte)

// WithVersionWord writes a version word at offset 0x0C.
func WithVersionWord(version uint32) ContainerOption {
	return func(buf []byte) {
		binary.LittleEndian.PutUint32(buf[0x0C:], version)
	}
}

// WithBigEndianFlag clears the endian flag byte at offset 0x11, which the
// analyzer reports as big-endian.
func WithBigEndianFlag() ContainerOption {
	return func(buf []byte) {
		buf[0x11] = 0
	}
}

// WithClassNames embeds class name strings in the body past the header area.
func WithClassNames(names ...string) ContainerOption {
	return func(buf []byte) {
		offset := 0x40
		for _, name := range names {
			copy(buf[offset:], name)
			offset += len(name) + 1
		}
	}
}

// WriteContainer writes a synthetic binary container with a valid magic, a
// little-endian flag, and an hk2018 version word, then applies the options.
// The file is 4 KiB of zero padding around the header.
func WriteContainer(t testing.TB, dir, name string, opts ...ContainerOption) string {
	t.Helper()

	buf := make([]byte, 4096)
	copy(buf, packfileMagic)
	buf[0x11] = 1
	binary.LittleEndian.PutUint32(buf[0x0C:], 0x0E000000)

	for _, opt := range opts {
		opt(buf)
	}

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
