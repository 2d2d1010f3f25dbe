package hkx

// Endianness is the byte order reported for a container file.
type Endianness string

const (
	EndianUnknown Endianness = "unknown"
	EndianLittle  Endianness = "little"
	EndianBig     Endianness = "big"
)

// Compression classifies the animation data layout detected in a container.
type Compression string

const (
	CompressionUnknown     Compression = "unknown"
	CompressionSpline      Compression = "spline"
	CompressionInterleaved Compression = "interleaved"
)

// FileRecord holds everything recovered from one container file. It is
// populated during a single analysis pass and treated as immutable afterwards.
//
// When Valid is false every header-derived field keeps its zero/unknown
// default and Error explains why. DetectedClasses may still be non-empty for
// invalid records because signature scanning runs on fallback paths too.
type FileRecord struct {
	Path string
	Size int64

	Valid bool
	Error string

	Endianness     Endianness
	VersionRaw     uint32
	VersionLabel   string
	ContentVersion string
	UserTag        uint32
	NumSections    int

	DetectedClasses []string
	HasAnimation    bool
	HasSkeleton     bool
	HasBinding      bool
	Compression     Compression
}

func newFileRecord(path string, size int64) *FileRecord {
	return &FileRecord{
		Path:         path,
		Size:         size,
		Endianness:   EndianUnknown,
		VersionLabel: "unknown",
		Compression:  CompressionUnknown,
	}
}
