package hkx

// MaxHeaderRead bounds how much of a file is loaded for analysis. Everything
// the classifier and scanners need sits inside the first 64 KiB.
const MaxHeaderRead = 65536

// Extension is the container file extension enumerated during directory walks.
const Extension = ".hkx"

// packfileMagic opens standard binary packfile containers. Little- and
// big-endian files share the same magic sequence.
var packfileMagic = []byte{0x57, 0xE0, 0xE0, 0x57, 0x10, 0xC0, 0xC0, 0x10}

// versionTable maps raw 4-byte version tags to the SDK releases known to ship
// them. Process-wide and read-only.
var versionTable = map[uint32]string{
	0x0B000000: "hk2014 (Skyrim SE)",
	0x0D000000: "hk2016",
	0x0E000000: "hk2018 (Elden Ring / DS3)",
	0x10000000: "hk2020",
}

// VersionLabel resolves a raw version tag, reporting whether it is known.
func VersionLabel(raw uint32) (string, bool) {
	label, ok := versionTable[raw]
	return label, ok
}

// classSignatures lists the class names scanned for, in fixed scan order.
// Detection order in a record always follows this list, not file order.
var classSignatures = []string{
	"hkaAnimationContainer",
	"hkaSplineCompressedAnimation",
	"hkaInterleavedUncompressedAnimation",
	"hkaAnimationBinding",
	"hkaSkeleton",
	"hkaSkeletonMapper",
	"hkRootLevelContainer",
}

// versionStringMarkers locate an embedded SDK version string anywhere in the
// sampled bytes. First marker found wins.
var versionStringMarkers = []string{"hk_", "Havok-", "hkVersionUtil"}

// Header field probe offsets. The layout shifts between SDK releases, so
// extraction tries an ordered list of candidates instead of assuming one
// struct; see extractFields.
const (
	offUserTag    = 0x08
	offVersion    = 0x0C
	offEndianFlag = 0x11
)

var (
	altVersionOffsets  = []int{0x10, 0x14, 0x28, 0x2C}
	sectionOffsets     = []int{0x14, 0x18}
	maxPlausibleSects  = 100
	offsetScanWindow   = 256
	offsetScanAlign    = 4
	taggedPrefixWindow = 64
)
