package source

type (
	// FileID identifies a translation unit inside a FileSet.
	FileID uint32
	// FileFlags records how the content was normalized on the way in.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory (tests, batch inputs).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File is one loaded translation unit.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based human position.
type LineCol struct {
	Line uint32
	Col  uint32
}
