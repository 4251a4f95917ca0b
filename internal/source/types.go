package source

import "golang.org/x/text/encoding"

type (
	// FileID uniquely identifies a manifest buffer within a FileSet.
	FileID uint32
	// FileFlags encodes how the on-disk bytes were normalised on load.
	FileFlags uint8
)

const (
	// FileVirtual indicates the buffer was added from memory (test, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileTranscoded indicates Content was decoded from File.Charset.
	FileTranscoded
)

// File captures metadata and content for a single manifest buffer.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
	Charset encoding.Encoding
}

// LineCol represents a human-readable position in a file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
