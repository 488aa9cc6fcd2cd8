package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a file was loaded.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileRecodedLatin1 marks content that was not valid UTF-8 and was
	// reinterpreted as ISO 8859-1.
	FileRecodedLatin1
)

// File captures metadata and content for a single source file. Content is
// normalized on load (BOM stripped, CRLF folded to LF) so every consumer
// sees the same bytes the hash was computed over.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags
	lines   int
}

// Text returns the normalized content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// Lines returns the number of lines in the file. An empty file has zero
// lines; a trailing newline does not open a new one.
func (f *File) Lines() int {
	return f.lines
}
