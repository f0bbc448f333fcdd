package fsutil

// FileStore provides an interface for file system operations
type FileStore interface {
	// WriteFile writes data to a file, replacing any existing content
	WriteFile(path string, data []byte) error

	// ReadFile reads a file and returns its contents
	ReadFile(path string) ([]byte, error)

	// MakeDirectory creates a new directory and all necessary parents
	MakeDirectory(path string) error
}
