package models

// FileEntry holds the metadata of a single scanned file. Entries are
// created during scanning and never mutated afterwards.
type FileEntry struct {
	// RelativePath is slash-separated and relative to the scanned root.
	RelativePath string
	Size         int64
	// Excerpt is a bounded prefix of the file content. Empty for binary
	// files and files above the excerpt size threshold.
	Excerpt string
}

// DirectoryInventory is the structured summary of one directory scan.
type DirectoryInventory struct {
	RootPath    string
	ProjectName string
	Files       []FileEntry
	TotalFiles  int
	// SkippedPaths lists subpaths that could not be read (permission
	// denied) and were excluded from the inventory.
	SkippedPaths []string
}
