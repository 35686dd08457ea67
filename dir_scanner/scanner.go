package dir_scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/readmegen/readmegen/dir_scanner/contracts"
	"github.com/readmegen/readmegen/dir_scanner/models"
	"github.com/readmegen/readmegen/utils"
)

// ErrPathNotFound is returned when the scan root does not exist or is not
// a directory.
var ErrPathNotFound = errors.New("path does not exist or is not a directory")

const (
	// DefaultExcerptLimit bounds how many bytes of a text file end up in
	// the inventory excerpt.
	DefaultExcerptLimit = 1000

	// DefaultMaxExcerptFileSize: files above this size are listed but
	// never excerpted.
	DefaultMaxExcerptFileSize = 100 * 1024

	// binarySampleSize is how much of a file the default predicate
	// inspects for a null byte.
	binarySampleSize = 512
)

// ExcerptPredicate reports whether a file is worth excerpting. sample
// holds a prefix of the file content (up to binarySampleSize bytes).
type ExcerptPredicate func(relativePath string, sample []byte) bool

// ScannerConfig configures a DirectoryScanner. The zero value of each
// field selects the documented default.
type ScannerConfig struct {
	// Ignore overrides the exclusion rules. When nil, the default rules
	// (plus the root's .gitignore) are built per scan.
	Ignore *utils.IgnoreSet

	// ShouldExcerpt overrides binary-file detection for excerpting.
	ShouldExcerpt ExcerptPredicate

	ExcerptLimit       int
	MaxExcerptFileSize int64

	EnableCache bool
	CacheDir    string
}

// DirectoryScanner walks a directory tree and produces a DirectoryInventory.
type DirectoryScanner struct {
	config       ScannerConfig
	cacheManager *CacheManager
}

// NewDirectoryScanner initializes a new DirectoryScanner.
func NewDirectoryScanner(config *ScannerConfig) contracts.IDirectoryScanner {
	if config == nil {
		config = &ScannerConfig{}
	}
	if config.ExcerptLimit <= 0 {
		config.ExcerptLimit = DefaultExcerptLimit
	}
	if config.MaxExcerptFileSize <= 0 {
		config.MaxExcerptFileSize = DefaultMaxExcerptFileSize
	}
	if config.ShouldExcerpt == nil {
		config.ShouldExcerpt = DefaultExcerptPredicate
	}

	scanner := &DirectoryScanner{config: *config}

	if config.EnableCache {
		cacheManager, err := NewCacheManager(config.CacheDir)
		if err != nil {
			// Fall back to uncached reads if cache initialization fails
			log.Warn().Err(err).Msg("failed to initialize scan cache, continuing without it")
		} else {
			scanner.cacheManager = cacheManager
		}
	}

	return scanner
}

// Scan walks rootPath and returns the inventory of non-excluded files.
// Subpaths that cannot be read are skipped with a warning; the scan only
// fails as a whole when the root itself is missing or unreadable.
func (scanner *DirectoryScanner) Scan(ctx context.Context, rootPath string) (*models.DirectoryInventory, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", rootPath, ErrPathNotFound)
		}
		// Unreadable roots keep their own error class, they are not
		// missing paths.
		return nil, fmt.Errorf("failed to stat %q: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", rootPath, ErrPathNotFound)
	}

	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	ignoreSet := scanner.config.Ignore
	if ignoreSet == nil {
		ignoreSet = utils.NewDefaultIgnoreSet(rootPath)
	}

	inventory := &models.DirectoryInventory{
		RootPath:    rootPath,
		ProjectName: filepath.Base(absRoot),
	}

	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		relativePath, relErr := filepath.Rel(rootPath, path)
		if relErr != nil {
			relativePath = path
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")

		if walkErr != nil {
			if path == rootPath {
				return walkErr
			}
			// Permission failures on subpaths are absorbed so a partially
			// readable tree still produces an inventory.
			log.Warn().Str("path", relativePath).Err(walkErr).Msg("skipping unreadable path")
			inventory.SkippedPaths = append(inventory.SkippedPaths, relativePath)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == rootPath {
				return nil
			}
			if ignoreSet.SkipDir(d.Name(), relativePath) {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks are never followed, so cycles cannot recurse.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if ignoreSet.SkipFile(d.Name(), relativePath) {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			log.Warn().Str("path", relativePath).Err(err).Msg("skipping unreadable file")
			inventory.SkippedPaths = append(inventory.SkippedPaths, relativePath)
			return nil
		}

		entry := models.FileEntry{
			RelativePath: relativePath,
			Size:         fileInfo.Size(),
		}

		if fileInfo.Size() <= scanner.config.MaxExcerptFileSize {
			entry.Excerpt = scanner.readExcerpt(path, relativePath)
		}

		inventory.Files = append(inventory.Files, entry)
		return nil
	})

	if err != nil {
		return nil, err
	}

	// WalkDir visits directories before same-prefix sibling files, so the
	// collected order is not strictly lexicographic across levels.
	sort.Slice(inventory.Files, func(i, j int) bool {
		return inventory.Files[i].RelativePath < inventory.Files[j].RelativePath
	})

	inventory.TotalFiles = len(inventory.Files)
	return inventory, nil
}

// readExcerpt reads a bounded prefix of a text file. Binary files and
// files that cannot be read yield an empty excerpt.
func (scanner *DirectoryScanner) readExcerpt(path string, relativePath string) string {
	content, err := scanner.readFile(path)
	if err != nil {
		log.Warn().Str("path", relativePath).Err(err).Msg("skipping excerpt for unreadable file")
		return ""
	}

	sample := content
	if len(sample) > binarySampleSize {
		sample = sample[:binarySampleSize]
	}
	if !scanner.config.ShouldExcerpt(relativePath, sample) {
		return ""
	}

	return truncateUTF8(string(content), scanner.config.ExcerptLimit)
}

func (scanner *DirectoryScanner) readFile(path string) ([]byte, error) {
	if scanner.cacheManager != nil {
		if cached, found := scanner.cacheManager.GetFileContent(path); found {
			return cached, nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if scanner.cacheManager != nil {
		if err := scanner.cacheManager.SetFileContent(path, content); err != nil {
			log.Debug().Str("path", path).Err(err).Msg("failed to cache file content")
		}
	}

	return content, nil
}

// binaryExtensions are skipped by the default predicate without probing.
var binaryExtensions = map[string]struct{}{
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {}, ".7z": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".otf": {}, ".eot": {},
	".bin": {}, ".dat": {}, ".db": {}, ".sqlite": {},
}

// DefaultExcerptPredicate treats a file as text when its extension is not
// a known binary format and its leading bytes contain no null byte.
func DefaultExcerptPredicate(relativePath string, sample []byte) bool {
	ext := strings.ToLower(filepath.Ext(relativePath))
	if _, ok := binaryExtensions[ext]; ok {
		return false
	}
	return !bytes.ContainsRune(sample, 0)
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
