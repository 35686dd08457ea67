package dir_scanner

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// CacheEntry is one cached file read with the metadata used for
// invalidation.
type CacheEntry struct {
	Content     []byte
	ContentHash uint64
	FileSize    int64
	ModTime     time.Time
	CachedAt    time.Time
}

// CacheStats tracks hit/miss counters for one CacheManager.
type CacheStats struct {
	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
}

// CacheManager persists file contents between scans so repeated runs over
// the same tree avoid rereading unchanged files. Entries are invalidated
// when the file's size or modification time changes.
type CacheManager struct {
	cacheDir string
	mutex    sync.RWMutex
	stats    CacheStats
}

// NewCacheManager creates a cache rooted at cacheDir. An empty cacheDir
// defaults to a "readmegen" directory under the user cache directory.
func NewCacheManager(cacheDir string) (*CacheManager, error) {
	if cacheDir == "" {
		userCache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user cache directory: %w", err)
		}
		cacheDir = filepath.Join(userCache, "readmegen")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &CacheManager{cacheDir: cacheDir}, nil
}

// GetFileContent returns the cached content of path if the cache entry is
// still valid for the file currently on disk.
func (cm *CacheManager) GetFileContent(path string) ([]byte, bool) {
	cm.mutex.Lock()
	cm.stats.TotalRequests++
	cm.mutex.Unlock()

	fileInfo, err := os.Stat(path)
	if err != nil {
		cm.recordMiss()
		return nil, false
	}

	entry, err := cm.readEntry(path)
	if err != nil {
		cm.recordMiss()
		return nil, false
	}

	if entry.FileSize != fileInfo.Size() || !entry.ModTime.Equal(fileInfo.ModTime()) {
		cm.recordMiss()
		return nil, false
	}

	if xxh3.Hash(entry.Content) != entry.ContentHash {
		// Corrupted cache file, drop it.
		_ = os.Remove(cm.entryPath(path))
		cm.recordMiss()
		return nil, false
	}

	cm.mutex.Lock()
	cm.stats.CacheHits++
	cm.mutex.Unlock()
	return entry.Content, true
}

// SetFileContent caches the content of path together with its current
// size and modification time.
func (cm *CacheManager) SetFileContent(path string, content []byte) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file for caching: %w", err)
	}

	entry := CacheEntry{
		Content:     content,
		ContentHash: xxh3.Hash(content),
		FileSize:    fileInfo.Size(),
		ModTime:     fileInfo.ModTime(),
		CachedAt:    time.Now(),
	}

	return cm.writeEntry(path, &entry)
}

// Stats returns a snapshot of the cache counters.
func (cm *CacheManager) Stats() CacheStats {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return cm.stats
}

// Reset removes every cached entry and clears the counters.
func (cm *CacheManager) Reset() error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	entries, err := os.ReadDir(cm.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(cm.cacheDir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove cache entry %s: %w", entry.Name(), err)
		}
	}

	cm.stats = CacheStats{}
	return nil
}

// entryPath maps a source file path to its cache file, keyed by an xxh3
// hash of the absolute path.
func (cm *CacheManager) entryPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return filepath.Join(cm.cacheDir, fmt.Sprintf("%016x.cache", xxh3.HashString(abs)))
}

func (cm *CacheManager) readEntry(path string) (*CacheEntry, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	data, err := os.ReadFile(cm.entryPath(path))
	if err != nil {
		return nil, err
	}

	var entry CacheEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &entry, nil
}

func (cm *CacheManager) writeEntry(path string, entry *CacheEntry) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	return os.WriteFile(cm.entryPath(path), buf.Bytes(), 0644)
}

func (cm *CacheManager) recordMiss() {
	cm.mutex.Lock()
	cm.stats.CacheMisses++
	cm.mutex.Unlock()
}
