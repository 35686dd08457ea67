package dir_scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test cache manager setup and basic operations
func TestCacheManager_BasicOperations(t *testing.T) {
	tempDir := t.TempDir()

	cacheManager, err := NewCacheManager(tempDir)
	require.NoError(t, err)
	require.NotNil(t, cacheManager)

	testFile := filepath.Join(tempDir, "test.txt")
	testContent := []byte("test content")
	require.NoError(t, os.WriteFile(testFile, testContent, 0644))

	// Should not be cached initially
	content, found := cacheManager.GetFileContent(testFile)
	assert.False(t, found)
	assert.Nil(t, content)

	require.NoError(t, cacheManager.SetFileContent(testFile, testContent))

	cachedContent, found := cacheManager.GetFileContent(testFile)
	assert.True(t, found)
	assert.Equal(t, testContent, cachedContent)

	stats := cacheManager.Stats()
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
}

// Test cache invalidation when file is modified
func TestCacheManager_FileInvalidation(t *testing.T) {
	tempDir := t.TempDir()

	cacheManager, err := NewCacheManager(tempDir)
	require.NoError(t, err)

	testFile := filepath.Join(tempDir, "test.txt")
	originalContent := []byte("original content")
	require.NoError(t, os.WriteFile(testFile, originalContent, 0644))

	require.NoError(t, cacheManager.SetFileContent(testFile, originalContent))

	cachedContent, found := cacheManager.GetFileContent(testFile)
	assert.True(t, found)
	assert.Equal(t, originalContent, cachedContent)

	// Wait a moment to ensure different modification time
	time.Sleep(time.Millisecond * 10)

	modifiedContent := []byte("modified content, longer than before")
	require.NoError(t, os.WriteFile(testFile, modifiedContent, 0644))

	// Cache should be invalidated due to the file modification
	cachedContent, found = cacheManager.GetFileContent(testFile)
	assert.False(t, found)
	assert.Nil(t, cachedContent)
}

func TestCacheManager_MissingFile(t *testing.T) {
	tempDir := t.TempDir()

	cacheManager, err := NewCacheManager(tempDir)
	require.NoError(t, err)

	content, found := cacheManager.GetFileContent(filepath.Join(tempDir, "missing.txt"))
	assert.False(t, found)
	assert.Nil(t, content)
}

func TestCacheManager_Reset(t *testing.T) {
	tempDir := t.TempDir()

	cacheManager, err := NewCacheManager(tempDir)
	require.NoError(t, err)

	testFile := filepath.Join(tempDir, "test.txt")
	testContent := []byte("test content")
	require.NoError(t, os.WriteFile(testFile, testContent, 0644))
	require.NoError(t, cacheManager.SetFileContent(testFile, testContent))

	require.NoError(t, cacheManager.Reset())

	_, found := cacheManager.GetFileContent(testFile)
	assert.False(t, found)

	stats := cacheManager.Stats()
	assert.Equal(t, int64(1), stats.TotalRequests)
}

// Scanning twice with the cache enabled must produce identical inventories.
func TestScan_WithCacheEnabled(t *testing.T) {
	projectDir := t.TempDir()
	writeFile(t, projectDir, "main.go", "package main")
	writeFile(t, projectDir, "lib/util.go", "package lib")

	scanner := newTestScanner(&ScannerConfig{
		EnableCache: true,
		CacheDir:    t.TempDir(),
	})

	first, err := scanner.Scan(context.Background(), projectDir)
	require.NoError(t, err)
	second, err := scanner.Scan(context.Background(), projectDir)
	require.NoError(t, err)

	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, first.TotalFiles, second.TotalFiles)
}
