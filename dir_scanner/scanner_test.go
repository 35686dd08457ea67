package dir_scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readmegen/readmegen/utils"
)

func writeFile(t *testing.T, root string, relativePath string, content string) {
	t.Helper()
	path := filepath.Join(root, relativePath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestScanner(config *ScannerConfig) *DirectoryScanner {
	return NewDirectoryScanner(config).(*DirectoryScanner)
}

func TestScan_LexicographicOrderAndSizes(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "main.py", strings.Repeat("x", 50))
	writeFile(t, tempDir, "README.old", strings.Repeat("y", 10))

	scanner := newTestScanner(nil)
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	require.Len(t, inventory.Files, 2)
	assert.Equal(t, 2, inventory.TotalFiles)
	assert.Equal(t, "README.old", inventory.Files[0].RelativePath)
	assert.Equal(t, int64(10), inventory.Files[0].Size)
	assert.Equal(t, "main.py", inventory.Files[1].RelativePath)
	assert.Equal(t, int64(50), inventory.Files[1].Size)
	assert.Equal(t, filepath.Base(tempDir), inventory.ProjectName)
}

func TestScan_PathNotFound(t *testing.T) {
	scanner := newTestScanner(nil)

	_, err := scanner.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestScan_FileInsteadOfDirectory(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "file.txt", "content")

	scanner := newTestScanner(nil)
	_, err := scanner.Scan(context.Background(), filepath.Join(tempDir, "file.txt"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestScan_PermissionDeniedSubdirSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	tempDir := t.TempDir()
	writeFile(t, tempDir, "readable.txt", "ok")
	writeFile(t, tempDir, "locked/secret.txt", "hidden")

	locked := filepath.Join(tempDir, "locked")
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	scanner := newTestScanner(nil)
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	require.Len(t, inventory.Files, 1)
	assert.Equal(t, "readable.txt", inventory.Files[0].RelativePath)
	assert.Equal(t, 1, inventory.TotalFiles)
	assert.Contains(t, inventory.SkippedPaths, "locked")
}

func TestScan_RootPermissionErrorIsNotPathNotFound(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	parent := t.TempDir()
	root := filepath.Join(parent, "project")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.Chmod(parent, 0000))
	t.Cleanup(func() { _ = os.Chmod(parent, 0755) })

	scanner := newTestScanner(nil)
	_, err := scanner.Scan(context.Background(), root)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPathNotFound)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestScan_SkipsIgnoredDirsAndHiddenFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "main.go", "package main")
	writeFile(t, tempDir, "node_modules/pkg/index.js", "module.exports = {}")
	writeFile(t, tempDir, "__pycache__/mod.pyc", "binary")
	writeFile(t, tempDir, ".git/HEAD", "ref: refs/heads/main")
	writeFile(t, tempDir, ".hidden", "secret")
	writeFile(t, tempDir, "lib/util.go", "package lib")

	scanner := newTestScanner(nil)
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	paths := make([]string, 0, len(inventory.Files))
	for _, entry := range inventory.Files {
		paths = append(paths, entry.RelativePath)
	}
	assert.Equal(t, []string{"lib/util.go", "main.go"}, paths)
	assert.Equal(t, len(paths), inventory.TotalFiles)
}

func TestScan_GitignorePatternsRespected(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, ".gitignore", "generated/\n*.tmp\n")
	writeFile(t, tempDir, "main.go", "package main")
	writeFile(t, tempDir, "generated/out.go", "package generated")
	writeFile(t, tempDir, "scratch.tmp", "wip")

	scanner := newTestScanner(nil)
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	require.Len(t, inventory.Files, 1)
	assert.Equal(t, "main.go", inventory.Files[0].RelativePath)
}

func TestScan_SymlinkCycleTerminates(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "sub/file.txt", "content")

	// sub/loop -> tempDir makes the tree cyclic when links are followed
	err := os.Symlink(tempDir, filepath.Join(tempDir, "sub", "loop"))
	if err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	scanner := newTestScanner(nil)
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	require.Len(t, inventory.Files, 1)
	assert.Equal(t, "sub/file.txt", inventory.Files[0].RelativePath)
}

func TestScan_BinaryFilesNotExcerpted(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "data.blob", "ab\x00cd")
	writeFile(t, tempDir, "readme.txt", "plain text")

	scanner := newTestScanner(nil)
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	require.Len(t, inventory.Files, 2)
	assert.Equal(t, "data.blob", inventory.Files[0].RelativePath)
	assert.Empty(t, inventory.Files[0].Excerpt)
	assert.Equal(t, "plain text", inventory.Files[1].Excerpt)
}

func TestScan_ExcerptTruncatedToLimit(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "big.txt", strings.Repeat("a", 5000))

	scanner := newTestScanner(&ScannerConfig{ExcerptLimit: 100})
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	require.Len(t, inventory.Files, 1)
	assert.Len(t, inventory.Files[0].Excerpt, 100)
	assert.Equal(t, int64(5000), inventory.Files[0].Size)
}

func TestScan_LargeFilesListedWithoutExcerpt(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "huge.txt", strings.Repeat("a", 200))

	scanner := newTestScanner(&ScannerConfig{MaxExcerptFileSize: 100})
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	require.Len(t, inventory.Files, 1)
	assert.Empty(t, inventory.Files[0].Excerpt)
	assert.Equal(t, int64(200), inventory.Files[0].Size)
}

func TestScan_CustomExcerptPredicate(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "keep.txt", "keep me")
	writeFile(t, tempDir, "drop.txt", "drop me")

	scanner := newTestScanner(&ScannerConfig{
		ShouldExcerpt: func(relativePath string, sample []byte) bool {
			return relativePath == "keep.txt"
		},
	})
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	require.Len(t, inventory.Files, 2)
	assert.Empty(t, inventory.Files[0].Excerpt) // drop.txt
	assert.Equal(t, "keep me", inventory.Files[1].Excerpt)
}

func TestScan_UniqueRelativePaths(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "a/x.txt", "1")
	writeFile(t, tempDir, "b/x.txt", "2")
	writeFile(t, tempDir, "x.txt", "3")

	scanner := newTestScanner(nil)
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for _, entry := range inventory.Files {
		_, duplicate := seen[entry.RelativePath]
		assert.False(t, duplicate, "duplicate path %s", entry.RelativePath)
		seen[entry.RelativePath] = struct{}{}
	}
	assert.Equal(t, inventory.TotalFiles, len(inventory.Files))
}

func TestScan_CanceledContext(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "main.go", "package main")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := newTestScanner(nil)
	_, err := scanner.Scan(ctx, tempDir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_CustomIgnoreSet(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "main.go", "package main")
	writeFile(t, tempDir, "skipme/file.txt", "content")

	scanner := newTestScanner(&ScannerConfig{
		Ignore: utils.NewIgnoreSet([]string{"skipme"}, nil),
	})
	inventory, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	require.Len(t, inventory.Files, 1)
	assert.Equal(t, "main.go", inventory.Files[0].RelativePath)
}

func TestDefaultExcerptPredicate(t *testing.T) {
	assert.True(t, DefaultExcerptPredicate("main.go", []byte("package main")))
	assert.False(t, DefaultExcerptPredicate("data.bin", []byte("anything")))
	assert.False(t, DefaultExcerptPredicate("mystery", []byte{0x00, 0x01}))
	assert.True(t, DefaultExcerptPredicate("notes.txt", []byte("")))
}

func TestTruncateUTF8_KeepsRunesIntact(t *testing.T) {
	s := "héllo wörld"
	truncated := truncateUTF8(s, 3)
	assert.LessOrEqual(t, len(truncated), 3)
	assert.True(t, strings.HasPrefix(s, truncated))

	assert.Equal(t, "abc", truncateUTF8("abc", 10))
}
