package utils

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnoredDirs are directory names that are never descended into.
var DefaultIgnoredDirs = []string{
	".git",
	".svn",
	".hg",
	".idea",
	".vscode",
	".cache",
	"__pycache__",
	"node_modules",
	"venv",
	".venv",
	"bin",
	"obj",
	"dist",
	"out",
	"target",
	"vendor",
}

// DefaultIgnoredExtensions are file extensions excluded from the inventory
// entirely (compiled artifacts and media that carry no README signal).
var DefaultIgnoredExtensions = []string{
	".pyc",
	".class",
	".o",
	".so",
	".dll",
	".exe",
	".bak",
	".bkp",
	".log",
	".mp3",
	".wav",
	".flac",
	".ogg",
	".jpg",
	".jpeg",
	".png",
	".gif",
	".ico",
	".mkv",
	".mp4",
	".avi",
	".mov",
	".drawio",
	".excalidraw",
}

// IgnoreSet decides which directories and files a scan skips. The zero
// value ignores nothing; NewDefaultIgnoreSet applies the conventional
// exclusions plus the root's .gitignore when one exists.
type IgnoreSet struct {
	dirs       map[string]struct{}
	extensions map[string]struct{}
	gitignore  *ignore.GitIgnore
}

// NewDefaultIgnoreSet builds the ignore rules for a scan rooted at root.
func NewDefaultIgnoreSet(root string) *IgnoreSet {
	s := NewIgnoreSet(DefaultIgnoredDirs, DefaultIgnoredExtensions)
	s.gitignore = loadGitignore(root)
	return s
}

// NewIgnoreSet builds ignore rules from explicit directory names and
// file extensions, without .gitignore support.
func NewIgnoreSet(dirs []string, extensions []string) *IgnoreSet {
	s := &IgnoreSet{
		dirs:       make(map[string]struct{}, len(dirs)),
		extensions: make(map[string]struct{}, len(extensions)),
	}
	for _, d := range dirs {
		s.dirs[d] = struct{}{}
	}
	for _, e := range extensions {
		s.extensions[strings.ToLower(e)] = struct{}{}
	}
	return s
}

// SkipDir reports whether a directory with the given name and root-relative
// path should be skipped entirely.
func (s *IgnoreSet) SkipDir(name string, relPath string) bool {
	if s == nil {
		return false
	}
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	if _, ok := s.dirs[name]; ok {
		return true
	}
	if s.gitignore != nil && s.gitignore.MatchesPath(relPath) {
		return true
	}
	return false
}

// SkipFile reports whether a file should be excluded from the inventory.
func (s *IgnoreSet) SkipFile(name string, relPath string) bool {
	if s == nil {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	if _, ok := s.extensions[strings.ToLower(filepath.Ext(name))]; ok {
		return true
	}
	if s.gitignore != nil && s.gitignore.MatchesPath(relPath) {
		return true
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
