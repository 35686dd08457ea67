package prompt_builder

import (
	"path"
	"strings"

	"github.com/readmegen/readmegen/dir_scanner/models"
)

// KeyFiles groups the paths of files that usually matter most for
// understanding a project.
type KeyFiles struct {
	Main          []string
	Config        []string
	Requirements  []string
	Tests         []string
	Documentation []string
	License       []string
}

var mainFileNames = map[string]struct{}{
	"main.py": {}, "app.py": {}, "main.go": {}, "index.js": {},
	"app.js": {}, "server.js": {}, "index.html": {},
}

var configFileNames = map[string]struct{}{
	"config.json": {}, "package.json": {}, ".env.example": {},
	"dockerfile": {}, "docker-compose.yml": {}, "makefile": {},
}

var requirementFileNames = map[string]struct{}{
	"requirements.txt": {}, "package.json": {}, "pipfile": {},
	"poetry.lock": {}, "go.mod": {}, "cargo.toml": {}, "gemfile": {},
}

var documentationFileNames = map[string]struct{}{
	"readme.md": {}, "contributing.md": {}, "changelog.md": {},
	"documentation.md": {},
}

// IdentifyKeyFiles categorizes inventory entries. A file may appear in
// more than one category (package.json is both config and requirements).
func IdentifyKeyFiles(entries []models.FileEntry) KeyFiles {
	var keyFiles KeyFiles

	for _, entry := range entries {
		filename := strings.ToLower(path.Base(entry.RelativePath))

		if _, ok := mainFileNames[filename]; ok {
			keyFiles.Main = append(keyFiles.Main, entry.RelativePath)
		}
		if _, ok := configFileNames[filename]; ok {
			keyFiles.Config = append(keyFiles.Config, entry.RelativePath)
		}
		if _, ok := requirementFileNames[filename]; ok {
			keyFiles.Requirements = append(keyFiles.Requirements, entry.RelativePath)
		}
		if strings.Contains(filename, "test") {
			keyFiles.Tests = append(keyFiles.Tests, entry.RelativePath)
		}
		if _, ok := documentationFileNames[filename]; ok {
			keyFiles.Documentation = append(keyFiles.Documentation, entry.RelativePath)
		}
		if strings.Contains(filename, "license") {
			keyFiles.License = append(keyFiles.License, entry.RelativePath)
		}
	}

	return keyFiles
}

// render writes the non-empty categories in a fixed order so the prompt
// stays deterministic.
func (kf KeyFiles) render() string {
	var sb strings.Builder

	categories := []struct {
		label string
		paths []string
	}{
		{"MAIN", kf.Main},
		{"CONFIG", kf.Config},
		{"REQUIREMENTS", kf.Requirements},
		{"TESTS", kf.Tests},
		{"DOCUMENTATION", kf.Documentation},
		{"LICENSE", kf.License},
	}

	for _, category := range categories {
		if len(category.paths) == 0 {
			continue
		}
		sb.WriteString(category.label)
		sb.WriteString(":\n")
		for _, p := range category.paths {
			sb.WriteString("- ")
			sb.WriteString(p)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
