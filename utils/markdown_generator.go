package utils

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderAndPrintMarkdown prints the generated README to the terminal with
// syntax highlighting, switching lexers inside fenced code blocks.
func RenderAndPrintMarkdown(content string, theme string) error {
	lines := strings.Split(content, "\n")

	language := "markdown"
	isCodeBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if !isCodeBlock {
				if fenceLang := strings.TrimPrefix(trimmed, "```"); fenceLang != "" {
					language = fenceLang
				}
			} else {
				language = "markdown"
			}
			isCodeBlock = !isCodeBlock
		}

		renderLang := "markdown"
		if isCodeBlock {
			renderLang = language
		}

		if err := quick.Highlight(os.Stdout, line+"\n", renderLang, "terminal256", theme); err != nil {
			return err
		}
	}

	return nil
}
