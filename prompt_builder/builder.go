package prompt_builder

import (
	"fmt"
	"strings"

	"github.com/readmegen/readmegen/dir_scanner/models"
	"github.com/readmegen/readmegen/embed_data"
)

// DefaultMaxPromptLength bounds the assembled prompt so it stays inside
// the context window of the default model.
const DefaultMaxPromptLength = 24000

// noteReserve keeps room for the omitted-entries note regardless of how
// many entries end up dropped.
const noteReserve = 64

// PromptBuilder converts a DirectoryInventory into the single prompt sent
// to the completion API. Building is pure: the same inventory always
// yields the same prompt.
type PromptBuilder struct {
	maxPromptLength int
}

// NewPromptBuilder initializes a PromptBuilder. maxPromptLength <= 0
// selects DefaultMaxPromptLength.
func NewPromptBuilder(maxPromptLength int) *PromptBuilder {
	if maxPromptLength <= 0 {
		maxPromptLength = DefaultMaxPromptLength
	}
	return &PromptBuilder{maxPromptLength: maxPromptLength}
}

// Build assembles the README-generation prompt from the inventory.
// The result never exceeds the configured maximum length; when file
// entries are dropped to fit, the prompt states how many were omitted.
func (builder *PromptBuilder) Build(inventory *models.DirectoryInventory) string {
	header := fmt.Sprintf("PROJECT INFORMATION:\n- Project Name: %s\n- Total Files: %d\n", inventory.ProjectName, inventory.TotalFiles)
	preamble := "\n" + strings.TrimSpace(string(embed_data.ReadmeGeneratorPrompt)) + "\n"

	budget := builder.maxPromptLength - len(header) - len(preamble) - noteReserve

	var sections strings.Builder

	tree := fmt.Sprintf("\nDIRECTORY STRUCTURE:\n```\n%s```\n", RenderTree(inventory.Files))
	if len(tree) <= budget {
		sections.WriteString(tree)
		budget -= len(tree)
	}

	if rendered := IdentifyKeyFiles(inventory.Files).render(); rendered != "" {
		keyFiles := "\nKEY FILES:\n" + rendered
		if len(keyFiles) <= budget {
			sections.WriteString(keyFiles)
			budget -= len(keyFiles)
		}
	}

	listingHeader := "\nFILE CONTENTS:\n"
	omitted := len(inventory.Files)
	if len(listingHeader) <= budget {
		budget -= len(listingHeader)
		var listing strings.Builder
		for _, entry := range inventory.Files {
			block := renderEntry(entry)
			if len(block) > budget {
				break
			}
			listing.WriteString(block)
			budget -= len(block)
			omitted--
		}
		if listing.Len() > 0 || omitted == 0 {
			sections.WriteString(listingHeader)
			sections.WriteString(listing.String())
		}
	}

	var note string
	if omitted > 0 {
		note = fmt.Sprintf("\n[%d more files omitted from listing]\n", omitted)
	}

	prompt := header + sections.String() + note + preamble
	if len(prompt) > builder.maxPromptLength {
		prompt = prompt[:builder.maxPromptLength]
	}
	return prompt
}

func renderEntry(entry models.FileEntry) string {
	if entry.Excerpt == "" {
		return fmt.Sprintf("--- %s (%d bytes) ---\n", entry.RelativePath, entry.Size)
	}
	return fmt.Sprintf("--- %s (%d bytes) ---\n%s\n", entry.RelativePath, entry.Size, entry.Excerpt)
}
