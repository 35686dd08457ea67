package prompt_builder

import (
	"sort"
	"strings"

	"github.com/readmegen/readmegen/dir_scanner/models"
)

type treeNode struct {
	dirs  map[string]*treeNode
	files []string
}

func newTreeNode() *treeNode {
	return &treeNode{dirs: make(map[string]*treeNode)}
}

// RenderTree renders the inventory as an indented directory tree, one
// entry per line, directories before files, both sorted.
func RenderTree(entries []models.FileEntry) string {
	root := newTreeNode()

	for _, entry := range entries {
		parts := strings.Split(entry.RelativePath, "/")
		current := root
		for i, part := range parts {
			if i == len(parts)-1 {
				current.files = append(current.files, part)
				continue
			}
			child, ok := current.dirs[part]
			if !ok {
				child = newTreeNode()
				current.dirs[part] = child
			}
			current = child
		}
	}

	var sb strings.Builder
	renderNode(&sb, root, "")
	return sb.String()
}

func renderNode(sb *strings.Builder, node *treeNode, prefix string) {
	dirNames := make([]string, 0, len(node.dirs))
	for name := range node.dirs {
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)

	for _, name := range dirNames {
		sb.WriteString(prefix)
		sb.WriteString("📂 ")
		sb.WriteString(name)
		sb.WriteString("/\n")
		renderNode(sb, node.dirs[name], prefix+"  ")
	}

	files := append([]string(nil), node.files...)
	sort.Strings(files)
	for _, name := range files {
		sb.WriteString(prefix)
		sb.WriteString("📄 ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
}
