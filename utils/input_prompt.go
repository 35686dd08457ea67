package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/readmegen/readmegen/constants/lipgloss"
)

// ConfirmPrompt asks the user to confirm overwriting the given path.
func ConfirmPrompt(path string, reader *bufio.Reader) (bool, error) {
	fmt.Print(lipgloss.BlueSky.Render(fmt.Sprintf("%s already exists. Overwrite? (y/n): ", path)))

	answer, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("error reading input: %w", err)
	}

	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}
