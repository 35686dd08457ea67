package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/readmegen/readmegen/constants/lipgloss"
	"github.com/readmegen/readmegen/dir_scanner"
)

// ResetCacheCmd: readmegen resetcache
var resetCacheCmd = &cobra.Command{
	Use:   "resetcache",
	Short: "Reset the scan cache.",
	Long: `The 'resetcache' subcommand removes the cached file contents that speed
up repeated scans of the same project. The cache rebuilds itself on the next
generate run.`,
	Run: func(cmd *cobra.Command, args []string) {
		handleResetCacheCommand()
	},
}

func init() {
	rootCmd.AddCommand(resetCacheCmd)
}

func handleResetCacheCommand() {
	cacheManager, err := dir_scanner.NewCacheManager("")
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error opening cache: %v", err)))
		os.Exit(1)
	}

	if err := cacheManager.Reset(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error resetting cache: %v", err)))
		os.Exit(1)
	}

	fmt.Println(lipgloss.Green.Render("✓ Scan cache has been successfully reset!"))
}
