package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/readmegen/readmegen/config"
	"github.com/readmegen/readmegen/constants/lipgloss"
	"github.com/readmegen/readmegen/dir_scanner"
	scanner_contracts "github.com/readmegen/readmegen/dir_scanner/contracts"
	"github.com/readmegen/readmegen/prompt_builder"
	"github.com/readmegen/readmegen/providers"
	provider_contracts "github.com/readmegen/readmegen/providers/contracts"
	"github.com/readmegen/readmegen/token_management"
	contracts2 "github.com/readmegen/readmegen/token_management/contracts"
)

// RootDependencies holds the wired pipeline shared by the subcommands.
type RootDependencies struct {
	Config          *config.Config
	Cwd             string
	Scanner         scanner_contracts.IDirectoryScanner
	PromptBuilder   *prompt_builder.PromptBuilder
	Provider        provider_contracts.ICompletionProvider
	TokenManagement contracts2.ITokenManagement
}

var rootCmd = &cobra.Command{
	Use:   "readmegen",
	Short: "readmegen generates a project README.md with AI.",
	Long: `readmegen scans a project directory, summarizes its file structure and
contents, and asks an AI completion provider to write a professional
README.md for it.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Println("readmegen version " + config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	initLogger()
	config.InitFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

// handleRootCommand loads the configuration and wires the pipeline.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		os.Exit(1)
	}

	cfg := config.LoadConfigs(cmd.Root(), cwd)

	tokenManagement := token_management.NewTokenManager()

	provider, err := providers.NewCompletionProvider(cfg.AIProviderConfig, tokenManagement)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	scanner := dir_scanner.NewDirectoryScanner(&dir_scanner.ScannerConfig{
		EnableCache: cfg.EnableCache,
	})

	return &RootDependencies{
		Config:          cfg,
		Cwd:             cwd,
		Scanner:         scanner,
		PromptBuilder:   prompt_builder.NewPromptBuilder(cfg.MaxPromptLength),
		Provider:        provider,
		TokenManagement: tokenManagement,
	}
}

// initLogger sets up the global zerolog logger. Diagnostics go to stderr
// so stdout stays clean for the generated README.
func initLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
	zerolog.TimeFieldFormat = time.RFC3339

	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
