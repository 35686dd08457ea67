package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/readmegen/readmegen/constants/lipgloss"
	"github.com/readmegen/readmegen/dir_scanner"
	"github.com/readmegen/readmegen/providers/models"
	"github.com/readmegen/readmegen/readme_generator"
	"github.com/readmegen/readmegen/utils"
)

// GenerateCmd: readmegen generate
var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate a README.md for a project directory.",
	Long: `The 'generate' subcommand scans the given project directory (the current
directory by default), builds a summary of its files, and asks the configured
AI provider to write a README.md. The result is rendered to the terminal and
written to the project directory unless --stdout is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		handleGenerateCommand(rootDependencies, cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("project_name", "", "Override the project name used in the prompt (defaults to the directory name).")
	generateCmd.Flags().StringP("output", "o", "", "Path of the README file to write (defaults to README.md inside the scanned directory).")
	generateCmd.Flags().Bool("stdout", false, "Print the generated README to stdout only, without writing a file.")
}

func handleGenerateCommand(rootDependencies *RootDependencies, cmd *cobra.Command, args []string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootPath := "."
	if len(args) > 0 {
		rootPath = args[0]
	}

	projectName, _ := cmd.Flags().GetString("project_name")

	generator := readme_generator.NewReadmeGenerator(
		rootDependencies.Scanner,
		rootDependencies.PromptBuilder,
		rootDependencies.Provider,
		readme_generator.GeneratorConfig{
			Model:       rootDependencies.Config.AIProviderConfig.Model,
			Temperature: &rootDependencies.Config.AIProviderConfig.Temperature,
			MaxTokens:   rootDependencies.Config.AIProviderConfig.MaxTokens,
			ProjectName: projectName,
		},
	)

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)
	spinnerGenerate, _ := spinner.Start("Generating README with AI...")

	readme, err := generator.Generate(ctx, rootPath)

	spinnerGenerate.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(describeFailure(err)))
		os.Exit(1)
	}

	toStdout, _ := cmd.Flags().GetBool("stdout")
	if toStdout {
		fmt.Println(readme)
		rootDependencies.TokenManagement.DisplayTokens(rootDependencies.Config.AIProviderConfig.Model)
		return
	}

	if err := utils.RenderAndPrintMarkdown(readme, rootDependencies.Config.Theme); err != nil {
		// Fall back to plain output when the highlighter fails
		fmt.Println(readme)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = filepath.Join(rootPath, "README.md")
	}

	if _, err := os.Stat(outputPath); err == nil {
		accepted, err := utils.ConfirmPrompt(outputPath, bufio.NewReader(os.Stdin))
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting user prompt: %v", err)))
			os.Exit(1)
		}
		if !accepted {
			fmt.Println(lipgloss.Yellow.Render("README not written."))
			rootDependencies.TokenManagement.DisplayTokens(rootDependencies.Config.AIProviderConfig.Model)
			return
		}
	}

	if err := os.WriteFile(outputPath, []byte(readme), 0644); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error writing README: %v", err)))
		os.Exit(1)
	}

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ README written to %s", outputPath)))
	rootDependencies.TokenManagement.DisplayTokens(rootDependencies.Config.AIProviderConfig.Model)
}

// describeFailure maps classified pipeline errors to actionable messages.
func describeFailure(err error) string {
	switch {
	case errors.Is(err, dir_scanner.ErrPathNotFound):
		return fmt.Sprintf("🚫 %v", err)
	case models.IsKind(err, models.AuthenticationError):
		return fmt.Sprintf("🚫 The AI provider rejected the API key: %v", err)
	case models.IsKind(err, models.RateLimitError):
		return fmt.Sprintf("🚫 Rate limited by the AI provider, try again later: %v", err)
	case models.IsKind(err, models.TransportError):
		return fmt.Sprintf("🚫 Could not reach the AI provider: %v", err)
	case models.IsKind(err, models.MalformedResponseError):
		return fmt.Sprintf("🚫 The AI provider returned an unexpected response: %v", err)
	default:
		return fmt.Sprintf("🚫 %v", err)
	}
}
