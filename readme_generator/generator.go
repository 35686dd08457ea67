package readme_generator

import (
	"context"

	scanner_contracts "github.com/readmegen/readmegen/dir_scanner/contracts"
	"github.com/readmegen/readmegen/prompt_builder"
	provider_contracts "github.com/readmegen/readmegen/providers/contracts"
	"github.com/readmegen/readmegen/providers/models"
)

const (
	DefaultModel       = "llama3-70b-8192"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4000
)

// GeneratorConfig fixes the generation parameters for every call.
type GeneratorConfig struct {
	Model string
	// Temperature overrides the default when non-nil. Zero is a valid
	// explicit setting, so unset is nil rather than 0.
	Temperature *float32
	MaxTokens   int
	// ProjectName overrides the directory-derived project name in the
	// prompt when non-empty.
	ProjectName string
}

// ReadmeGenerator sequences scan, prompt construction and completion.
// It is stateless across calls; concurrent Generate calls are safe as
// long as the injected scanner and provider are.
type ReadmeGenerator struct {
	scanner     scanner_contracts.IDirectoryScanner
	builder     *prompt_builder.PromptBuilder
	provider    provider_contracts.ICompletionProvider
	config      GeneratorConfig
	temperature float32
}

// NewReadmeGenerator wires the pipeline together.
func NewReadmeGenerator(
	scanner scanner_contracts.IDirectoryScanner,
	builder *prompt_builder.PromptBuilder,
	provider provider_contracts.ICompletionProvider,
	config GeneratorConfig,
) *ReadmeGenerator {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}
	temperature := float32(DefaultTemperature)
	if config.Temperature != nil {
		temperature = *config.Temperature
	}
	return &ReadmeGenerator{
		scanner:     scanner,
		builder:     builder,
		provider:    provider,
		config:      config,
		temperature: temperature,
	}
}

// Generate scans rootPath, builds the prompt and returns the generated
// README text. The first failure of any stage is surfaced unchanged; a
// failed scan never reaches the network.
func (generator *ReadmeGenerator) Generate(ctx context.Context, rootPath string) (string, error) {
	inventory, err := generator.scanner.Scan(ctx, rootPath)
	if err != nil {
		return "", err
	}

	if generator.config.ProjectName != "" {
		inventory.ProjectName = generator.config.ProjectName
	}

	prompt := generator.builder.Build(inventory)

	response, err := generator.provider.Complete(ctx, &models.CompletionRequest{
		Model:       generator.config.Model,
		Prompt:      prompt,
		Temperature: generator.temperature,
		MaxTokens:   generator.config.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	return response.Content, nil
}
