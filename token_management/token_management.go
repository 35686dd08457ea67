package token_management

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/readmegen/readmegen/constants/lipgloss"
	"github.com/readmegen/readmegen/embed_data"
	"github.com/readmegen/readmegen/token_management/contracts"
)

// TokenManager implementation
type tokenManager struct {
	mutex           sync.Mutex
	usedToken       int
	usedInputToken  int
	usedOutputToken int
}

type details struct {
	MaxTokens                  int     `json:"max_tokens"`
	MaxInputTokens             int     `json:"max_input_tokens"`
	MaxOutputTokens            int     `json:"max_output_tokens"`
	InputCostPerMillionTokens  float64 `json:"input_cost_per_million_tokens,omitempty"`
	OutputCostPerMillionTokens float64 `json:"output_cost_per_million_tokens,omitempty"`
	Mode                       string  `json:"mode"`
}

type Models struct {
	ModelDetails map[string]details `json:"models"`
}

// NewTokenManager creates a new token manager
func NewTokenManager() contracts.ITokenManagement {
	return &tokenManager{}
}

// UsedTokens accumulates the token count reported by a completion.
func (tm *tokenManager) UsedTokens(inputToken int, outputToken int) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.usedInputToken += inputToken
	tm.usedOutputToken += outputToken
	tm.usedToken += inputToken + outputToken
}

// DisplayTokens renders the session usage and estimated cost in a box.
// The box goes to stderr so piped stdout carries only the README.
func (tm *tokenManager) DisplayTokens(chatModel string) {
	total, input, output := tm.GetCurrentTokenUsage()
	if total == 0 {
		return
	}

	cost := tm.CalculateCost(chatModel, input, output)

	tokenInfo := fmt.Sprintf("Token Used: %d - Cost: %.6f $ - Model: %s", total, cost, chatModel)
	fmt.Fprintln(os.Stderr, lipgloss.BoxStyle.Render(tokenInfo))
}

func (tm *tokenManager) GetCurrentTokenUsage() (total int, input int, output int) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	return tm.usedToken, tm.usedInputToken, tm.usedOutputToken
}

func (tm *tokenManager) ClearToken() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.usedToken = 0
	tm.usedInputToken = 0
	tm.usedOutputToken = 0
}

// CalculateCost estimates the dollar cost for the given usage. Unknown
// models cost zero.
func (tm *tokenManager) CalculateCost(modelName string, inputToken int, outputToken int) float64 {
	modelDetails, err := getModelDetails(modelName)
	if err != nil {
		return 0
	}

	inputCost := float64(inputToken) * modelDetails.InputCostPerMillionTokens / 1000000.0
	outputCost := float64(outputToken) * modelDetails.OutputCostPerMillionTokens / 1000000.0

	return inputCost + outputCost
}

func getModelDetails(modelName string) (details, error) {
	modelName = strings.ToLower(modelName)

	models := Models{
		ModelDetails: make(map[string]details),
	}

	err := json.Unmarshal(embed_data.ModelDetails, &models)
	if err != nil {
		log.Error().Err(err).Msg("error unmarshaling model details")
		return details{}, err
	}

	model, exists := models.ModelDetails[modelName]
	if !exists {
		return details{}, fmt.Errorf("model details with name '%s' not found", modelName)
	}

	return model, nil
}
