package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/readmegen/readmegen/providers/contracts"
	"github.com/readmegen/readmegen/providers/models"
	"github.com/readmegen/readmegen/providers/retry"
	contracts2 "github.com/readmegen/readmegen/token_management/contracts"
)

// GroqConfig implements the completion provider for the Groq
// OpenAI-compatible chat completions API.
type GroqConfig struct {
	BaseURL         string
	ApiKey          string
	AttemptTimeout  time.Duration
	RetryPolicy     retry.Policy
	TokenManagement contracts2.ITokenManagement
	client          *http.Client
}

const (
	defaultBaseURL        = "https://api.groq.com/openai/v1"
	defaultAttemptTimeout = 30 * time.Second
)

// NewGroqCompletionProvider initializes a new Groq provider. The API key
// is passed in explicitly; the provider holds no process-wide credential
// state.
func NewGroqCompletionProvider(config *GroqConfig) contracts.ICompletionProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	attemptTimeout := config.AttemptTimeout
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	retryPolicy := config.RetryPolicy
	if retryPolicy.MaxAttempts == 0 {
		retryPolicy = retry.DefaultPolicy()
	}
	return &GroqConfig{
		BaseURL:         baseURL,
		ApiKey:          config.ApiKey,
		AttemptTimeout:  attemptTimeout,
		RetryPolicy:     retryPolicy,
		TokenManagement: config.TokenManagement,
		client:          &http.Client{},
	}
}

// Complete sends the prompt as a single user message and returns the
// parsed completion. Transport failures, 5xx and 429 responses are
// retried with bounded backoff; authentication and other client errors
// fail immediately.
func (groqProvider *GroqConfig) Complete(ctx context.Context, request *models.CompletionRequest) (*models.CompletionResponse, error) {
	reqBody := models.ChatCompletionRequest{
		Model: request.Model,
		Messages: []models.Message{
			{Role: "user", Content: request.Prompt},
		},
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request body: %v", err)
	}

	machine := retry.NewMachine(groqProvider.RetryPolicy)
	var lastErr *models.Error

	for !machine.Done() {
		response, outcome, hint, attemptErr := groqProvider.attempt(ctx, jsonData)

		if outcome == retry.Success {
			machine.Observe(retry.Success, 0)
			return response, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = attemptErr
		machine.Observe(outcome, hint)

		if machine.State() == retry.Backoff {
			log.Debug().
				Int("attempt", machine.Attempt()).
				Dur("backoff", machine.Delay()).
				Str("reason", lastErr.Kind.String()).
				Msg("retrying completion request")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(machine.Delay()):
			}
			machine.Resume()
		}
	}

	return nil, lastErr
}

// attempt performs one HTTP round trip and classifies the result.
func (groqProvider *GroqConfig) attempt(ctx context.Context, jsonData []byte) (*models.CompletionResponse, retry.Outcome, time.Duration, *models.Error) {
	attemptCtx, cancel := context.WithTimeout(ctx, groqProvider.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, "POST", fmt.Sprintf("%s/chat/completions", groqProvider.BaseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, retry.Fatal, 0, &models.Error{Kind: models.RequestError, Message: fmt.Sprintf("error creating request: %v", err)}
	}

	req.Header.Set("Authorization", "Bearer "+groqProvider.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := groqProvider.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, retry.Fatal, 0, &models.Error{Kind: models.TransportError, Message: "request canceled"}
		}
		return nil, retry.Retryable, 0, &models.Error{Kind: models.TransportError, Message: fmt.Sprintf("error sending request: %v", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return groqProvider.parseResponse(resp)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, retry.Fatal, 0, &models.Error{Kind: models.AuthenticationError, Status: resp.StatusCode, Message: apiErrorMessage(resp.Body)}

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, retry.RateLimited, retryAfterHint(resp), &models.Error{Kind: models.RateLimitError, Status: resp.StatusCode, Message: apiErrorMessage(resp.Body)}

	case resp.StatusCode >= 500:
		return nil, retry.Retryable, 0, &models.Error{Kind: models.TransportError, Status: resp.StatusCode, Message: apiErrorMessage(resp.Body)}

	default:
		return nil, retry.Fatal, 0, &models.Error{Kind: models.RequestError, Status: resp.StatusCode, Message: apiErrorMessage(resp.Body)}
	}
}

func (groqProvider *GroqConfig) parseResponse(resp *http.Response) (*models.CompletionResponse, retry.Outcome, time.Duration, *models.Error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.Fatal, 0, &models.Error{Kind: models.MalformedResponseError, Status: resp.StatusCode, Message: fmt.Sprintf("error reading response body: %v", err)}
	}

	var completion models.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, retry.Fatal, 0, &models.Error{Kind: models.MalformedResponseError, Status: resp.StatusCode, Message: fmt.Sprintf("error unmarshalling response: %v", err)}
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return nil, retry.Fatal, 0, &models.Error{Kind: models.MalformedResponseError, Status: resp.StatusCode, Message: "response contains no completion text"}
	}

	if groqProvider.TokenManagement != nil && completion.Usage.TotalTokens > 0 {
		groqProvider.TokenManagement.UsedTokens(completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	}

	return &models.CompletionResponse{
		Content:          completion.Choices[0].Message.Content,
		Model:            completion.Model,
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
	}, retry.Success, 0, nil
}

// apiErrorMessage extracts the error envelope message, falling back to a
// bounded raw body dump.
func apiErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no error details in response"
	}

	var apiError models.AIError
	if err := json.Unmarshal(raw, &apiError); err == nil && apiError.Error.Message != "" {
		return apiError.Error.Message
	}
	return string(raw)
}

// retryAfterHint parses the Retry-After header of a 429 response.
func retryAfterHint(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
