// Package openai provides the chat-completions backed recipe generator.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/infrastructure/config"
	apperrors "github.com/springdish/v1/pkg/errors"
	"go.uber.org/zap"
)

// Client implements outbound.RecipeGenerator against the OpenAI
// chat-completions API. One request per generation, no retries: the
// caller decides what a failed generation means.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
	logger      *zap.Logger
}

// NewClient creates a new OpenAI client
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		apiKey:      cfg.AI.OpenAIKey,
		baseURL:     strings.TrimSuffix(cfg.AI.BaseURL, "/"),
		model:       cfg.AI.OpenAIModel,
		maxTokens:   cfg.AI.MaxTokens,
		temperature: cfg.AI.Temperature,
		client: &http.Client{
			Timeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// OpenAI API structures
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

const systemPrompt = `You are an expert home-cooking chef. Given a list of ingredients the user has on hand, invent one dish that uses them.

CRITICAL: You must respond with ONLY a valid JSON object in the exact format shown below. Do not include any explanatory text, markdown formatting, or other content outside the JSON.

Required JSON format:
{
  "title": "Dish name",
  "subtitle": "One-line description of the dish",
  "steps": [
    "Step 1: Detailed instruction",
    "Step 2: Next step"
  ],
  "ingredients": [
    "ingredient with quantity"
  ],
  "seasonings": [
    "seasoning with quantity"
  ]
}

Remember: Respond with ONLY valid JSON. No additional text or formatting.`

// Generate produces a structured recipe from the given ingredient
// names. The prompt is deterministic for a given ingredient set.
func (c *Client) Generate(ctx context.Context, ingredients []string) (*recipe.GeneratedRecipe, error) {
	userPrompt := buildUserPrompt(ingredients)

	content, err := c.callChatCompletions(ctx, userPrompt)
	if err != nil {
		c.logger.Error("Chat completion call failed", zap.Error(err))
		return nil, apperrors.NewUpstreamError("openai", err)
	}

	generated, err := parseRecipeResponse(content)
	if err != nil {
		c.logger.Error("Failed to parse generation output",
			zap.Error(err),
			zap.String("content", content))
		return nil, apperrors.NewGenerationParseError(err.Error(), err)
	}

	return generated, nil
}

// buildUserPrompt renders the ingredient list in sorted order so the
// same pantry always produces the same prompt.
func buildUserPrompt(ingredients []string) string {
	names := make([]string, len(ingredients))
	copy(names, ingredients)
	sort.Strings(names)

	return fmt.Sprintf("Create one recipe using these ingredients: %s", strings.Join(names, ", "))
}

// callChatCompletions makes the actual API call
func (c *Client) callChatCompletions(ctx context.Context, userPrompt string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	c.logger.Info("Chat completion succeeded",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
		zap.Int("total_tokens", chatResp.Usage.TotalTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}

// parseRecipeResponse parses the model output. All-or-nothing: either
// every required field is present or the whole response is rejected.
func parseRecipeResponse(response string) (*recipe.GeneratedRecipe, error) {
	response = strings.TrimSpace(response)

	// The model sometimes wraps the JSON in prose or code fences
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no valid JSON found in response")
	}

	var generated recipe.GeneratedRecipe
	if err := json.Unmarshal([]byte(response[start:end+1]), &generated); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := generated.Validate(); err != nil {
		return nil, err
	}

	return &generated, nil
}
