// Package gemini implements the text generator backed by Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// Config holds what the client needs to talk to Gemini.
type Config struct {
	APIKey      string
	ModelName   string
	Temperature float32
}

// Client generates text from a single prompt.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// models is the subset of genai.Models the client calls.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type sdkClient struct {
	models        models
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
}

// NewClient creates a Gemini client for the Gemini API backend.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("gemini model name is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}
	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.ModelName)

	return newSDKClient(gi.Models, cfg, logger), nil
}

func newSDKClient(m models, cfg Config, logger *slog.Logger) *sdkClient {
	temperature := cfg.Temperature
	return &sdkClient{
		models:    m,
		log:       logger,
		modelName: cfg.ModelName,
		contentConfig: &genai.GenerateContentConfig{
			Temperature: &temperature,
		},
	}
}

// GenerateText sends prompt as one user turn and returns the full text answer.
func (c *sdkClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	c.log.DebugContext(ctx, "Generating text", "model", c.modelName, "prompt_length", len(prompt))

	resp, err := c.models.GenerateContent(ctx, c.modelName, genai.Text(prompt), c.contentConfig)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini API call failed", "error", err)
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return c.extractTextFromResponse(ctx, resp)
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini returned a nil response")
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified && resp.PromptFeedback.BlockReason != "" {
		reasonMsg := string(resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "reason", reasonMsg)
		return "", fmt.Errorf("gemini request blocked by safety filter: %s", reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified && resp.Candidates[0].FinishReason != "" {
			finishReason = string(resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return "", fmt.Errorf("gemini returned no content, finish reason: %s", finishReason)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		c.log.WarnContext(ctx, "Gemini response text is empty")
		return "", errors.New("gemini returned empty text")
	}

	return text, nil
}
