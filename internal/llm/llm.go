// Package llm wraps the Gemini API behind the small completion surface
// the brief pipelines need: one system instruction, one user message,
// sampling knobs, and an optional JSON response hint.
package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"google.golang.org/genai"
)

// DefaultModel is the default Gemini model used for analysis calls.
const DefaultModel = "gemini-flash-lite-latest"

// DefaultTimeout bounds every completion call; the upstream API
// enforces no deadline of its own.
const DefaultTimeout = 60 * time.Second

// Request describes one completion call.
type Request struct {
	System      string  // system instruction
	User        string  // user message
	Temperature float32 // sampling temperature
	MaxTokens   int32   // output token budget
	JSON        bool    // request a JSON object response
}

// Completer is the interface the pipelines depend on; the concrete
// Client talks to Gemini, tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client represents a client for interacting with the Gemini API.
type Client struct {
	modelName string
	timeout   time.Duration
	gClient   *genai.Client
}

// NewClient creates a new LLM client. The API key is resolved from
// GEMINI_API_KEY (or alternatives) and falls back to the viper
// configuration.
func NewClient(modelName string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY"); apiKey == "" {
			if apiKey = os.Getenv("GOOGLE_AI_API_KEY"); apiKey == "" {
				apiKey = viper.GetString("ai.gemini.api_key")
			}
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file")
	}

	if modelName == "" {
		modelName = viper.GetString("ai.gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	timeout := DefaultTimeout
	if raw := viper.GetString("ai.gemini.timeout"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			timeout = parsed
		}
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		modelName: modelName,
		timeout:   timeout,
		gClient:   gClient,
	}, nil
}

// Complete executes one completion call against the configured model.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = req.MaxTokens
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, genai.Text(req.User), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return text, nil
}

// ModelName returns the model the client is configured with.
func (c *Client) ModelName() string {
	return c.modelName
}
