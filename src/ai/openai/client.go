// Package openai implements the ai core client against the OpenAI Responses
// API with its hosted web_search tool.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/entrepreno/entrepreno/src/ai/core"
	"github.com/entrepreno/entrepreno/src/webclient"
)

const (
	openaiEndpoint   = "https://api.openai.com/v1/responses"
	defaultModel     = "gpt-5-mini"
	defaultMaxTokens = 4000
)

type client struct {
	apiKey     string
	httpClient *http.Client
	defaults   core.Options
}

func init() {
	core.RegisterProvider("openai", NewClient, "gpt")
}

// NewClient constructs an OpenAI-backed implementation of core.Client.
func NewClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	return &client{
		apiKey:     cfg.OpenAIKey,
		httpClient: webclient.NewDefault(120 * time.Second),
		defaults: core.Options{
			Model:               valueOrDefault(cfg.Model, defaultModel),
			Temperature:         cfg.Temperature,
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, defaultMaxTokens),
		},
	}, nil
}

type responseRequest struct {
	Model               string                   `json:"model"`
	Instructions        string                   `json:"instructions,omitempty"`
	Input               string                   `json:"input"`
	Tools               []map[string]interface{} `json:"tools,omitempty"`
	ToolChoice          interface{}              `json:"tool_choice,omitempty"`
	Temperature         float64                  `json:"temperature,omitempty"`
	MaxCompletionTokens int                      `json:"max_completion_tokens,omitempty"`
}

type responseOutput struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

func (c *client) Generate(ctx context.Context, instructions string, prompt string, opts core.Options) (string, error) {
	merged := c.merge(opts)

	request := responseRequest{
		Model:               merged.Model,
		Instructions:        instructions,
		Input:               prompt,
		Temperature:         merged.Temperature,
		MaxCompletionTokens: orInt(merged.MaxCompletionTokens, defaultMaxTokens),
	}
	if merged.EnableWebSearch {
		request.Tools = []map[string]interface{}{
			{"type": "web_search"},
		}
		request.ToolChoice = "auto"
	}

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiEndpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrConnection, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: status 429", core.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp.StatusCode, body)
	}

	var result responseOutput
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}

	text := result.text()
	if text == "" {
		return "", core.ErrEmpty
	}
	return text, nil
}

func apiError(status int, body []byte) error {
	var errorResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
		if errorResp.Error.Code == "rate_limit_exceeded" || errorResp.Error.Type == "rate_limit_error" {
			return fmt.Errorf("%w: %s", core.ErrRateLimited, errorResp.Error.Message)
		}
		return fmt.Errorf("OpenAI API error: %s (type: %s, code: %s)",
			errorResp.Error.Message, errorResp.Error.Type, errorResp.Error.Code)
	}
	return fmt.Errorf("OpenAI API error: status %d", status)
}

func (r *responseOutput) text() string {
	var b strings.Builder
	for _, item := range r.Output {
		for _, content := range item.Content {
			if content.Type == "output_text" && content.Text != "" {
				if b.Len() > 0 {
					b.WriteString("\n")
				}
				b.WriteString(content.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxCompletionTokens != 0 {
		out.MaxCompletionTokens = opts.MaxCompletionTokens
	}
	if opts.EnableWebSearch {
		out.EnableWebSearch = true
	}
	return out
}

func valueOrDefault(val, def string) string {
	if strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
