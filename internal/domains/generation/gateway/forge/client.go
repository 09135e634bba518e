package forge

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"charaforge-backend/internal/domains/generation/gateway"
)

// Client talks to the Forge inference API over HTTPS. It implements
// gateway.ProfileGateway.
type Client struct {
	config     Config
	httpClient *http.Client
}

type Config struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewClient(config Config) gateway.ProfileGateway {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ========================================
// Text generation
// ========================================

type textRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type textResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) GenerateBiography(ctx context.Context, prompt string) (string, error) {
	payload := textRequest{
		Model:     c.config.Model,
		Prompt:    prompt,
		MaxTokens: 2048,
	}

	var result textResponse
	if err := c.post(ctx, "/v1/text/generations", payload, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("forge api error %s: %s", result.Error.Code, result.Error.Message)
	}

	return result.Text, nil
}

// ========================================
// Image generation
// ========================================

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data        string `json:"data"` // base64 encoded
	ContentType string `json:"content_type"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) GeneratePortrait(ctx context.Context, prompt string) ([]byte, string, error) {
	payload := imageRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Size:   "1024x1024",
	}

	var result imageResponse
	if err := c.post(ctx, "/v1/images/generations", payload, &result); err != nil {
		return nil, "", err
	}

	if result.Error != nil {
		return nil, "", fmt.Errorf("forge api error %s: %s", result.Error.Code, result.Error.Message)
	}

	data, err := base64.StdEncoding.DecodeString(result.Data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = "image/png"
	}

	return data, contentType, nil
}

func (c *Client) post(ctx context.Context, path string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call forge api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("forge api returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
