package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"alcyxob/tritrack/internal/config"
)

const (
	chatMaxTokens    = 500
	chatTemperature  = 0.7
	parseMaxTokens   = 4000
	parseTemperature = 0.2

	DefaultMimeType = "image/jpeg"
)

// Message is one chat turn sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client talks to the Groq OpenAI-compatible chat completions endpoint.
// It holds no per-user state and is safe for concurrent use.
type Client struct {
	apiKey      string
	baseURL     string
	chatModel   string
	visionModel string
	httpClient  *http.Client
}

func NewClient(cfg config.GroqConfig) *Client {
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		chatModel:   cfg.ChatModel,
		visionModel: cfg.VisionModel,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Chat sends a conversation to the chat model and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	wire := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, wireMessage{Role: m.Role, Content: m.Content})
	}
	return c.complete(ctx, chatRequest{
		Model:       c.chatModel,
		Messages:    wire,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
}

// ParseImage asks the vision model to transcribe one schedule image into the schedule JSON
// format. The raw model text is returned; extracting the JSON is up to the caller.
func (c *Client) ParseImage(ctx context.Context, image []byte, mimeType string, hints ParseHints) (string, error) {
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	return c.complete(ctx, chatRequest{
		Model: c.visionModel,
		Messages: []wireMessage{
			{Role: "system", Content: hints.systemPrompt()},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: hints.userPrompt()},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			}},
		},
		MaxTokens:   parseMaxTokens,
		Temperature: parseTemperature,
	})
}

func (c *Client) complete(ctx context.Context, req chatRequest) (string, error) {
	if !c.Configured() {
		return "", ErrMissingAPIKey
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read groq response: %w", err)
	}

	var chatResp chatResponse
	decodeErr := json.Unmarshal(body, &chatResp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "Groq API request failed"
		if decodeErr == nil && chatResp.Error != nil && chatResp.Error.Message != "" {
			msg = chatResp.Error.Message
		}
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode groq response: %w", decodeErr)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", ErrEmptyContent
	}
	return chatResp.Choices[0].Message.Content, nil
}
