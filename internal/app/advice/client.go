/*
Package advice integrates with an external text-generation service to produce
a short natural-language learning recommendation for a user's wanted skills.

The call is strictly best-effort: the match engine substitutes FallbackAdvice
whenever generation fails or times out, and never retries.
*/
package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// FallbackAdvice is returned to clients whenever the generation call fails.
// Kept stable so the UI can detect it if it wants to hide the advice card.
const FallbackAdvice = "We couldn't generate personalized advice right now. Browse your matches and reach out to someone who teaches what you want to learn."

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	http  *resty.Client
	model string
}

// NewClient builds an advice client for the given base URL, API key, and model.
// The timeout bounds the whole generation call; a zero timeout defaults to 10s.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}

	return &Client{http: c, model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate produces a short advice string for a user who wants to learn the
// given skills. One request, no retry; callers treat any error as recoverable.
func (c *Client) Generate(ctx context.Context, learnSkills []string) (string, error) {
	if len(learnSkills) == 0 {
		return "", fmt.Errorf("no skills to advise on")
	}

	prompt := fmt.Sprintf(
		"A user on a skill-exchange platform wants to learn: %s. "+
			"In two or three sentences, suggest how they should approach finding a partner and getting started.",
		strings.Join(learnSkills, ", "),
	)

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a friendly mentor on a peer-to-peer skill-exchange platform."},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 200,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("advice request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("advice status %d: %s", resp.StatusCode(), resp.String())
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", fmt.Errorf("decode advice response: %w", err)
	}

	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("advice response contained no content")
	}

	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}
