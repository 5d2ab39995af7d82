package chatapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"peerblind/internal/core/domain"
	"peerblind/internal/infrastructure/resilience"
)

// Deployment is one chat-completion endpoint. Two deployments back the two
// AI review slots so the reviews come from different models.
type Deployment struct {
	BaseURL string
	APIKey  string
	Model   string
}

type Config struct {
	Deployments []Deployment
	Temperature float64
	MaxTokens   int

	// RequestsPerMinute caps the request rate across both deployments.
	// Zero disables the limiter.
	RequestsPerMinute int
}

// Client generates review text through OpenAI-compatible chat-completion
// endpoints. Slot n uses deployment n-1.
type Client struct {
	cfg        Config
	httpClient *http.Client
	executor   *resilience.Executor
	limiter    *rate.Limiter
}

func New(cfg Config, executor *resilience.Executor) (*Client, error) {
	if len(cfg.Deployments) == 0 {
		return nil, fmt.Errorf("chatapi: no deployments configured")
	}
	for i := range cfg.Deployments {
		cfg.Deployments[i].BaseURL = strings.TrimRight(cfg.Deployments[i].BaseURL, "/")
		if cfg.Deployments[i].BaseURL == "" {
			return nil, fmt.Errorf("chatapi: deployment %d has no base URL", i+1)
		}
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
		limiter:    limiter,
	}, nil
}

func (c *Client) deployment(slot int) (Deployment, error) {
	if slot < 1 || slot > len(c.cfg.Deployments) {
		return Deployment{}, fmt.Errorf("chatapi: no deployment for slot %d", slot)
	}
	return c.cfg.Deployments[slot-1], nil
}

func (c *Client) ModelName(slot int) string {
	dep, err := c.deployment(slot)
	if err != nil {
		return ""
	}
	return dep.Model
}

func (c *Client) GenerateReview(ctx context.Context, slot int, style domain.ReviewStyle, proposalText string) (string, error) {
	dep, err := c.deployment(slot)
	if err != nil {
		return "", err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	prompt := buildReviewPrompt(style, proposalText)
	operation := fmt.Sprintf("generate_review_slot%d", slot)

	var text string
	call := func(ctx context.Context) error {
		out, err := c.complete(ctx, dep, prompt)
		if err != nil {
			return err
		}
		text = out
		return nil
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, classifyChatError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("chatapi: model %s returned empty review", dep.Model)
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) complete(ctx context.Context, dep Deployment, prompt reviewPrompt) (string, error) {
	request := chatRequest{
		Model:       dep.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
	}

	var response chatResponse
	if err := c.postJSON(ctx, dep, "/chat/completions", request, &response); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chatapi: response has no choices")
	}
	return response.Choices[0].Message.Content, nil
}
