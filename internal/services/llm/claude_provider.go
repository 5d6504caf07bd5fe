package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/common"
	"golang.org/x/time/rate"
)

// ClaudeProvider implements the Provider interface using the Anthropic
// Claude API.
type ClaudeProvider struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    *anthropic.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	maxTokens int
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Claude API key is required (set ORDO_CLAUDE_API_KEY or claude.api_key in config)")
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	rateLimit, err := time.ParseDuration(config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit duration '%s': %w", config.RateLimit, err)
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	provider := &ClaudeProvider{
		config:    config,
		logger:    logger,
		client:    &client,
		limiter:   rate.NewLimiter(rate.Every(rateLimit), 1),
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Info().
		Str("model", config.Model).
		Int("max_tokens", maxTokens).
		Dur("timeout", timeout).
		Msg("Claude provider initialized")

	return provider, nil
}

// GenerateContent submits a single content generation request to Claude
func (p *ClaudeProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	messages, systemText, err := convertMessages(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages to Claude format: %w", err)
	}
	if request.SystemInstruction != "" {
		systemText = request.SystemInstruction
	}

	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "assistant" {
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
			continue
		}
		claudeMessages = append(claudeMessages, anthropic.NewUserMessage(
			anthropic.NewTextBlock(msg.Content),
		))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: int64(p.maxTokens),
		Messages:  claudeMessages,
	}
	if p.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(p.config.Temperature))
	}
	if systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.limiter.Wait(timeoutCtx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	start := time.Now()
	resp, err := p.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return nil, fmt.Errorf("no response generated from model")
	}

	p.logger.Debug().
		Str("model", p.config.Model).
		Int("response_length", response.Len()).
		Dur("duration", time.Since(start)).
		Msg("Claude content generated")

	return &ContentResponse{
		Text:     response.String(),
		Provider: ProviderClaude,
		Model:    p.config.Model,
	}, nil
}

// GetProviderType returns the provider type
func (p *ClaudeProvider) GetProviderType() ProviderType {
	return ProviderClaude
}

// Close releases the provider
func (p *ClaudeProvider) Close() error {
	p.client = nil
	return nil
}
