package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/common"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GeminiProvider implements the Provider interface using the Google Gemini
// API. Calls are rate limited to stay inside free-tier request quotas.
type GeminiProvider struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(config *common.GeminiConfig, logger arbor.ILogger) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set ORDO_GEMINI_API_KEY or gemini.api_key in config)")
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	rateLimit, err := time.ParseDuration(config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit duration '%s': %w", config.RateLimit, err)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	provider := &GeminiProvider{
		config:  config,
		logger:  logger,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(rateLimit), 1),
		timeout: timeout,
	}

	logger.Info().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Dur("rate_limit", rateLimit).
		Msg("Gemini provider initialized")

	return provider, nil
}

// GenerateContent submits a single content generation request to Gemini
func (p *GeminiProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	messages, systemText, err := convertMessages(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages to Gemini format: %w", err)
	}
	if request.SystemInstruction != "" {
		systemText = request.SystemInstruction
	}

	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.limiter.Wait(timeoutCtx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.config.Temperature),
	}
	if systemText != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(timeoutCtx, p.config.Model, contents, genConfig)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	// Iterate candidates until non-empty text is found
	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return nil, fmt.Errorf("no response generated from model")
	}

	p.logger.Debug().
		Str("model", p.config.Model).
		Int("response_length", response.Len()).
		Dur("duration", time.Since(start)).
		Msg("Gemini content generated")

	return &ContentResponse{
		Text:     response.String(),
		Provider: ProviderGemini,
		Model:    p.config.Model,
	}, nil
}

// GetProviderType returns the provider type
func (p *GeminiProvider) GetProviderType() ProviderType {
	return ProviderGemini
}

// Close releases the provider. The genai.Client doesn't require explicit
// shutdown; the reference is cleared for the garbage collector.
func (p *GeminiProvider) Close() error {
	p.client = nil
	return nil
}
