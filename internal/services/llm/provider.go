package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/common"
	"github.com/ternarybob/ordo/internal/interfaces"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

// ContentRequest represents a provider-agnostic content generation request.
// Temperature and token limits come from the provider's own configuration.
type ContentRequest struct {
	Messages          []interfaces.Message
	SystemInstruction string
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// Provider defines the interface for AI content generation
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	GetProviderType() ProviderType
	Close() error
}

// NewProvider creates the provider selected by config.LLM.DefaultProvider.
func NewProvider(config *common.Config, logger arbor.ILogger) (Provider, error) {
	switch DetectProvider(config) {
	case ProviderClaude:
		return NewClaudeProvider(&config.Claude, logger)
	case ProviderGemini:
		return NewGeminiProvider(&config.Gemini, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.LLM.DefaultProvider)
	}
}

// DetectProvider determines the provider type from the configured default
// provider and the model name. Model names with an explicit prefix
// ("claude/..." or "gemini/...") or a recognizable family prefix win over
// the configured default.
func DetectProvider(config *common.Config) ProviderType {
	model := strings.ToLower(strings.TrimSpace(config.Gemini.Model))
	if config.LLM.DefaultProvider == common.LLMProviderClaude {
		model = strings.ToLower(strings.TrimSpace(config.Claude.Model))
	}

	if strings.HasPrefix(model, "claude/") || strings.HasPrefix(model, "anthropic/") || strings.HasPrefix(model, "claude-") {
		return ProviderClaude
	}
	if strings.HasPrefix(model, "gemini/") || strings.HasPrefix(model, "google/") || strings.HasPrefix(model, "gemini-") {
		return ProviderGemini
	}

	return ProviderType(config.LLM.DefaultProvider)
}

// convertMessages splits conversation history into provider-neutral parts:
// non-system messages in order, plus the first system message content.
// Requires at least one user message.
func convertMessages(messages []interfaces.Message) ([]interfaces.Message, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	converted := make([]interfaces.Message, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}
		converted = append(converted, msg)
	}

	return converted, systemText, nil
}
