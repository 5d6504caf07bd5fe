package responder

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/interfaces"
	"github.com/ternarybob/ordo/internal/models"
	"github.com/ternarybob/ordo/internal/services/llm"
)

// Service answers free-text questions about the cached order data by
// forwarding a prompt to the configured model provider.
type Service struct {
	provider llm.Provider
	logger   arbor.ILogger
}

// NewService creates a responder over the given provider.
func NewService(provider llm.Provider, logger arbor.ILogger) *Service {
	return &Service{
		provider: provider,
		logger:   logger,
	}
}

// Answer builds the bounded context prompt and submits one generation
// request. Any failure is converted into answer-shaped error text so the
// request path never crashes on a model problem.
func (s *Service) Answer(ctx context.Context, query string, snapshot *models.Snapshot) string {
	prompt, err := BuildPrompt(query, snapshot)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build model prompt")
		return fmt.Sprintf("AI response error: %v", err)
	}

	request := &llm.ContentRequest{
		Messages: []interfaces.Message{
			{Role: "user", Content: prompt},
		},
		SystemInstruction: SystemInstruction(),
	}

	start := time.Now()
	response, err := s.provider.GenerateContent(ctx, request)
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", string(s.provider.GetProviderType())).
			Msg("Model request failed")
		return fmt.Sprintf("AI response error: %v", err)
	}

	s.logger.Info().
		Str("provider", string(response.Provider)).
		Str("model", response.Model).
		Int("answer_length", len(response.Text)).
		Dur("duration", time.Since(start)).
		Msg("Answer generated")

	return response.Text
}
