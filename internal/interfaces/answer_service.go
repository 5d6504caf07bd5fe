package interfaces

import (
	"context"

	"github.com/ternarybob/ordo/internal/models"
)

// AnswerService turns a user question plus the current snapshot into a
// natural-language answer from the configured model. Provider failures are
// converted into answer-shaped error text, never surfaced as errors on the
// request path.
type AnswerService interface {
	Answer(ctx context.Context, query string, snapshot *models.Snapshot) string
}
