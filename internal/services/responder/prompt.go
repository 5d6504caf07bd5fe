package responder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/ordo/internal/models"
)

// maxPromptRecords caps how many order records are embedded in the model
// prompt. Larger snapshots are truncated with an explicit note so the model
// does not present partial data as complete.
const maxPromptRecords = 50

const systemInstruction = `You are a helpful e-commerce order assistant. ` +
	`Answer in a friendly mix of Urdu and English. ` +
	`Base every answer strictly on the order data provided. ` +
	`When asked about a specific order, reference it by order ID or customer name. ` +
	`Present summaries and statistics in a clear format. ` +
	`If something is not in the data, say so honestly.`

// SystemInstruction returns the fixed response-style instructions sent with
// every model request.
func SystemInstruction() string {
	return systemInstruction
}

// BuildPrompt assembles the context payload for one question: snapshot
// metadata, up to maxPromptRecords records as indented JSON, a truncation
// note when applicable, and the literal user query.
func BuildPrompt(query string, snapshot *models.Snapshot) (string, error) {
	shown := snapshot.Orders
	truncated := false
	if len(shown) > maxPromptRecords {
		shown = shown[:maxPromptRecords]
		truncated = true
	}

	var data bytes.Buffer
	enc := json.NewEncoder(&data)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(shown); err != nil {
		return "", fmt.Errorf("failed to serialize order data for prompt: %w", err)
	}

	var b strings.Builder
	b.WriteString("Here is the current order data:\n\n")
	fmt.Fprintf(&b, "Total Orders: %d\n", snapshot.TotalOrders)
	fmt.Fprintf(&b, "Last Updated: %s\n\n", snapshot.LastUpdated)
	b.WriteString("Orders Data:\n")
	b.Write(data.Bytes())
	if truncated {
		fmt.Fprintf(&b, "\nNote: only the first %d of %d orders are shown above for analysis.\n", maxPromptRecords, snapshot.TotalOrders)
	}
	b.WriteString("\nUser question: ")
	b.WriteString(query)
	b.WriteString("\n")

	return b.String(), nil
}
