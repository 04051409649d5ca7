package companion

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/brightpixel/companion/internal/llm"
)

const maxKeywords = 5

// ExtractKeywords asks the language model for up to five SEO keywords from a
// narrative text blob. Any API or parse failure degrades to an empty slice;
// callers treat "no keywords" as a valid outcome.
func ExtractKeywords(ctx context.Context, completer llm.Completer, text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw, err := completer.CompleteJSON(ctx, systemPrompt, BuildKeywordPrompt(text))
	if err != nil {
		slog.Warn("keyword extraction failed", "error", err)
		return nil
	}

	var parsed struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		slog.Warn("keyword extraction returned malformed JSON", "error", err)
		return nil
	}

	keywords := make([]string, 0, maxKeywords)
	for _, k := range parsed.Keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// stripCodeFences removes a surrounding markdown code fence if the model
// wrapped its JSON in one despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
