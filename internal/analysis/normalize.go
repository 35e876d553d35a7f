package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"evidencelens/internal/domain"
	"evidencelens/internal/gemini"
)

// Normalize recovers an AnalysisRecord from raw model text, then attaches
// warnings and grounding citations. It is the only constructor of records.
func Normalize(raw string, grounding *gemini.GroundingMetadata, warnings []string) (*domain.AnalysisRecord, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, domain.ErrEmptyResponse
	}

	candidate := ExtractJSON(text)
	if err := validateRecord([]byte(candidate)); err != nil {
		return nil, &domain.MalformedResponseError{Raw: truncate(text, 500), Err: err}
	}

	var record domain.AnalysisRecord
	if err := json.Unmarshal([]byte(candidate), &record); err != nil {
		return nil, &domain.MalformedResponseError{Raw: truncate(text, 500), Err: fmt.Errorf("decoding record: %w", err)}
	}

	record.ProcessingWarnings = nil
	if len(warnings) > 0 {
		record.ProcessingWarnings = append([]string(nil), warnings...)
	}
	record.GroundingURLs = groundingURLs(grounding)
	return &record, nil
}

// ExtractJSON slices trimmed text from the first '{' to the last '}'. Text
// without that pair falls back to stripping a surrounding code fence.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 {
		if end < start {
			return ""
		}
		return text[start : end+1]
	}
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}
	return text
}

func groundingURLs(meta *gemini.GroundingMetadata) []domain.GroundingURL {
	if meta == nil {
		return nil
	}
	var out []domain.GroundingURL
	for _, chunk := range meta.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		uri := strings.TrimSpace(chunk.Web.URI)
		title := strings.TrimSpace(chunk.Web.Title)
		if uri == "" || title == "" {
			continue
		}
		out = append(out, domain.GroundingURL{Title: title, URL: uri})
	}
	return out
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
