package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateFormats are accepted from the service and normalized to ISO 8601.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// parseResult extracts the structured Result from the service's free-text
// output. The output should be bare JSON but frequently arrives wrapped in
// markdown fences or surrounded by prose, so we cut down to the outermost
// object before unmarshaling.
func parseResult(text string) (*Result, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in output")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in output")
	}
	text = text[startIdx : endIdx+1]

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	result.Type = strings.ToLower(strings.TrimSpace(result.Type))
	if result.Type == "" {
		result.Type = "unknown"
	}

	// Normalize the date when we recognize the format. Unrecognized dates
	// are passed through untouched; the timeline normalizer turns them into
	// the unknown-date sentinel rather than guessing.
	result.Date = strings.TrimSpace(result.Date)
	for _, format := range dateFormats {
		if d, err := time.Parse(format, result.Date); err == nil {
			result.Date = d.Format("2006-01-02")
			break
		}
	}

	result.Summary = strings.TrimSpace(result.Summary)

	return &result, nil
}
