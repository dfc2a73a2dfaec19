// Package extraction talks to the external document-extraction service. The
// extraction logic itself lives on the other side of the wire; this package
// only submits images and parses what comes back.
package extraction

import "context"

// Result is the structured record the extraction service produced for one
// image. Date is the extracted event date as a string and may not be
// parsable; normalization downstream handles that.
type Result struct {
	Type       string         `json:"type"`
	Date       string         `json:"date"`
	Miles      *float64       `json:"miles,omitempty"`
	Confidence *float64       `json:"confidence,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// Extractor defines the interface for image extraction operations.
type Extractor interface {
	// Extract submits a PNG image and returns the structured result.
	Extract(ctx context.Context, imageData []byte) (*Result, error)
	// Close releases any resources held by the extractor.
	Close() error
}
