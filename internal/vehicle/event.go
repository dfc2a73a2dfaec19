package vehicle

import "time"

// ProcessingStatus is the lifecycle state of server-side extraction for one
// uploaded image. Terminal statuses are only left via an explicit reprocess.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Terminal reports whether the status will not change without a reprocess.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// LinkedImage represents an uploaded photo or document for a vehicle
type LinkedImage struct {
	ID               string           `json:"id"`
	VehicleID        string           `json:"vehicle_id"`
	Filename         string           `json:"filename"`
	ContentType      string           `json:"content_type"`
	Primary          bool             `json:"primary"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	Error            string           `json:"error,omitempty"` // last extraction failure, if any
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// RawEvent represents a timeline event as persisted. The payload shape is
// whatever the extraction service produced for the event type; OccurredAt is
// the extracted date string and may be empty or unparsable.
type RawEvent struct {
	ID         string         `json:"id"`
	VehicleID  string         `json:"vehicle_id"`
	Type       string         `json:"type"`
	OccurredAt string         `json:"created_at"`
	Miles      *float64       `json:"miles,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Image      *LinkedImage   `json:"image,omitempty"`
	Confidence *float64       `json:"confidence,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
