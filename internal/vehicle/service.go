package vehicle

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tbraack/garagelog/internal/extraction"
	"github.com/tbraack/garagelog/internal/photo"
)

// Image patch actions accepted by SetPrimaryImage.
const (
	ActionSetPrimary   = "set_primary"
	ActionUnsetPrimary = "unset_primary"
)

// IDGenerator generates unique IDs for events and images
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles vehicle history operations
type Service struct {
	db          DB
	extractor   extraction.Extractor
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, extractor extraction.Extractor, storage Storage) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, extractor extraction.Extractor, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and
// truncating length. Phone uploads arrive with long generated names.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "photo"
	}

	return base + ext
}

// UploadPhoto stores an uploaded photo/document and registers it as a
// pending image. Extraction does not start until ProcessImage is called.
func (s *Service) UploadPhoto(vehicleID, filename string, data []byte, contentType string) (*LinkedImage, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	image := &LinkedImage{
		ID:               id,
		VehicleID:        vehicleID,
		Filename:         savedPath,
		ContentType:      strings.ToLower(strings.TrimSpace(contentType)),
		ProcessingStatus: StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.db.SaveImage(image); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving image to database: %w", err)
	}

	return image, nil
}

// BeginProcessing acknowledges a processing request by flipping the image to
// processing. Any status is accepted: reprocessing a terminal image resets
// its lifecycle.
func (s *Service) BeginProcessing(vehicleID, imageID string) (*LinkedImage, error) {
	image, err := s.db.GetImage(vehicleID, imageID)
	if err != nil {
		return nil, fmt.Errorf("getting image: %w", err)
	}

	image.ProcessingStatus = StatusProcessing
	image.Error = ""
	image.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveImage(image); err != nil {
		return nil, fmt.Errorf("updating image status: %w", err)
	}

	return image, nil
}

// CompleteProcessing runs extraction for an image that BeginProcessing has
// already acknowledged. On success it creates a timeline event and marks the
// image completed; on failure it records the error and marks it failed.
func (s *Service) CompleteProcessing(ctx context.Context, vehicleID, imageID string) (*RawEvent, error) {
	image, err := s.db.GetImage(vehicleID, imageID)
	if err != nil {
		return nil, fmt.Errorf("getting image: %w", err)
	}

	data, err := s.storage.Get(image.Filename)
	if err != nil {
		return nil, s.failProcessing(image, fmt.Errorf("getting image file: %w", err))
	}

	pngData, _, _, err := photo.Prepare(data, image.ContentType)
	if err != nil {
		return nil, s.failProcessing(image, fmt.Errorf("preparing image: %w", err))
	}

	result, err := s.extractor.Extract(ctx, pngData)
	if err != nil {
		slog.Error("Extraction failed",
			"vehicle_id", vehicleID,
			"image_id", imageID,
			"filename", image.Filename,
			"error", err,
		)
		return nil, s.failProcessing(image, fmt.Errorf("extracting image: %w", err))
	}

	now := s.timeSource.Now()

	payload := result.Data
	if payload == nil {
		payload = map[string]any{}
	}
	if result.Summary != "" {
		if _, ok := payload["ai_summary"]; !ok {
			payload["ai_summary"] = result.Summary
		}
	}

	image.ProcessingStatus = StatusCompleted
	image.UpdatedAt = now

	event := &RawEvent{
		ID:         s.idGenerator.Generate(),
		VehicleID:  vehicleID,
		Type:       result.Type,
		OccurredAt: result.Date,
		Miles:      result.Miles,
		Confidence: result.Confidence,
		Payload:    payload,
		Image:      image,
		RecordedAt: now,
		UpdatedAt:  now,
	}

	if err := s.db.SaveEvent(event); err != nil {
		return nil, s.failProcessing(image, fmt.Errorf("saving event to database: %w", err))
	}

	if err := s.db.SaveImage(image); err != nil {
		return nil, fmt.Errorf("updating image status: %w", err)
	}

	return event, nil
}

// failProcessing marks an image failed with the cause and returns the cause.
func (s *Service) failProcessing(image *LinkedImage, cause error) error {
	image.ProcessingStatus = StatusFailed
	image.Error = cause.Error()
	image.UpdatedAt = s.timeSource.Now()
	if err := s.db.SaveImage(image); err != nil {
		slog.Error("Failed to record processing failure", "image_id", image.ID, "error", err)
	}
	return cause
}

// GetEvent retrieves an event by ID
func (s *Service) GetEvent(vehicleID, id string) (*RawEvent, error) {
	event, err := s.db.GetEvent(vehicleID, id)
	if err != nil {
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return event, nil
}

// ListEvents returns all events for a vehicle, newest first
func (s *Service) ListEvents(vehicleID string) ([]*RawEvent, error) {
	events, err := s.db.ListEvents(vehicleID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].RecordedAt.After(events[j].RecordedAt)
	})
	return events, nil
}

// DeleteEvent removes an event. The linked image and its file are kept; the
// photo gallery outlives individual timeline entries.
func (s *Service) DeleteEvent(vehicleID, id string) error {
	if _, err := s.db.GetEvent(vehicleID, id); err != nil {
		return fmt.Errorf("getting event for deletion: %w", err)
	}
	if err := s.db.DeleteEvent(vehicleID, id); err != nil {
		return fmt.Errorf("deleting event from database: %w", err)
	}
	return nil
}

// ListImages returns all images for a vehicle
func (s *Service) ListImages(vehicleID string) ([]*LinkedImage, error) {
	images, err := s.db.ListImages(vehicleID)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	return images, nil
}

// GetImageFile retrieves the stored file for an image
func (s *Service) GetImageFile(vehicleID, imageID string) ([]byte, string, error) {
	image, err := s.db.GetImage(vehicleID, imageID)
	if err != nil {
		return nil, "", fmt.Errorf("getting image: %w", err)
	}

	data, err := s.storage.Get(image.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting image file: %w", err)
	}

	return data, image.ContentType, nil
}

// SetPrimaryImage sets or clears the primary flag. set_primary clears the
// flag on every other image of the vehicle so at most one is primary.
func (s *Service) SetPrimaryImage(vehicleID, imageID, action string) error {
	if action != ActionSetPrimary && action != ActionUnsetPrimary {
		return fmt.Errorf("unknown image action: %s", action)
	}

	images, err := s.db.ListImages(vehicleID)
	if err != nil {
		return fmt.Errorf("listing images: %w", err)
	}

	now := s.timeSource.Now()
	found := false
	for _, image := range images {
		want := image.Primary
		switch {
		case image.ID == imageID:
			found = true
			want = action == ActionSetPrimary
		case action == ActionSetPrimary:
			want = false
		}
		if want == image.Primary {
			continue
		}
		image.Primary = want
		image.UpdatedAt = now
		if err := s.db.SaveImage(image); err != nil {
			return fmt.Errorf("updating image %s: %w", image.ID, err)
		}
	}
	if !found {
		return fmt.Errorf("image not found: %s", imageID)
	}
	return nil
}
