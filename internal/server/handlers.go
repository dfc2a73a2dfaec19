package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/tbraack/garagelog/internal/timeline"
	"github.com/tbraack/garagelog/internal/vehicle"
)

// maxUploadSize caps photo uploads; high-resolution phone photos can be
// large but anything past this is a mistake.
const maxUploadSize = int64(50 << 20) // 50MB

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// corsJSONError writes a JSON error body with CORS headers set
func corsJSONError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListEvents returns all raw events for a vehicle
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	events, err := s.service.ListEvents(vehicleID)
	if err != nil {
		slog.Error("Error listing events", "vehicle_id", vehicleID, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Always return an array, not null
	if events == nil {
		events = []*vehicle.RawEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// handleTimeline returns the rendered event cards for a vehicle
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	events, err := s.service.ListEvents(vehicleID)
	if err != nil {
		slog.Error("Error listing events", "vehicle_id", vehicleID, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	cards := make([]timeline.CardViewModel, 0, len(events))
	for _, event := range events {
		cards = append(cards, s.registry.Render(*event))
	}
	writeJSON(w, http.StatusOK, cards)
}

// handleDeleteEvent removes a timeline event
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	eventID := r.PathValue("eventID")
	if eventID == "" {
		corsError(w, "Event ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteEvent(vehicleID, eventID); err != nil {
		corsError(w, "Event not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListImages returns all images for a vehicle
func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	images, err := s.service.ListImages(vehicleID)
	if err != nil {
		slog.Error("Error listing images", "vehicle_id", vehicleID, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if images == nil {
		images = []*vehicle.LinkedImage{}
	}
	writeJSON(w, http.StatusOK, images)
}

// handleGetImageFile returns the stored file for an image
func (s *Server) handleGetImageFile(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	imageID := r.PathValue("imageID")
	data, contentType, err := s.service.GetImageFile(vehicleID, imageID)
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handlePatchImage sets or clears an image's primary flag
func (s *Server) handlePatchImage(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")

	var req struct {
		ImageID string `json:"image_id"`
		Action  string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ImageID == "" {
		corsError(w, "Image ID required", http.StatusBadRequest)
		return
	}

	if err := s.service.SetPrimaryImage(vehicleID, req.ImageID, req.Action); err != nil {
		slog.Error("Error updating image", "vehicle_id", vehicleID, "image_id", req.ImageID, "error", err)
		corsJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleUploadPhoto handles a multipart photo/document upload
func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB."
		}
		corsJSONError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		corsJSONError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		corsJSONError(w, "File is too large. Maximum size is 50MB.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		corsJSONError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromExt(header.Filename)
	}

	image, err := s.service.UploadPhoto(vehicleID, header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error uploading photo", "filename", header.Filename, "error", err)
		corsJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, image)
}

// handleProcessPhoto acknowledges an extraction request and runs it in the
// background; the feed observes progress through the images endpoint.
func (s *Server) handleProcessPhoto(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")

	var req struct {
		ImageID  string `json:"image_id"`
		ImageURL string `json:"image_url,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ImageID == "" {
		corsError(w, "Image ID required", http.StatusBadRequest)
		return
	}

	image, err := s.service.BeginProcessing(vehicleID, req.ImageID)
	if err != nil {
		corsError(w, "Image not found", http.StatusNotFound)
		return
	}

	go func() {
		if _, err := s.service.CompleteProcessing(context.Background(), vehicleID, req.ImageID); err != nil {
			slog.Error("Processing failed", "vehicle_id", vehicleID, "image_id", req.ImageID, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, image)
}

// contentTypeFromExt guesses a content type for phone uploads that omit it
func contentTypeFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}
