// Package photo normalizes uploaded vehicle photos and documents to PNG so
// the rest of the pipeline only ever deals with one image format.
package photo

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// Prepare normalizes the MIME type and converts the upload to PNG. It
// returns the PNG bytes, the resulting MIME type (always "image/png"), and
// whether a conversion happened.
func Prepare(data []byte, contentType string) ([]byte, string, bool, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	switch {
	case mimeType == "application/pdf":
		pngData, err := renderPDF(data)
		if err != nil {
			return nil, "", false, fmt.Errorf("converting PDF: %w", err)
		}
		return pngData, "image/png", true, nil
	case mimeType == "image/png" && !isHEIC(data, mimeType):
		return data, "image/png", false, nil
	default:
		pngData, err := decodeToPNG(data, mimeType)
		if err != nil {
			return nil, "", false, fmt.Errorf("converting image: %w", err)
		}
		return pngData, "image/png", true, nil
	}
}

// renderPDF rasterizes the first page of a PDF. Fuel receipts and service
// invoices are effectively always single page.
func renderPDF(data []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return encodePNG(img)
}

// decodeToPNG decodes JPEG/PNG/GIF via the stdlib and HEIC/HEIF (the common
// iPhone format) via the pure-Go heic decoder, then re-encodes as PNG.
func decodeToPNG(data []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEIC(data, mimeType) {
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image (supported: JPEG, PNG, GIF, HEIC, PDF): %w", err)
		}
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEIC detects HEIC/HEIF either from the declared MIME type or from the
// ftyp box brand in the file header.
func isHEIC(data []byte, mimeType string) bool {
	if strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif") {
		return true
	}
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}
