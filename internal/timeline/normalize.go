package timeline

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tbraack/garagelog/internal/vehicle"
)

// timestampFormats are tried in order when parsing an event date.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// Normalize converts a raw persisted event into a CanonicalEvent. It is a
// pure function and never fails: missing or malformed fields become absent
// fields or sentinels, never errors.
func Normalize(raw vehicle.RawEvent) CanonicalEvent {
	ev := CanonicalEvent{
		ID:         raw.ID,
		Type:       raw.Type,
		Miles:      raw.Miles,
		Confidence: raw.Confidence,
		RawPayload: raw.Payload,
		Image:      raw.Image,
	}
	ev.Timestamp, ev.TimestampValid = parseTimestamp(raw.OccurredAt)

	switch raw.Type {
	case "fuel":
		d := FuelDetails{
			Station:        stringField(raw.Payload, "station"),
			Gallons:        floatField(raw.Payload, "gallons"),
			PricePerGallon: floatField(raw.Payload, "price_per_gallon"),
			TotalAmount:    floatField(raw.Payload, "total_amount"),
			MPG:            floatField(raw.Payload, "mpg"),
		}
		ev.Vendor = d.Station
		ev.TotalAmount = d.TotalAmount
		ev.Details = d
	case "maintenance", "service":
		ev.Type = TypeService
		d := ServiceDetails{
			Kind:             stringField(raw.Payload, "service_type", "kind"),
			Vendor:           stringField(raw.Payload, "vendor", "shop_name"),
			TotalAmount:      floatField(raw.Payload, "total_amount"),
			NextServiceMiles: floatField(raw.Payload, "next_service_miles"),
		}
		ev.Vendor = d.Vendor
		ev.TotalAmount = d.TotalAmount
		ev.Details = d
	case "document":
		docType := stringField(raw.Payload, "document_type", "doc_type")
		if docType == "" {
			docType = "unspecified"
		}
		ev.Details = DocumentDetails{
			DocType: docType,
			Name:    stringField(raw.Payload, "name", "title"),
		}
	case "tire", "tire_tread", "tire_pressure":
		ev.Type = TypeTire
		ev.Details = normalizeTires(raw.Type, raw.Payload)
	case "damage":
		ev.Details = DamageDetails{
			Severity:    strings.ToLower(stringField(raw.Payload, "severity")),
			Status:      strings.ToLower(stringField(raw.Payload, "status")),
			Description: stringField(raw.Payload, "description"),
			Location:    stringField(raw.Payload, "location"),
		}
	case "odometer":
		reading := floatField(raw.Payload, "reading", "miles")
		if reading == nil {
			reading = raw.Miles
		}
		ev.Details = OdometerDetails{Reading: reading}
	default:
		ev.Details = GenericDetails{Payload: raw.Payload}
	}

	return ev
}

// parseTimestamp tries the known date formats. A zero time with valid=false
// is the explicit "unknown date" sentinel; callers must not treat it as an
// actual instant.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// tirePositions is the display order for the usual four corners. Anything
// else sorts alphabetically after them.
var tirePositions = []string{"front_left", "front_right", "rear_left", "rear_right"}

func normalizeTires(rawType string, payload map[string]any) TireDetails {
	kind := strings.ToLower(stringField(payload, "kind", "measurement"))
	switch rawType {
	case "tire_tread":
		kind = "tread"
	case "tire_pressure":
		kind = "pressure"
	}
	if kind == "" {
		kind = "tread"
	}

	readings := map[string]float64{}
	if tires, ok := payload["tires"].(map[string]any); ok {
		for pos, v := range tires {
			if f := toFloat(v); f != nil {
				readings[pos] = *f
			}
		}
	} else {
		for _, pos := range tirePositions {
			if f := floatField(payload, pos); f != nil {
				readings[pos] = *f
			}
		}
	}

	d := TireDetails{Kind: kind}
	seen := map[string]bool{}
	for _, pos := range tirePositions {
		if v, ok := readings[pos]; ok {
			d.Tires = append(d.Tires, TireReading{Position: pos, Value: v})
			seen[pos] = true
		}
	}
	var rest []string
	for pos := range readings {
		if !seen[pos] {
			rest = append(rest, pos)
		}
	}
	sort.Strings(rest)
	for _, pos := range rest {
		d.Tires = append(d.Tires, TireReading{Position: pos, Value: readings[pos]})
	}
	return d
}

// stringField returns the first non-empty string value among keys.
func stringField(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := payload[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// floatField returns the first numeric value among keys, tolerating numbers
// that arrive as strings or json.Number.
func floatField(payload map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		if v, ok := payload[key]; ok {
			if f := toFloat(v); f != nil {
				return f
			}
		}
	}
	return nil
}

func toFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		f := n
		return &f
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		cleaned = strings.TrimPrefix(cleaned, "$")
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return &f
		}
	}
	return nil
}
