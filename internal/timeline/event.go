package timeline

import (
	"time"

	"github.com/tbraack/garagelog/internal/vehicle"
)

// Canonical event types. Raw "maintenance" events are remapped to TypeService
// during normalization; anything else keeps its raw tag.
const (
	TypeFuel     = "fuel"
	TypeService  = "service"
	TypeDocument = "document"
	TypeOdometer = "odometer"
	TypeTire     = "tire"
	TypeDamage   = "damage"
)

// CanonicalEvent is the normalized, type-stable projection of a RawEvent. It
// always carries an ID, a type, and a timestamp (valid or explicitly not);
// everything else is optional and safe to leave absent.
type CanonicalEvent struct {
	ID             string
	Type           string
	Timestamp      time.Time
	TimestampValid bool
	Miles          *float64
	Vendor         string
	TotalAmount    *float64
	Confidence     *float64
	RawPayload     map[string]any
	Image          *vehicle.LinkedImage
	Details        Details
}

// Details is the closed set of per-type payload shapes. Renderers match on
// these instead of probing the raw payload map.
type Details interface {
	isDetails()
}

// FuelDetails holds the fields extracted from a fuel fill-up event.
type FuelDetails struct {
	Station        string
	Gallons        *float64
	PricePerGallon *float64
	TotalAmount    *float64
	MPG            *float64
}

// ServiceDetails holds the fields extracted from a service/maintenance event.
type ServiceDetails struct {
	Kind             string
	Vendor           string
	TotalAmount      *float64
	NextServiceMiles *float64
}

// TireReading is one tire's measurement. Tread is in 32nds of an inch,
// pressure in PSI, depending on the parent's Kind.
type TireReading struct {
	Position string
	Value    float64
}

// TireDetails holds per-tire measurements. Kind is "tread" or "pressure".
type TireDetails struct {
	Kind  string
	Tires []TireReading
}

// DamageDetails holds the fields extracted from a damage report.
type DamageDetails struct {
	Severity    string
	Status      string
	Description string
	Location    string
}

// DocumentDetails holds the fields extracted from a document event.
type DocumentDetails struct {
	DocType string
	Name    string
}

// OdometerDetails holds a standalone odometer reading.
type OdometerDetails struct {
	Reading *float64
}

// GenericDetails carries the untouched payload for unrecognized event types.
type GenericDetails struct {
	Payload map[string]any
}

func (FuelDetails) isDetails()     {}
func (ServiceDetails) isDetails()  {}
func (TireDetails) isDetails()     {}
func (DamageDetails) isDetails()   {}
func (DocumentDetails) isDetails() {}
func (OdometerDetails) isDetails() {}
func (GenericDetails) isDetails()  {}

// DisplayDate returns the event date for display, or the unknown-date
// sentinel when the raw timestamp could not be parsed.
func (e CanonicalEvent) DisplayDate() string {
	if !e.TimestampValid {
		return unknownDate
	}
	return e.Timestamp.Format("Jan 2, 2006")
}

const unknownDate = "Unknown date"
