package timeline

import "github.com/tbraack/garagelog/internal/vehicle"

// Renderer is the per-type rendering strategy. Implementations are pure
// functions of the event: no I/O, no mutation.
type Renderer interface {
	Title(ev CanonicalEvent) string
	Subtitle(ev CanonicalEvent) string
	CardData(ev CanonicalEvent) CardViewModel
}

// Registry maps canonical event types to renderers. Lookups are total: any
// type without an entry resolves to the generic fallback, never nil.
type Registry struct {
	renderers map[string]Renderer
	fallback  Renderer
}

// NewRegistry builds the registry with one strategy per known type and the
// generic renderer as fallback.
func NewRegistry() *Registry {
	return &Registry{
		renderers: map[string]Renderer{
			TypeFuel:     fuelRenderer{},
			TypeService:  serviceRenderer{},
			TypeTire:     tireRenderer{},
			TypeDamage:   damageRenderer{},
			TypeDocument: documentRenderer{},
			TypeOdometer: odometerRenderer{},
		},
		fallback: genericRenderer{},
	}
}

// Register installs or replaces the strategy for a type.
func (r *Registry) Register(eventType string, renderer Renderer) {
	r.renderers[eventType] = renderer
}

// Resolve returns the renderer for a type, falling back to the generic
// strategy for anything unknown.
func (r *Registry) Resolve(eventType string) Renderer {
	if renderer, ok := r.renderers[eventType]; ok {
		return renderer
	}
	return r.fallback
}

// Render normalizes a raw event and produces its card in one step. This is
// the function exposed to UI shells.
func (r *Registry) Render(raw vehicle.RawEvent) CardViewModel {
	ev := Normalize(raw)
	return r.Resolve(ev.Type).CardData(ev)
}
