package timeline

import "fmt"

// Safety thresholds: tread below 4/32" or pressure below 30 PSI flags the
// tire and emits the safety badge.
const (
	minSafeTread    = 4
	minSafePressure = 30
)

type tireRenderer struct{}

func (tireRenderer) Title(ev CanonicalEvent) string {
	if d, ok := ev.Details.(TireDetails); ok && d.Kind == "pressure" {
		return "Tire Pressure Check"
	}
	return "Tire Tread Check"
}

func (tireRenderer) Subtitle(ev CanonicalEvent) string {
	return subtitle(ev)
}

func (r tireRenderer) CardData(ev CanonicalEvent) CardViewModel {
	card := CardViewModel{
		Title:    r.Title(ev),
		Subtitle: r.Subtitle(ev),
	}

	d, _ := ev.Details.(TireDetails)

	unsafe := false
	for _, tire := range d.Tires {
		var value string
		var low bool
		if d.Kind == "pressure" {
			value = fmt.Sprintf("%s PSI", formatNumber(tire.Value))
			low = tire.Value < minSafePressure
		} else {
			value = fmt.Sprintf("%s/32\"", formatNumber(tire.Value))
			low = tire.Value < minSafeTread
		}
		card.DataItems = append(card.DataItems, DataItem{
			Label:     Humanize(tire.Position),
			Value:     value,
			Highlight: low,
		})
		unsafe = unsafe || low
	}
	if unsafe {
		card.Badges = append(card.Badges, Badge{Label: "Tire safety", Tone: ToneDanger})
	}

	finishCard(&card, ev)
	return card
}
