package timeline

import "fmt"

// exceptionalMPG is the threshold at or above which a fill-up gets the
// efficiency highlight and badge.
const exceptionalMPG = 30

type fuelRenderer struct{}

func (fuelRenderer) Title(ev CanonicalEvent) string {
	return "Fuel Fill-Up"
}

func (fuelRenderer) Subtitle(ev CanonicalEvent) string {
	return subtitle(ev)
}

func (r fuelRenderer) CardData(ev CanonicalEvent) CardViewModel {
	card := CardViewModel{
		Title:    r.Title(ev),
		Subtitle: r.Subtitle(ev),
	}

	d, _ := ev.Details.(FuelDetails)

	if d.TotalAmount != nil {
		card.HeroMetric = formatMoney(*d.TotalAmount)
	}
	if d.Gallons != nil {
		price := d.PricePerGallon
		if price == nil && d.TotalAmount != nil && *d.Gallons > 0 {
			p := *d.TotalAmount / *d.Gallons
			price = &p
		}
		if price != nil {
			card.HeroNote = fmt.Sprintf("%s gal @ $%.2f/gal", formatNumber(*d.Gallons), *price)
		} else {
			card.HeroNote = formatNumber(*d.Gallons) + " gal"
		}
	}

	if d.Station != "" {
		card.DataItems = append(card.DataItems, DataItem{Label: "Station", Value: d.Station})
	}
	if d.Gallons != nil {
		card.DataItems = append(card.DataItems, DataItem{Label: "Gallons", Value: formatNumber(*d.Gallons) + " gal"})
	}
	if d.PricePerGallon != nil {
		card.DataItems = append(card.DataItems, DataItem{Label: "Price", Value: fmt.Sprintf("$%.2f/gal", *d.PricePerGallon)})
	}
	if d.MPG != nil {
		exceptional := *d.MPG >= exceptionalMPG
		card.DataItems = append(card.DataItems, DataItem{
			Label:     "Efficiency",
			Value:     formatNumber(*d.MPG) + " MPG",
			Highlight: exceptional,
		})
		if exceptional {
			card.Badges = append(card.Badges, Badge{Label: "Exceptional efficiency", Tone: ToneSuccess})
		}
	}

	finishCard(&card, ev)
	return card
}
