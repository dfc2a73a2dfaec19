package timeline

type serviceRenderer struct{}

func (serviceRenderer) Title(ev CanonicalEvent) string {
	if d, ok := ev.Details.(ServiceDetails); ok && d.Kind != "" {
		return Humanize(d.Kind)
	}
	return "Service"
}

func (serviceRenderer) Subtitle(ev CanonicalEvent) string {
	return subtitle(ev)
}

func (r serviceRenderer) CardData(ev CanonicalEvent) CardViewModel {
	card := CardViewModel{
		Title:    r.Title(ev),
		Subtitle: r.Subtitle(ev),
	}

	d, _ := ev.Details.(ServiceDetails)

	if d.TotalAmount != nil {
		card.HeroMetric = formatMoney(*d.TotalAmount)
	}
	if d.Vendor != "" {
		card.DataItems = append(card.DataItems, DataItem{Label: "Vendor", Value: d.Vendor})
	}
	if d.TotalAmount != nil {
		card.DataItems = append(card.DataItems, DataItem{Label: "Cost", Value: formatMoney(*d.TotalAmount)})
	}
	if d.NextServiceMiles != nil {
		item := DataItem{Label: "Next service due", Value: "at " + formatMiles(*d.NextServiceMiles)}
		if ev.Miles != nil {
			remaining := *d.NextServiceMiles - *ev.Miles
			if remaining < 0 {
				item.Value = formatMiles(-remaining) + " overdue"
				item.Highlight = true
				card.Badges = append(card.Badges, Badge{Label: "Service overdue", Tone: ToneWarning})
			} else {
				item.Value = "in " + formatMiles(remaining)
			}
		}
		card.DataItems = append(card.DataItems, item)
	}

	finishCard(&card, ev)
	return card
}
