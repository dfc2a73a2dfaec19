package timeline

type odometerRenderer struct{}

func (odometerRenderer) Title(ev CanonicalEvent) string {
	return "Odometer Reading"
}

func (odometerRenderer) Subtitle(ev CanonicalEvent) string {
	return ev.DisplayDate()
}

func (r odometerRenderer) CardData(ev CanonicalEvent) CardViewModel {
	card := CardViewModel{
		Title:    r.Title(ev),
		Subtitle: r.Subtitle(ev),
	}

	d, _ := ev.Details.(OdometerDetails)
	if d.Reading != nil {
		card.HeroMetric = formatMiles(*d.Reading)
	}

	finishCard(&card, ev)
	return card
}
