package timeline

type documentRenderer struct{}

func (documentRenderer) Title(ev CanonicalEvent) string {
	if d, ok := ev.Details.(DocumentDetails); ok && d.DocType != "unspecified" && d.DocType != "" {
		return Humanize(d.DocType)
	}
	return "Document"
}

func (documentRenderer) Subtitle(ev CanonicalEvent) string {
	return subtitle(ev)
}

func (r documentRenderer) CardData(ev CanonicalEvent) CardViewModel {
	card := CardViewModel{
		Title:    r.Title(ev),
		Subtitle: r.Subtitle(ev),
	}

	d, _ := ev.Details.(DocumentDetails)

	card.DataItems = append(card.DataItems, DataItem{Label: "Document type", Value: Humanize(d.DocType)})
	if d.Name != "" {
		card.DataItems = append(card.DataItems, DataItem{Label: "Name", Value: d.Name})
	}

	finishCard(&card, ev)
	return card
}
