package timeline

import "strings"

type damageRenderer struct{}

func (damageRenderer) Title(ev CanonicalEvent) string {
	return "Damage Report"
}

func (damageRenderer) Subtitle(ev CanonicalEvent) string {
	return subtitle(ev)
}

// severeDamage reports whether a severity warrants the immediate-attention
// treatment.
func severeDamage(severity string) bool {
	return severity == "severe" || severity == "critical"
}

func repairComplete(status string) bool {
	return status == "repaired" || strings.Contains(status, "complete")
}

func (r damageRenderer) CardData(ev CanonicalEvent) CardViewModel {
	card := CardViewModel{
		Title:    r.Title(ev),
		Subtitle: r.Subtitle(ev),
	}

	d, _ := ev.Details.(DamageDetails)

	if d.Severity != "" {
		card.DataItems = append(card.DataItems, DataItem{
			Label:     "Severity",
			Value:     Humanize(d.Severity),
			Highlight: severeDamage(d.Severity),
		})
	}
	if d.Status != "" {
		card.DataItems = append(card.DataItems, DataItem{Label: "Status", Value: Humanize(d.Status)})
	}
	if d.Location != "" {
		card.DataItems = append(card.DataItems, DataItem{Label: "Location", Value: d.Location})
	}
	if d.Description != "" {
		card.DataItems = append(card.DataItems, DataItem{Label: "Description", Value: d.Description})
	}

	if severeDamage(d.Severity) {
		card.Accent = ToneDanger
		card.Badges = append(card.Badges, Badge{Label: "Immediate attention", Tone: ToneDanger})
	}
	if repairComplete(d.Status) {
		card.Badges = append(card.Badges, Badge{Label: "Repair completed", Tone: ToneSuccess})
	}

	finishCard(&card, ev)
	return card
}
