package timeline

import (
	"fmt"
	"sort"
	"strconv"
)

// genericRowExclusions are payload keys never auto-extracted into data rows.
// They are either rendered elsewhere on the card or too long for a row.
var genericRowExclusions = map[string]bool{
	"title":       true,
	"description": true,
	"location":    true,
	"cost":        true,
	"ai_summary":  true,
}

const (
	genericRowCap        = 10
	genericCompactCutoff = 5
)

// genericRenderer is the mandatory fallback: it renders any event type by
// humanizing the tag and auto-extracting payload keys.
type genericRenderer struct{}

func (genericRenderer) Title(ev CanonicalEvent) string {
	if title := stringField(ev.RawPayload, "title"); title != "" {
		return title
	}
	return Humanize(ev.Type)
}

func (genericRenderer) Subtitle(ev CanonicalEvent) string {
	return subtitle(ev)
}

func (r genericRenderer) CardData(ev CanonicalEvent) CardViewModel {
	card := CardViewModel{
		Title:    r.Title(ev),
		Subtitle: r.Subtitle(ev),
	}

	payload := ev.RawPayload
	if d, ok := ev.Details.(GenericDetails); ok && d.Payload != nil {
		payload = d.Payload
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		if !genericRowExclusions[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if len(keys) > genericRowCap {
		keys = keys[:genericRowCap]
	}
	for _, key := range keys {
		card.DataItems = append(card.DataItems, DataItem{
			Label: Humanize(key),
			Value: displayValue(payload[key]),
		})
	}
	if len(card.DataItems) > genericCompactCutoff {
		card.Layout = LayoutList
	}

	finishCard(&card, ev)
	return card
}

// displayValue renders an arbitrary payload value as a row value.
func displayValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return formatNumber(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "-"
	default:
		return fmt.Sprintf("%v", val)
	}
}
