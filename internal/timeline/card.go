package timeline

// DataItem is one labeled row on an event card. Display order is array
// order; labels are not required to be unique across renderers.
type DataItem struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Highlight bool   `json:"highlight,omitempty"`
}

// Badge tones map to the UI accent palette.
const (
	ToneSuccess = "success"
	ToneWarning = "warning"
	ToneDanger  = "danger"
	ToneInfo    = "info"
)

// Badge is a short status chip on a card.
type Badge struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

// AISummary is the extraction service's free-text summary for an event.
type AISummary struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// CardViewModel is the fully-resolved, display-ready representation of one
// event. It is produced fresh per render and owned by the caller; nothing in
// this package retains or mutates one after returning it.
type CardViewModel struct {
	Title      string     `json:"title"`
	Subtitle   string     `json:"subtitle,omitempty"`
	HeroMetric string     `json:"hero_metric,omitempty"`
	HeroNote   string     `json:"hero_note,omitempty"`
	Accent     string     `json:"accent,omitempty"`
	Layout     LayoutMode `json:"layout,omitempty"`
	DataItems  []DataItem `json:"data_items"`
	Badges     []Badge    `json:"badges"`
	AISummary  *AISummary `json:"ai_summary,omitempty"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// finishCard applies the cross-cutting pieces every renderer shares: the AI
// summary block and the unknown-date warning.
func finishCard(card *CardViewModel, ev CanonicalEvent) {
	if card.DataItems == nil {
		card.DataItems = []DataItem{}
	}
	if card.Badges == nil {
		card.Badges = []Badge{}
	}
	if text := stringField(ev.RawPayload, "ai_summary"); text != "" {
		card.AISummary = &AISummary{Text: text, Confidence: ev.Confidence}
	}
	if !ev.TimestampValid {
		card.Warnings = append(card.Warnings, unknownDate)
	}
}
