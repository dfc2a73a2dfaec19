package timeline

import (
	"fmt"
	"strings"
)

// Humanize turns a machine tag like "tire_rotation" into "Tire Rotation".
func Humanize(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "Event"
	}
	parts := strings.FieldsFunc(tag, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func formatMoney(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	dot := strings.Index(s, ".")
	return "$" + groupThousands(s[:dot]) + s[dot:]
}

func formatMiles(miles float64) string {
	return groupThousands(fmt.Sprintf("%.0f", miles)) + " mi"
}

// formatNumber trims trailing zeros from a float for display (13.20 -> 13.2).
func formatNumber(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	if len(digits) <= 3 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// subtitle builds the standard "date · odometer" line under a card title.
func subtitle(ev CanonicalEvent) string {
	s := ev.DisplayDate()
	if ev.Miles != nil {
		s += " · " + formatMiles(*ev.Miles)
	}
	return s
}
