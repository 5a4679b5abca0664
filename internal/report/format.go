package report

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"fitcentive-growth-report/internal/dataset"
	"fitcentive-growth-report/internal/stats"
)

func money(value float64) string {
	whole := fmt.Sprintf("%.2f", value)
	intPart, frac, _ := strings.Cut(whole, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// titleWords turns "lose_weight" into "Lose Weight".
func titleWords(value string) string {
	words := strings.Fields(strings.ReplaceAll(value, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func countTotals(counts []dataset.Count) []stats.Total {
	out := make([]stats.Total, len(counts))
	for i, c := range counts {
		out[i] = stats.Total{Key: c.Label, Value: float64(c.Count)}
	}
	return out
}

func countOf(counts []dataset.Count, label string) float64 {
	for _, c := range counts {
		if strings.EqualFold(c.Label, label) {
			return float64(c.Count)
		}
	}
	return 0
}

func shortDays(dates []string) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = dataset.ShortDay(d)
	}
	return out
}

// splitWords breaks multi-word tick labels onto separate lines.
func splitWords(labels []string, sep string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ReplaceAll(l, sep, "\n")
	}
	return out
}

// truncate cuts value to at most n runes.
func truncate(value string, n int) string {
	runes := []rune(value)
	if len(runes) <= n {
		return value
	}
	return string(runes[:n])
}
