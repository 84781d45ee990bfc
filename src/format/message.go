// Package format renders classification results into chat-ready text.
// Both the heuristic and research paths share the same report shape.
package format

import (
	"fmt"
	"strings"

	"github.com/entrepreno/entrepreno/src/heuristic"
	"github.com/entrepreno/entrepreno/src/profile"
	"github.com/entrepreno/entrepreno/src/research"
)

const (
	divider       = "━━━━━━━━━━━━━━━━━━━━━━"
	maxShownFlags = 3
)

// Research renders a research record as a report message.
func Research(rec research.Record) string {
	glyph := verdictGlyph(rec.Verdict)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n%s\n\n", glyph, rec.Name, divider)

	if rec.Headline != "" && rec.Headline != "Not found" {
		fmt.Fprintf(&b, "💼 %s\n\n", rec.Headline)
	}

	if rec.Score >= 0 {
		fmt.Fprintf(&b, "📊 Spam Score: %d%%\n%s\n\n", rec.Score, scoreBar(rec.Score))
	}

	fmt.Fprintf(&b, "%s %s\n%s\n", glyph, rec.Verdict, rec.Reason)

	writeFlags(&b, "🚩 Red flags:", rec.RedFlags)
	writeFlags(&b, "✅ Green flags:", rec.GreenFlags)

	switch {
	case rec.IsSpam():
		b.WriteString("\n⚠️ Recommend: Decline")
	case rec.Verdict == research.VerdictUnclear:
		b.WriteString("\n💭 Recommend: Review manually")
	case rec.IsLegit():
		b.WriteString("\n✅ Recommend: Safe to accept")
	}

	return b.String()
}

// Heuristic renders a local scoring result as a report message.
func Heuristic(rec profile.Record, res heuristic.Result) string {
	name := rec.Name
	if name == "" {
		name = "Pasted profile"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔎 %s\n%s\n\n", name, divider)
	if rec.Headline != "" {
		fmt.Fprintf(&b, "💼 %s\n\n", rec.Headline)
	}
	fmt.Fprintf(&b, "📊 Spam Score: %d%%\n%s\n\n", res.Score, scoreBar(res.Score))
	fmt.Fprintf(&b, "%s\n", heuristic.VerdictBand(res.Score))

	b.WriteString("\nIndicators:\n")
	for _, reason := range res.Reasons {
		fmt.Fprintf(&b, "  • %s\n", reason)
	}

	return strings.TrimRight(b.String(), "\n")
}

// scoreBar renders a 10-segment bar; each filled segment is 10 points.
func scoreBar(score int) string {
	filled := score / 10
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func writeFlags(b *strings.Builder, header string, flags []string) {
	if len(flags) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", header)
	for i, flag := range flags {
		if i == maxShownFlags {
			break
		}
		fmt.Fprintf(b, "  • %s\n", flag)
	}
}

func verdictGlyph(v research.Verdict) string {
	switch v {
	case research.VerdictSpam, research.VerdictLikelySpam:
		return "🔴"
	case research.VerdictUnclear:
		return "🟡"
	case research.VerdictLegit, research.VerdictLikelyLegit:
		return "🟢"
	default:
		return "⚪"
	}
}
