package research

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/entrepreno/entrepreno/src/profile"
)

const (
	maxFlags      = 5
	maxFlagLen    = 100
	maxSentences  = 3
	defaultScore  = 50
	defaultReason = "Could not parse response"
)

// Labels the analyzer is instructed to emit. Field values run from a label
// to the next recognized label or end of text, so values may span lines.
var labelRe = regexp.MustCompile(`(?:\*\*|__)?(VERDICT|SCORE|HEADLINE|REASON|RED FLAGS|GREEN FLAGS)(?:\*\*|__)?\s*:`)

var notFoundPhrases = []string{
	"not found", "could not locate", "cannot locate",
	"unable to locate", "unable to find",
}

// Parse turns raw analyzer output into a Record. It never fails: anything it
// cannot extract keeps its default value. fallbackName is used as the subject
// name since the analyzer is not asked to echo it back.
func Parse(raw string, fallbackName string) Record {
	rec := Record{
		Name:     fallbackName,
		Verdict:  VerdictUnclear,
		Score:    defaultScore,
		Headline: "Not found",
		Reason:   defaultReason,
		Raw:      raw,
	}

	if strings.TrimSpace(raw) == "" {
		return rec
	}

	for label, value := range extractFields(raw) {
		switch label {
		case "VERDICT":
			if v, ok := normalizeVerdict(value); ok {
				rec.Verdict = v
			}
		case "SCORE":
			if n, err := strconv.Atoi(firstToken(value)); err == nil {
				rec.Score = clampScore(n)
			}
		case "HEADLINE":
			if value != "" {
				rec.Headline = value
			}
		case "REASON":
			if value != "" {
				rec.Reason = capSentences(value, maxSentences)
			}
		case "RED FLAGS":
			rec.RedFlags = parseFlags(value)
		case "GREEN FLAGS":
			rec.GreenFlags = parseFlags(value)
		}
	}

	// Score -1 is reserved for failed analyses; the two fields move together.
	if rec.Verdict == VerdictError {
		rec.Score = -1
	}

	return rec
}

// NotFound reports whether a research result means the search itself failed.
// Deliberately narrow: an UNCLEAR verdict with a substantive reason does not
// count, only explicit not-found language or the error score does.
func NotFound(rec Record) bool {
	if rec.Score == -1 {
		return true
	}
	if rec.Verdict != VerdictUnclear && rec.Verdict != VerdictError {
		return false
	}
	reason := strings.ToLower(rec.Reason)
	for _, phrase := range notFoundPhrases {
		if strings.Contains(reason, phrase) {
			return true
		}
	}
	return false
}

// extractFields locates each label in the text and captures its value up to
// the next label. The first occurrence of a label wins.
func extractFields(raw string) map[string]string {
	matches := labelRe.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i][0] < matches[j][0] })

	fields := make(map[string]string, 6)
	for i, m := range matches {
		label := raw[m[2]:m[3]]
		if _, seen := fields[label]; seen {
			continue
		}
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		fields[label] = cleanValue(raw[m[1]:end])
	}
	return fields
}

var (
	bulletRe   = regexp.MustCompile(`^\s*(?:[-•*+]|\d+[.)])\s+`)
	emphasisRe = regexp.MustCompile("\\*{1,3}|__|`")
)

// cleanValue normalizes an extracted field value: markdown emphasis is
// stripped, bulleted sub-lines become comma-joined fragments, and whitespace
// runs collapse to single spaces.
func cleanValue(value string) string {
	lines := strings.Split(value, "\n")
	var parts []string
	for _, line := range lines {
		wasBullet := bulletRe.MatchString(line)
		line = bulletRe.ReplaceAllString(line, "")
		line = emphasisRe.ReplaceAllString(line, "")
		line = profile.CleanText(line)
		if line == "" {
			continue
		}
		if wasBullet && len(parts) > 0 {
			parts[len(parts)-1] += ", " + line
		} else {
			parts = append(parts, line)
		}
	}
	return profile.CleanText(strings.Join(parts, " "))
}

func normalizeVerdict(value string) (Verdict, bool) {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.Trim(v, "[]")
	v = strings.ReplaceAll(v, "_", " ")
	v = profile.CleanText(v)
	switch Verdict(v) {
	case VerdictSpam, VerdictLikelySpam, VerdictUnclear, VerdictLikelyLegit, VerdictLegit, VerdictError:
		return Verdict(v), true
	}
	return "", false
}

func parseFlags(value string) []string {
	var flags []string
	for _, f := range strings.Split(value, ",") {
		f = strings.TrimSpace(f)
		if f == "" || strings.EqualFold(f, "none") {
			continue
		}
		flags = append(flags, profile.Truncate(f, maxFlagLen))
		if len(flags) == maxFlags {
			break
		}
	}
	return flags
}

var sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)

// capSentences keeps at most n sentences so a verbose analyzer cannot blow
// up message length.
func capSentences(text string, n int) string {
	ends := sentenceEndRe.FindAllStringIndex(text, -1)
	if len(ends) < n {
		return text
	}
	return strings.TrimSpace(text[:ends[n-1][1]])
}

func firstToken(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimSuffix(fields[0], "%")
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
