// Package profile holds the profile record extracted from pasted text or
// connection-request emails, plus the shared text helpers used to build it.
package profile

import (
	"regexp"
	"strconv"
	"strings"
)

// Record describes a person regardless of where the data came from.
type Record struct {
	Name        string
	Headline    string
	Summary     string
	Connections int
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	numberRe     = regexp.MustCompile(`(\d[\d,]*)`)
)

// CleanText strips leading/trailing space and collapses internal whitespace
// runs (including newlines) to single spaces.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
}

// ExtractNumber pulls the first integer out of a string, ignoring thousands
// separators. "500+ connections" -> 500. Returns 0, false when no digits.
func ExtractNumber(text string) (int, bool) {
	m := numberRe.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Truncate cuts text to maxLen characters, appending an ellipsis when it had
// to cut.
func Truncate(text string, maxLen int) string {
	if text == "" {
		return ""
	}
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}

// Characters that never appear in a person's name but show up constantly in
// headlines, URLs and handles.
var nameDisqualifiers = []string{"|", "@", "$", "http", "#"}

// IsLikelyName reports whether text looks like a person's name: 2-4
// space-separated tokens, each starting with an uppercase letter, none of the
// disqualifying characters.
func IsLikelyName(text string) bool {
	if text == "" {
		return false
	}
	for _, bad := range nameDisqualifiers {
		if strings.Contains(text, bad) {
			return false
		}
	}
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		r := []rune(w)[0]
		if r < 'A' || r > 'Z' {
			// Non-ASCII initials are rare in the emails we see; keep the
			// check strict so headlines don't get mistaken for names.
			if !isUpperLetter(r) {
				return false
			}
		}
	}
	return true
}

func isUpperLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'À' && r <= 'Þ' && r != '×')
}

// ParseText builds a Record from manually pasted profile text. The first
// non-empty line is the name, the next the headline, any line mentioning
// "connection" supplies the count, everything else becomes the summary.
// Garbage input yields a mostly empty Record rather than an error.
func ParseText(text string) Record {
	var rec Record

	lines := strings.Split(strings.TrimSpace(text), "\n")
	var rest []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case rec.Name == "":
			rec.Name = line
		case rec.Headline == "":
			rec.Headline = line
		case strings.Contains(strings.ToLower(line), "connection"):
			if n, ok := ExtractNumber(line); ok {
				rec.Connections = n
			}
		default:
			rest = append(rest, line)
		}
	}

	// A single pasted line is a headline, not a name.
	if rec.Name != "" && rec.Headline == "" && len(rest) == 0 && !IsLikelyName(rec.Name) {
		rec.Headline = rec.Name
		rec.Name = ""
	}

	rec.Summary = strings.Join(rest, " ")
	return rec
}
