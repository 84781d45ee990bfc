// Package heuristic scores a profile record for spam-entrepreneur signals
// without any network access. Scoring is deterministic: the same record
// always produces the same score and reasons.
package heuristic

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/entrepreno/entrepreno/src/profile"
)

// Keywords commonly found in spam profiles. Matched with word boundaries so
// "smma" does not fire inside unrelated words.
var spamKeywords = []string{
	"entrepreneur", "ceo", "founder", "startup", "coach", "mentor",
	"passive income", "financial freedom", "make money", "work from home",
	"business opportunity", "network marketing", "mlm", "crypto",
	"forex", "trading", "investment opportunity", "get rich",
	"life coach", "mindset coach", "success coach", "millionaire",
	"six figure", "6 figure", "seven figure", "7 figure",
	"dm me", "link in bio", "click link", "limited spots",
	"free training", "webinar", "masterclass", "scale your business",
	"real estate investor", "day trader", "drop shipping", "dropshipping",
	"affiliate marketing", "influencer", "social media marketing",
	"smma", "agency owner", "ecommerce", "e-commerce",
}

var redFlagPhrases = []string{
	"dm for details", "message me to learn", "ask me how",
	"changed my life", "quit my 9-5", "fired my boss",
	"be your own boss", "time freedom", "location freedom",
	"multiple income streams", "residual income", "recurring revenue",
	"proven system", "turnkey solution", "done for you",
}

var incomeKeywords = []string{
	"passive income", "multiple income", "residual income",
	"recurring revenue", "six figure", "seven figure", "6 figure", "7 figure",
}

var (
	successRe = regexp.MustCompile(`\b(success|wealth|money|cash|profit|income)\b`)
	guruRe    = regexp.MustCompile(`\b(digital|online|virtual)\s+(entrepreneur|expert|guru)\b`)
)

// Emoji codepoint ranges covering the common pictographic blocks.
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // symbols & pictographs
	{0x1F680, 0x1F6FF}, // transport & map symbols
	{0x1F1E0, 0x1F1FF}, // flags
	{0x2702, 0x27B0},
	{0x24C2, 0x1F251},
}

// Result is the outcome of scoring one profile. Reasons is never empty.
type Result struct {
	Score   int
	Reasons []string
}

// Score analyzes a profile and returns a spam confidence score in [0,100]
// with one reason per triggered rule. Missing fields are treated as empty.
func Score(rec profile.Record) Result {
	score := 0
	var reasons []string

	name := strings.ToLower(rec.Name)
	headline := strings.ToLower(rec.Headline)
	summary := strings.ToLower(rec.Summary)
	connections := rec.Connections

	fullText := name + " " + headline + " " + summary

	// Spam keywords in the headline are weighted higher than anywhere else.
	headlineHits := countWordMatches(headline, spamKeywords)
	switch {
	case headlineHits >= 3:
		score += 30
		reasons = append(reasons, fmt.Sprintf("Multiple spam keywords in headline (%d found)", headlineHits))
	case headlineHits >= 1:
		score += 15
		reasons = append(reasons, fmt.Sprintf("Spam keywords in headline (%d found)", headlineHits))
	}

	if flagHits := countWordMatches(fullText, redFlagPhrases); flagHits > 0 {
		score += flagHits * 15
		reasons = append(reasons, fmt.Sprintf("Red flag phrases detected (%d found)", flagHits))
	}

	emojiCount := countEmoji(rec.Headline)
	switch {
	case emojiCount >= 5:
		score += 20
		reasons = append(reasons, fmt.Sprintf("Excessive emojis in headline (%d found)", emojiCount))
	case emojiCount >= 3:
		score += 10
		reasons = append(reasons, fmt.Sprintf("Multiple emojis in headline (%d found)", emojiCount))
	}

	if rec.Headline != "" && isShouting(rec.Headline) && utf8.RuneCountInString(rec.Headline) > 10 {
		score += 15
		reasons = append(reasons, "Headline is all caps (shouting)")
	}

	if connections > 0 {
		if connections < 100 {
			score += 10
			reasons = append(reasons, fmt.Sprintf("Low connection count (%d)", connections))
		} else if connections > 5000 {
			score += 5
			reasons = append(reasons, fmt.Sprintf("Very high connection count (%d)", connections))
		}
	}

	if (strings.Contains(headline, "ceo") || strings.Contains(headline, "founder")) && connections < 200 {
		score += 15
		reasons = append(reasons, "Claims CEO/Founder title with low connections")
	}

	if successRe.MatchString(fullText) {
		score += 10
		reasons = append(reasons, "Money/success-related terms in name or profile")
	} else if guruRe.MatchString(fullText) {
		score += 10
		reasons = append(reasons, "Generic 'expert/guru' language detected")
	}

	incomeHits := countWordMatches(fullText, incomeKeywords)
	switch {
	case incomeHits >= 2:
		score += 20
		reasons = append(reasons, "Multiple income-related claims")
	case incomeHits >= 1:
		score += 10
		reasons = append(reasons, "Income-related claims detected")
	}

	if score > 100 {
		score = 100
	}
	if score == 0 {
		reasons = append(reasons, "No obvious spam indicators detected")
	}

	return Result{Score: score, Reasons: reasons}
}

// VerdictBand maps a score to the fixed display band. Other components rely
// on these five thresholds.
func VerdictBand(score int) string {
	switch {
	case score >= 80:
		return "🚨 HIGHLY LIKELY SPAM - Avoid at all costs!"
	case score >= 60:
		return "⚠️ LIKELY SPAM - Proceed with extreme caution"
	case score >= 40:
		return "🤔 SUSPICIOUS - Could be spam, be careful"
	case score >= 20:
		return "😐 SOMEWHAT SUSPICIOUS - Minor red flags"
	default:
		return "✅ PROBABLY LEGITIMATE - Looks okay"
	}
}

var phraseRes = map[string]*regexp.Regexp{}

func init() {
	all := make([]string, 0, len(spamKeywords)+len(redFlagPhrases)+len(incomeKeywords))
	all = append(all, spamKeywords...)
	all = append(all, redFlagPhrases...)
	all = append(all, incomeKeywords...)
	for _, p := range all {
		if _, ok := phraseRes[p]; !ok {
			phraseRes[p] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
		}
	}
}

// countWordMatches counts how many of the given phrases appear in text as
// whole words. Each phrase counts at most once.
func countWordMatches(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if phraseRes[p].MatchString(text) {
			n++
		}
	}
	return n
}

func countEmoji(text string) int {
	n := 0
	for _, r := range text {
		for _, rng := range emojiRanges {
			if r >= rng[0] && r <= rng[1] {
				n++
				break
			}
		}
	}
	return n
}

// isShouting reports whether the text is entirely uppercase, considering
// only letters.
func isShouting(text string) bool {
	hasLetter := false
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
