package research

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/entrepreno/entrepreno/src/ai/core"
	"github.com/entrepreno/entrepreno/src/profile"
)

const systemPrompt = `You are an assistant that helps determine whether a LinkedIn connection request
is from a spammy entrepreneur or a legitimate professional.

When given a person's name, you will:
1. Search for their LinkedIn profile
2. Look at their headline, bio, job history, and any posts
3. Identify red flags like: MLM/network marketing, "financial freedom", "DM me",
   passive income claims, life/business coaching with no real credentials,
   cryptocurrency/forex trading, dropshipping, "quit my 9-5" type messaging,
   excessive emojis, vague titles like "CEO | Entrepreneur | Visionary"
4. Also look for green flags: real job title at a real company, technical skills,
   education, specific accomplishments

Base your verdict only on what their profile and public content say. The fact
that they sent a connection request is not evidence of spam and must not be
counted against them. Reach a decisive verdict even if information is partial.

Respond in this exact format:
VERDICT: [SPAM / LIKELY SPAM / UNCLEAR / LIKELY LEGIT / LEGIT]
SCORE: [0-100 where 100 is definitely spam]
HEADLINE: [their headline if found, or "Not found"]
REASON: [2-3 sentences explaining your verdict]
RED FLAGS: [comma separated list, or "None"]
GREEN FLAGS: [comma separated list, or "None"]

Be direct and concise. Do not add anything outside this format.`

const (
	rateLimitAttempts = 3
	defaultRetryUnit  = 15 * time.Second
	maxErrorLen       = 100
)

// Researcher runs the search-and-classify flow against a generation provider.
// It never returns an error to callers: every failure mode degrades to an
// ERROR record so nothing above the pipeline has to handle provider
// exceptions.
type Researcher struct {
	client core.Client
	opts   core.Options

	// retryUnit is the linear backoff unit between rate-limited attempts.
	// Overridable in tests.
	retryUnit time.Duration
}

// NewResearcher wraps a generation provider client.
func NewResearcher(client core.Client, opts core.Options) *Researcher {
	opts.EnableWebSearch = true
	return &Researcher{
		client:    client,
		opts:      opts,
		retryUnit: defaultRetryUnit,
	}
}

// Research looks a person up by name, with optional extra context from the
// connection-request email (typically their headline or company).
func (r *Researcher) Research(ctx context.Context, name string, extraInfo string) Record {
	var b strings.Builder
	b.WriteString("Research this person and tell me if their LinkedIn connection request is spam:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", name)
	if extraInfo != "" {
		fmt.Fprintf(&b, "Additional info: %s\n", extraInfo)
	}
	b.WriteString("\nSearch for their LinkedIn profile and analyze it.")

	return r.run(ctx, name, b.String())
}

// ResearchURL analyzes a profile by its URL, deriving a display name from
// the URL slug since none was supplied.
func (r *Researcher) ResearchURL(ctx context.Context, url string) Record {
	name := DisplayNameFromURL(url)

	prompt := fmt.Sprintf(
		"Fetch and analyze this LinkedIn profile, then tell me if a connection request from this person is spam:\n\nProfile URL: %s",
		url,
	)
	return r.run(ctx, name, prompt)
}

func (r *Researcher) run(ctx context.Context, name string, prompt string) Record {
	text, err := retry.DoWithData(
		func() (string, error) {
			return r.client.Generate(ctx, systemPrompt, prompt, r.opts)
		},
		retry.Context(ctx),
		retry.Attempts(rateLimitAttempts),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			// Attempt n waits n backoff units before the next try.
			return time.Duration(n+1) * r.retryUnit
		}),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, core.ErrRateLimited)
		}),
		retry.LastErrorOnly(true),
	)

	switch {
	case err == nil:
		return Parse(text, name)
	case errors.Is(err, core.ErrRateLimited):
		log.Printf("research: rate limit exhausted for %q", name)
		return errorRecord(name, "Rate limit reached, try again in a moment")
	case errors.Is(err, core.ErrConnection):
		log.Printf("research: connection failure for %q: %v", name, err)
		return errorRecord(name, "Could not connect to the analysis service")
	case errors.Is(err, core.ErrEmpty):
		log.Printf("research: empty response for %q", name)
		return errorRecord(name, "No analysis returned")
	default:
		log.Printf("research: analysis error for %q: %v", name, err)
		return errorRecord(name, profile.Truncate(err.Error(), maxErrorLen))
	}
}

func errorRecord(name string, reason string) Record {
	return Record{
		Name:     name,
		Verdict:  VerdictError,
		Score:    -1,
		Headline: "Not found",
		Reason:   "Analysis failed: " + reason,
	}
}

// DisplayNameFromURL turns a profile URL slug into a readable name:
// "https://linkedin.com/in/john-doe-123" -> "John Doe".
func DisplayNameFromURL(url string) string {
	const marker = "linkedin.com/in/"
	idx := strings.Index(strings.ToLower(url), marker)
	if idx < 0 {
		return "Profile"
	}
	slug := url[idx+len(marker):]
	if cut := strings.IndexAny(slug, "/?#"); cut >= 0 {
		slug = slug[:cut]
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "Profile"
	}

	parts := strings.Split(slug, "-")
	var words []string
	for _, p := range parts {
		// Hash suffixes like "1a2b3c" carry digits; real name segments don't.
		if p == "" || hasDigit(p) {
			continue
		}
		runes := []rune(strings.ToLower(p))
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] = runes[0] - 'a' + 'A'
		}
		words = append(words, string(runes))
	}
	if len(words) == 0 {
		return "Profile"
	}
	return strings.Join(words, " ")
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
