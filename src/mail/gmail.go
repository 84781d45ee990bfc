// Package mail reads LinkedIn "new connection request" notification emails
// out of a Gmail mailbox and extracts the requester's name for research.
package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/entrepreno/entrepreno/src/webclient"
)

const gmailEndpoint = "https://gmail.googleapis.com/gmail/v1/users/me"

// LinkedIn sends connection requests from this address.
const linkedInQuery = `from:invitations@linkedin.com (subject:"I want to connect" OR subject:"You have an invitation")`

// ErrNotConfigured means no Gmail credential is available. Callers surface
// setup instructions instead of an error dump.
var ErrNotConfigured = errors.New("mail: gmail access token not configured")

// Candidate is one person extracted from a connection-request email.
type Candidate struct {
	Name      string
	ExtraInfo string
	Subject   string
	MessageID string
}

// Client fetches candidates from Gmail.
type Client struct {
	token      string
	httpClient *http.Client
	sanitizer  *bluemonday.Policy
}

// NewClient builds a Gmail client. token may be empty; every fetch then
// fails with ErrNotConfigured.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		httpClient: webclient.NewDefault(30 * time.Second),
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// FetchCandidates returns up to limit people who recently sent LinkedIn
// connection requests, newest first. Unparseable emails are skipped.
func (c *Client) FetchCandidates(ctx context.Context, limit int) ([]Candidate, error) {
	if c.token == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}

	ids, err := c.listMessages(ctx, limit)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, id := range ids {
		cand, err := c.fetchCandidate(ctx, id)
		if err != nil {
			log.Printf("mail: failed to parse email %s: %v", id, err)
			continue
		}
		if cand != nil {
			candidates = append(candidates, *cand)
		}
	}
	return candidates, nil
}

func (c *Client) listMessages(ctx context.Context, limit int) ([]string, error) {
	q := url.Values{}
	q.Set("q", linkedInQuery)
	q.Set("maxResults", fmt.Sprint(limit))

	body, err := c.get(ctx, gmailEndpoint+"/messages?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var result struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("mail: decode message list: %w", err)
	}

	ids := make([]string, 0, len(result.Messages))
	for _, m := range result.Messages {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

type messagePart struct {
	MimeType string `json:"mimeType"`
	Body     struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []messagePart `json:"parts"`
}

func (c *Client) fetchCandidate(ctx context.Context, id string) (*Candidate, error) {
	body, err := c.get(ctx, gmailEndpoint+"/messages/"+id+"?format=full")
	if err != nil {
		return nil, err
	}

	var msg struct {
		Payload struct {
			Headers []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"headers"`
			messagePart
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("mail: decode message: %w", err)
	}

	var subject, from string
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "Subject":
			subject = h.Value
		case "From":
			from = h.Value
		}
	}

	text := c.extractBody(msg.Payload.messagePart)

	name := nameFromHeader(from)
	if name == "" {
		name = ExtractName(subject, text)
	}
	if name == "" {
		return nil, nil
	}

	return &Candidate{
		Name:      name,
		ExtraInfo: ExtractExtraInfo(text),
		Subject:   subject,
		MessageID: id,
	}, nil
}

// extractBody recursively collects readable text from a MIME tree. HTML-only
// emails are stripped down to text.
func (c *Client) extractBody(part messagePart) string {
	var b strings.Builder
	c.walkParts(part, &b, "text/plain")
	if b.Len() == 0 {
		var html strings.Builder
		c.walkParts(part, &html, "text/html")
		return c.sanitizer.Sanitize(html.String())
	}
	return b.String()
}

func (c *Client) walkParts(part messagePart, b *strings.Builder, mimeType string) {
	if part.MimeType == mimeType && part.Body.Data != "" {
		if data, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(part.Body.Data); err == nil {
			b.Write(data)
		}
	}
	for _, p := range part.Parts {
		c.walkParts(p, b, mimeType)
	}
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	_, body, err := webclient.DoWithRetry(ctx, 3, time.Second, func() (int, []byte, error) {
		return webclient.GetJSON(ctx, c.httpClient, rawURL, map[string]string{
			"Authorization": "Bearer " + c.token,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("mail: gmail request failed: %w", err)
	}
	return body, nil
}

var fromNameRe = regexp.MustCompile(`^"?(.+?)"?\s*<`)

// nameFromHeader pulls the display name out of a From header:
// `"Jane Doe via LinkedIn" <invitations@linkedin.com>` -> "Jane Doe".
func nameFromHeader(from string) string {
	m := fromNameRe.FindStringSubmatch(from)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(m[1])
	name = strings.TrimSuffix(name, " via LinkedIn")
	return strings.TrimSpace(name)
}

var subjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(.+?)\s+wants to connect`),
	regexp.MustCompile(`(?i)^(.+?)\s+invited you to connect`),
	regexp.MustCompile(`(?i)^(.+?)\s+has accepted`),
	regexp.MustCompile(`(?i)^(.+?)\s+accepted your`),
}

var bodyNameRe = regexp.MustCompile(`([A-Z][a-z]+(?:\s[A-Z][a-z]+)+)\s+wants to connect`)

// ExtractName finds the requester's name in the email subject, falling back
// to the body.
func ExtractName(subject string, body string) string {
	for _, re := range subjectPatterns {
		if m := re.FindStringSubmatch(subject); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	if m := bodyNameRe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExtractExtraInfo tries to pull the person's headline out of the email
// body. LinkedIn sometimes includes it under the person's name.
func ExtractExtraInfo(body string) string {
	if body == "" {
		return ""
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if len(line) >= 20 && len(line) <= 120 &&
			!strings.Contains(lower, "http") &&
			!strings.Contains(lower, "unsubscribe") &&
			!strings.Contains(lower, "linkedin.com") &&
			!strings.Contains(line, "@") &&
			(strings.Contains(line, "|") || strings.Contains(lower, " at ")) {
			return line
		}
	}
	return ""
}
