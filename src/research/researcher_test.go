package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/entrepreno/entrepreno/src/ai/core"
)

// fakeClient returns a scripted sequence of responses, one per Generate call.
type fakeClient struct {
	calls   int
	prompts []string
	script  []func() (string, error)
}

func (f *fakeClient) Generate(_ context.Context, _ string, prompt string, _ core.Options) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++
	if i >= len(f.script) {
		return "", fmt.Errorf("unexpected call %d", i)
	}
	return f.script[i]()
}

func ok(text string) func() (string, error) {
	return func() (string, error) { return text, nil }
}

func fail(err error) func() (string, error) {
	return func() (string, error) { return "", err }
}

func newTestResearcher(c core.Client) *Researcher {
	r := NewResearcher(c, core.Options{})
	r.retryUnit = time.Millisecond
	return r
}

func TestResearchSuccess(t *testing.T) {
	client := &fakeClient{script: []func() (string, error){
		ok("VERDICT: LEGIT\nSCORE: 5\nHEADLINE: Staff Engineer at Stripe\nREASON: Real work history.\nRED FLAGS: None\nGREEN FLAGS: real employer"),
	}}
	r := newTestResearcher(client)

	rec := r.Research(context.Background(), "Alice Johnson", "Stripe")

	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
	if rec.Name != "Alice Johnson" || rec.Verdict != VerdictLegit || rec.Score != 5 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !strings.Contains(client.prompts[0], "Name: Alice Johnson") {
		t.Errorf("prompt missing name: %q", client.prompts[0])
	}
	if !strings.Contains(client.prompts[0], "Additional info: Stripe") {
		t.Errorf("prompt missing extra info: %q", client.prompts[0])
	}
}

func TestResearchRetriesRateLimitThenSucceeds(t *testing.T) {
	client := &fakeClient{script: []func() (string, error){
		fail(fmt.Errorf("429: %w", core.ErrRateLimited)),
		fail(fmt.Errorf("429: %w", core.ErrRateLimited)),
		ok("VERDICT: UNCLEAR\nSCORE: 50\nREASON: Thin profile."),
	}}
	r := newTestResearcher(client)

	rec := r.Research(context.Background(), "Jane Roe", "")

	if client.calls != 3 {
		t.Errorf("calls = %d, want 3", client.calls)
	}
	if rec.Verdict != VerdictUnclear || rec.Score != 50 {
		t.Errorf("unexpected record after recovery: %+v", rec)
	}
}

func TestResearchRateLimitExhausted(t *testing.T) {
	rateErr := fmt.Errorf("429: %w", core.ErrRateLimited)
	client := &fakeClient{script: []func() (string, error){
		fail(rateErr), fail(rateErr), fail(rateErr), fail(rateErr),
	}}
	r := newTestResearcher(client)

	rec := r.Research(context.Background(), "Jane Roe", "")

	if client.calls != 3 {
		t.Errorf("calls = %d, want exactly 3 attempts", client.calls)
	}
	if rec.Verdict != VerdictError || rec.Score != -1 {
		t.Errorf("record = %+v, want ERROR with score -1", rec)
	}
	if !strings.Contains(rec.Reason, "Rate limit reached") {
		t.Errorf("Reason = %q, want rate limit message", rec.Reason)
	}
}

func TestResearchConnectionErrorFailsImmediately(t *testing.T) {
	client := &fakeClient{script: []func() (string, error){
		fail(fmt.Errorf("dial tcp: %w", core.ErrConnection)),
	}}
	r := newTestResearcher(client)

	rec := r.Research(context.Background(), "Jane Roe", "")

	if client.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on connection errors)", client.calls)
	}
	if rec.Verdict != VerdictError || rec.Score != -1 {
		t.Errorf("record = %+v, want ERROR with score -1", rec)
	}
	if !strings.Contains(rec.Reason, "Could not connect") {
		t.Errorf("Reason = %q, want connection message", rec.Reason)
	}
}

func TestResearchEmptyResponse(t *testing.T) {
	client := &fakeClient{script: []func() (string, error){
		fail(core.ErrEmpty),
	}}
	r := newTestResearcher(client)

	rec := r.Research(context.Background(), "Jane Roe", "")

	if client.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on empty responses)", client.calls)
	}
	if !strings.Contains(rec.Reason, "No analysis returned") {
		t.Errorf("Reason = %q, want empty-response message", rec.Reason)
	}
}

func TestResearchUnknownErrorTruncated(t *testing.T) {
	client := &fakeClient{script: []func() (string, error){
		fail(errors.New(strings.Repeat("x", 300))),
	}}
	r := newTestResearcher(client)

	rec := r.Research(context.Background(), "Jane Roe", "")

	if rec.Verdict != VerdictError {
		t.Fatalf("Verdict = %q, want ERROR", rec.Verdict)
	}
	if len(rec.Reason) > len("Analysis failed: ")+100 {
		t.Errorf("Reason length = %d, want provider error truncated", len(rec.Reason))
	}
}

func TestResearchURLPrompt(t *testing.T) {
	client := &fakeClient{script: []func() (string, error){
		ok("VERDICT: SPAM\nSCORE: 90\nREASON: Coaching funnel."),
	}}
	r := newTestResearcher(client)

	rec := r.ResearchURL(context.Background(), "https://www.linkedin.com/in/rick-money-1a2b3c")

	if rec.Name != "Rick Money" {
		t.Errorf("Name = %q, want slug-derived name", rec.Name)
	}
	if !strings.Contains(client.prompts[0], "linkedin.com/in/rick-money-1a2b3c") {
		t.Errorf("prompt missing URL: %q", client.prompts[0])
	}
}

func TestDisplayNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://linkedin.com/in/john-doe-123", want: "John Doe"},
		{url: "https://linkedin.com/in/rick-money-1a2b3c", want: "Rick Money"},
		{url: "https://www.linkedin.com/in/jane-roe/", want: "Jane Roe"},
		{url: "linkedin.com/in/maria-garcia-lopez?utm=x", want: "Maria Garcia Lopez"},
		{url: "https://LinkedIn.com/IN/sam-smith", want: "Sam Smith"},
		{url: "https://linkedin.com/in/12345", want: "Profile"},
		{url: "https://linkedin.com/in/", want: "Profile"},
		{url: "https://example.com/profile", want: "Profile"},
	}
	for _, tt := range tests {
		if got := DisplayNameFromURL(tt.url); got != tt.want {
			t.Errorf("DisplayNameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
