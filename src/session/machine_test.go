package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/entrepreno/entrepreno/src/research"
)

// scriptedResearcher returns canned records and logs what it was asked.
type scriptedResearcher struct {
	byName map[string]research.Record
	byURL  map[string]research.Record

	nameCalls []string
	urlCalls  []string
}

func (s *scriptedResearcher) Research(_ context.Context, name string, _ string) research.Record {
	s.nameCalls = append(s.nameCalls, name)
	if rec, ok := s.byName[name]; ok {
		return rec
	}
	return notFoundRecord(name)
}

func (s *scriptedResearcher) ResearchURL(_ context.Context, url string) research.Record {
	s.urlCalls = append(s.urlCalls, url)
	if rec, ok := s.byURL[url]; ok {
		return rec
	}
	return notFoundRecord(url)
}

func notFoundRecord(name string) research.Record {
	return research.Record{
		Name:     name,
		Verdict:  research.VerdictUnclear,
		Score:    50,
		Headline: "Not found",
		Reason:   "Profile not found in public sources.",
	}
}

func spamRecord(name string) research.Record {
	return research.Record{
		Name:     name,
		Verdict:  research.VerdictSpam,
		Score:    90,
		Headline: "Financial Freedom Coach",
		Reason:   "Classic coaching funnel.",
		RedFlags: []string{"dm me"},
	}
}

func TestLookupByNameReportsDirectly(t *testing.T) {
	r := &scriptedResearcher{byName: map[string]research.Record{
		"Alice Johnson": {Name: "Alice Johnson", Verdict: research.VerdictLegit, Score: 5, Headline: "Engineer", Reason: "Real history."},
	}}
	m := NewMachine(NewStore(), r)

	out := m.Lookup(context.Background(), "u1", "Alice Johnson")

	if out.Kind != OutcomeReport {
		t.Fatalf("Kind = %v, want OutcomeReport", out.Kind)
	}
	if !strings.Contains(out.Text, "Alice Johnson") {
		t.Errorf("report missing name: %q", out.Text)
	}
}

func TestNameNotFoundThenURLFallback(t *testing.T) {
	const url = "https://www.linkedin.com/in/rick-money"
	r := &scriptedResearcher{byURL: map[string]research.Record{
		url: spamRecord("Rick Money"),
	}}
	store := NewStore()
	m := NewMachine(store, r)
	ctx := context.Background()

	out := m.Lookup(ctx, "u1", "Rick Money")
	if out.Kind != OutcomeAskReference {
		t.Fatalf("Kind = %v, want OutcomeAskReference", out.Kind)
	}
	if !strings.Contains(out.Text, "Rick Money") || !strings.Contains(out.Text, "profile URL") {
		t.Errorf("ask-reference text = %q", out.Text)
	}
	if name, ok := store.Pending("u1"); !ok || name != "Rick Money" {
		t.Fatalf("Pending = %q,%v, want Rick Money pending", name, ok)
	}

	// Garbage while waiting re-prompts and keeps the session pending.
	out = m.HandleText(ctx, "u1", "what do you mean")
	if out.Kind != OutcomeReprompt {
		t.Fatalf("Kind = %v, want OutcomeReprompt", out.Kind)
	}
	if _, ok := store.Pending("u1"); !ok {
		t.Fatal("pending session dropped by a re-prompt")
	}

	// The URL resolves the session and the report acknowledges the handoff.
	out = m.HandleText(ctx, "u1", url)
	if out.Kind != OutcomeReport {
		t.Fatalf("Kind = %v, want OutcomeReport", out.Kind)
	}
	if !strings.Contains(out.Text, "Got it! Analyzing Rick Money's profile") {
		t.Errorf("report missing handoff line: %q", out.Text)
	}
	if _, ok := store.Pending("u1"); ok {
		t.Error("pending session not cleared after URL report")
	}
	if len(r.urlCalls) != 1 || r.urlCalls[0] != url {
		t.Errorf("urlCalls = %v, want [%s]", r.urlCalls, url)
	}
}

func TestCancelClearsPending(t *testing.T) {
	r := &scriptedResearcher{}
	store := NewStore()
	m := NewMachine(store, r)
	ctx := context.Background()

	m.Lookup(ctx, "u1", "Nobody Realperson")
	if _, ok := store.Pending("u1"); !ok {
		t.Fatal("expected pending session after failed name search")
	}

	out := m.Cancel("u1")
	if out.Kind != OutcomeCancelled {
		t.Fatalf("Kind = %v, want OutcomeCancelled", out.Kind)
	}
	if _, ok := store.Pending("u1"); ok {
		t.Error("pending session survived cancel")
	}

	if out = m.Cancel("u1"); out.Kind != OutcomeNothingToCancel {
		t.Errorf("second cancel Kind = %v, want OutcomeNothingToCancel", out.Kind)
	}
}

func TestNewLookupDiscardsStalePending(t *testing.T) {
	r := &scriptedResearcher{byName: map[string]research.Record{
		"Alice Johnson": {Name: "Alice Johnson", Verdict: research.VerdictLegit, Score: 5, Reason: "Fine."},
	}}
	store := NewStore()
	m := NewMachine(store, r)
	ctx := context.Background()

	m.Lookup(ctx, "u1", "Nobody Realperson")
	out := m.Lookup(ctx, "u1", "Alice Johnson")

	if out.Kind != OutcomeReport {
		t.Fatalf("Kind = %v, want OutcomeReport", out.Kind)
	}
	if _, ok := store.Pending("u1"); ok {
		t.Error("stale pending session survived a new lookup")
	}
}

func TestPendingSessionsAreIndependentPerUser(t *testing.T) {
	r := &scriptedResearcher{}
	store := NewStore()
	m := NewMachine(store, r)
	ctx := context.Background()

	m.Lookup(ctx, "u1", "Nobody Realperson")
	out := m.HandleText(ctx, "u2", "what do you mean")

	if out.Kind != OutcomeUsage {
		t.Errorf("Kind = %v, want OutcomeUsage for the uninvolved user", out.Kind)
	}
	if _, ok := store.Pending("u1"); !ok {
		t.Error("u1's pending session affected by u2's message")
	}
}

func TestHandleTextRouting(t *testing.T) {
	r := &scriptedResearcher{
		byName: map[string]research.Record{"Jane Roe": spamRecord("Jane Roe")},
		byURL:  map[string]research.Record{"https://linkedin.com/in/jane-roe": spamRecord("Jane Roe")},
	}
	m := NewMachine(NewStore(), r)
	ctx := context.Background()

	tests := []struct {
		name string
		text string
		want OutcomeKind
	}{
		{name: "bare url", text: "https://linkedin.com/in/jane-roe", want: OutcomeReport},
		{name: "bare name", text: "Jane Roe", want: OutcomeReport},
		{name: "headline not a name", text: "CEO | Entrepreneur | Visionary", want: OutcomeUsage},
		{name: "single word", text: "hello", want: OutcomeUsage},
		{name: "too many words", text: "this is not at all a name", want: OutcomeUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out := m.HandleText(ctx, "u-routing", tt.text); out.Kind != tt.want {
				t.Errorf("HandleText(%q).Kind = %v, want %v", tt.text, out.Kind, tt.want)
			}
		})
	}
}

func TestIsReference(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "https://www.linkedin.com/in/john-doe", want: true},
		{text: "check LINKEDIN.COM/IN/john out", want: true},
		{text: "https://linkedin.com/company/acme", want: false},
		{text: "John Doe", want: false},
	}
	for _, tt := range tests {
		if got := IsReference(tt.text); got != tt.want {
			t.Errorf("IsReference(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestDispatchRunsPerUserInOrder(t *testing.T) {
	store := NewStore()

	const perUser = 20
	var mu sync.Mutex
	seen := map[string][]int{}
	var wg sync.WaitGroup

	for _, user := range []string{"u1", "u2", "u3"} {
		for i := 0; i < perUser; i++ {
			wg.Add(1)
			store.Dispatch(user, func() {
				defer wg.Done()
				time.Sleep(time.Microsecond)
				mu.Lock()
				seen[user] = append(seen[user], i)
				mu.Unlock()
			})
		}
	}
	wg.Wait()

	for user, order := range seen {
		if len(order) != perUser {
			t.Fatalf("user %s ran %d tasks, want %d", user, len(order), perUser)
		}
		for i, v := range order {
			if v != i {
				t.Fatalf("user %s ran out of order: %v", user, order)
			}
		}
	}
}
