package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/entrepreno/entrepreno/src/research"
)

func TestKeyNormalization(t *testing.T) {
	base := Key("Rick Money")

	for _, variant := range []string{"rick money", "  Rick Money  ", "RICK MONEY"} {
		if got := Key(variant); got != base {
			t.Errorf("Key(%q) = %q, want same key as canonical form %q", variant, got, base)
		}
	}
	if Key("Rick Money") == Key("Jane Roe") {
		t.Error("different names collided on the same key")
	}
}

func TestMemoryCachesSuccessfulVerdicts(t *testing.T) {
	m, err := NewMemory(time.Minute)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	calls := 0
	fetch := func(context.Context) research.Record {
		calls++
		return research.Record{
			Name:    "Rick Money",
			Verdict: research.VerdictSpam,
			Score:   90,
			Reason:  "Coaching funnel.",
		}
	}

	ctx := context.Background()
	first := m.GetSet(ctx, "Rick Money", fetch)
	second := m.GetSet(ctx, "rick money", fetch)

	if calls != 1 {
		t.Errorf("fetch ran %d times, want 1", calls)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached record differs from fresh (-first +second):\n%s", diff)
	}
}

func TestMemoryNeverCachesErrorVerdicts(t *testing.T) {
	m, err := NewMemory(time.Minute)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	calls := 0
	failing := func(context.Context) research.Record {
		calls++
		return research.Record{
			Name:    "Jane Roe",
			Verdict: research.VerdictError,
			Score:   -1,
			Reason:  "Analysis failed: Rate limit reached, try again in a moment",
		}
	}

	ctx := context.Background()
	rec := m.GetSet(ctx, "Jane Roe", failing)
	if rec.Verdict != research.VerdictError {
		t.Fatalf("Verdict = %q, want ERROR passed through", rec.Verdict)
	}

	m.GetSet(ctx, "Jane Roe", failing)
	if calls != 2 {
		t.Errorf("fetch ran %d times, want 2 (errors are not cached)", calls)
	}
}

func TestMemoryDistinctNamesDistinctEntries(t *testing.T) {
	m, err := NewMemory(time.Minute)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	fetchFor := func(name string, verdict research.Verdict) Fetch {
		return func(context.Context) research.Record {
			return research.Record{Name: name, Verdict: verdict, Score: 50, Reason: "r"}
		}
	}

	ctx := context.Background()
	a := m.GetSet(ctx, "Rick Money", fetchFor("Rick Money", research.VerdictSpam))
	b := m.GetSet(ctx, "Jane Roe", fetchFor("Jane Roe", research.VerdictLegit))

	if a.Name == b.Name || a.Verdict == b.Verdict {
		t.Errorf("entries collided: %+v vs %+v", a, b)
	}
}
