package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrepreno/entrepreno/src/format"
	"github.com/entrepreno/entrepreno/src/profile"
	"github.com/entrepreno/entrepreno/src/research"
)

// ProfileMarker identifies a direct profile reference in free text.
const ProfileMarker = "linkedin.com/in/"

// Researcher is the slice of the research pipeline the conversation needs.
type Researcher interface {
	Research(ctx context.Context, name string, extraInfo string) research.Record
	ResearchURL(ctx context.Context, url string) research.Record
}

// OutcomeKind labels what a handled message produced.
type OutcomeKind int

const (
	// OutcomeReport carries a finished classification report.
	OutcomeReport OutcomeKind = iota
	// OutcomeAskReference means the name search failed and we now wait for
	// the user to paste a profile URL.
	OutcomeAskReference
	// OutcomeReprompt means the user sent something that is neither a URL
	// nor a cancellation while we were waiting for a URL.
	OutcomeReprompt
	// OutcomeCancelled acknowledges an explicit cancellation.
	OutcomeCancelled
	// OutcomeNothingToCancel means cancel arrived with no pending lookup.
	OutcomeNothingToCancel
	// OutcomeUsage means the input was unrecognized; Text carries guidance.
	OutcomeUsage
)

// Outcome is the result of pushing one message through the state machine.
type Outcome struct {
	Kind OutcomeKind
	Text string
}

// Machine decides, per user, whether incoming text is a name to search, a
// direct profile reference, or noise, and tracks the URL-fallback state
// after failed name searches. Callers must serialize calls per user
// (Store.Dispatch does this).
type Machine struct {
	store      *Store
	researcher Researcher
}

// NewMachine wires the state machine to its session store and pipeline.
func NewMachine(store *Store, researcher Researcher) *Machine {
	return &Machine{store: store, researcher: researcher}
}

// IsReference reports whether text contains a direct profile reference.
func IsReference(text string) bool {
	return strings.Contains(strings.ToLower(text), ProfileMarker)
}

// Lookup handles an explicit lookup command with a name or URL argument.
// A new lookup always discards any stale pending session for this user.
func (m *Machine) Lookup(ctx context.Context, userID string, input string) Outcome {
	m.store.ClearPending(userID)

	input = strings.TrimSpace(input)
	if input == "" {
		return Outcome{Kind: OutcomeUsage, Text: usageText}
	}
	if IsReference(input) {
		return m.byURL(ctx, input)
	}
	return m.byName(ctx, userID, input, "")
}

// HandleText handles a freestanding message: a URL reply to a pending
// lookup, a re-prompt while one is pending, a bare name, or noise.
func (m *Machine) HandleText(ctx context.Context, userID string, text string) Outcome {
	text = strings.TrimSpace(text)

	if name, waiting := m.store.Pending(userID); waiting {
		if IsReference(text) {
			m.store.ClearPending(userID)
			out := m.byURL(ctx, text)
			out.Text = fmt.Sprintf("✅ Got it! Analyzing %s's profile...\n\n", name) + out.Text
			return out
		}
		return Outcome{Kind: OutcomeReprompt, Text: repromptText}
	}

	if IsReference(text) {
		return m.byURL(ctx, text)
	}
	if profile.IsLikelyName(text) {
		return m.byName(ctx, userID, text, "")
	}
	return Outcome{Kind: OutcomeUsage, Text: usageText}
}

// Cancel clears any pending lookup for the user.
func (m *Machine) Cancel(userID string) Outcome {
	if m.store.ClearPending(userID) {
		return Outcome{Kind: OutcomeCancelled, Text: "✅ Cancelled."}
	}
	return Outcome{Kind: OutcomeNothingToCancel, Text: "Nothing to cancel."}
}

// byName searches by name; a failed search parks the name and asks for a
// URL instead. URL lookups have no further fallback, so byURL always
// reports whatever came back.
func (m *Machine) byName(ctx context.Context, userID string, name string, extraInfo string) Outcome {
	rec := m.researcher.Research(ctx, name, extraInfo)
	if research.NotFound(rec) {
		m.store.SetPending(userID, name)
		return Outcome{
			Kind: OutcomeAskReference,
			Text: fmt.Sprintf(
				"⚠️ Could not find reliable info for %s.\n\n📎 Please send their LinkedIn profile URL\n(Just paste the URL, or !cancel to stop)",
				name,
			),
		}
	}
	return Outcome{Kind: OutcomeReport, Text: format.Research(rec)}
}

func (m *Machine) byURL(ctx context.Context, url string) Outcome {
	rec := m.researcher.ResearchURL(ctx, url)
	return Outcome{Kind: OutcomeReport, Text: format.Research(rec)}
}

const repromptText = "❌ That doesn't look like a LinkedIn URL.\n\n" +
	"Please send a URL like:\nhttps://www.linkedin.com/in/username\n\n" +
	"Or !cancel to stop"

const usageText = "Not sure what to do with that.\n\n" +
	"Try:\n" +
	"• !check — scan Gmail\n" +
	"• !lookup John Doe — research someone\n" +
	"• !score <pasted profile> — score profile text\n" +
	"• Just type a name like: John Doe"
