// Package bot wires the classification core to Discord: command routing,
// placeholder-then-edit replies, and per-user ordering of lookups.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/entrepreno/entrepreno/src/cache"
	"github.com/entrepreno/entrepreno/src/config"
	"github.com/entrepreno/entrepreno/src/format"
	"github.com/entrepreno/entrepreno/src/heuristic"
	"github.com/entrepreno/entrepreno/src/logging"
	"github.com/entrepreno/entrepreno/src/mail"
	"github.com/entrepreno/entrepreno/src/profile"
	"github.com/entrepreno/entrepreno/src/research"
	"github.com/entrepreno/entrepreno/src/session"
)

const lookupTimeout = 5 * time.Minute

// Bot is the Discord front end.
type Bot struct {
	config   *config.Config
	session  *discordgo.Session
	store    *session.Store
	machine  *session.Machine
	research *research.Researcher
	mail     *mail.Client
	verdicts cache.Store // nil disables caching
	limiter  *rate.Limiter
}

// New builds the bot. verdicts may be nil.
func New(cfg *config.Config, researcher *research.Researcher, mailClient *mail.Client, verdicts cache.Store) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	store := session.NewStore()
	b := &Bot{
		config:   cfg,
		session:  dg,
		store:    store,
		machine:  session.NewMachine(store, researcher),
		research: researcher,
		mail:     mailClient,
		verdicts: verdicts,
		limiter:  rate.NewLimiter(rate.Every(cfg.CheckDelay), 1),
	}

	dg.AddHandler(b.handleReady)
	dg.AddHandler(b.handleMessageCreate)
	return b, nil
}

// Start opens the Discord connection.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

// Stop closes the Discord connection.
func (b *Bot) Stop() {
	if b.session != nil {
		b.session.Close()
	}
}

func (b *Bot) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("EntrepreNO bot logged in as %s", event.User.Username)
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	content := strings.TrimSpace(m.Content)
	userID := m.Author.ID

	cmd, args := splitCommand(content)
	switch cmd {
	case "!start", "!help":
		b.send(s, m.ChannelID, helpText)
	case "!score":
		b.handleScore(s, m, args)
	case "!check":
		b.handleCheck(s, m, args)
	case "!lookup":
		b.handleLookup(s, m, args)
	case "!cancel":
		b.store.Dispatch(userID, func() {
			out := b.machine.Cancel(userID)
			b.send(s, m.ChannelID, out.Text)
		})
	default:
		b.handleFreeText(s, m, content)
	}
}

// handleScore runs the deterministic scorer over pasted profile text. Pure
// and instant, so no placeholder message and no session lane.
func (b *Bot) handleScore(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if args == "" {
		b.send(s, m.ChannelID,
			"Usage: !score <pasted profile text>\n\n"+
				"Paste the name, headline, connection count and summary,\n"+
				"one per line, straight from their profile.")
		return
	}

	rec := profile.ParseText(args)
	res := heuristic.Score(rec)
	b.send(s, m.ChannelID, format.Heuristic(rec, res))
}

func (b *Bot) handleLookup(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if args == "" {
		b.send(s, m.ChannelID,
			"Usage: !lookup <name or URL>\n\n"+
				"Examples:\n"+
				"• !lookup John Doe\n"+
				"• !lookup https://www.linkedin.com/in/john-doe")
		return
	}

	userID := m.Author.ID
	jobID := shortID()
	log.Printf("[%s] lookup %q from user %s", jobID, args, userID)

	placeholder := b.send(s, m.ChannelID, fmt.Sprintf("🔎 Researching %s...", args))
	b.store.Dispatch(userID, func() {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		out := b.machine.Lookup(ctx, userID, args)
		log.Printf("[%s] lookup finished (kind %d)", jobID, out.Kind)
		b.deliver(s, m.ChannelID, placeholder, out.Text)
	})
}

func (b *Bot) handleFreeText(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	userID := m.Author.ID

	b.store.Dispatch(userID, func() {
		// The pending check must run inside the lane: a preceding message
		// from the same user may still be mutating the session.
		_, waiting := b.store.Pending(userID)

		// Only burn a placeholder when the text will actually trigger
		// research.
		var placeholder *discordgo.Message
		if needsPlaceholder(content, waiting) {
			placeholder = b.send(s, m.ChannelID, fmt.Sprintf("🔎 Researching %s...", content))
		}

		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		out := b.machine.HandleText(ctx, userID, content)
		b.deliver(s, m.ChannelID, placeholder, out.Text)
	})
}

// needsPlaceholder reports whether free text will reach the research
// pipeline: a profile reference, a name-shaped message, or any reply while a
// URL is owed.
func needsPlaceholder(content string, waiting bool) bool {
	return waiting || session.IsReference(content) || profile.IsLikelyName(content)
}

// handleCheck scans Gmail for connection-request emails and researches each
// sender, one at a time with enforced spacing between provider calls.
func (b *Bot) handleCheck(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	limit := b.config.CheckLimit
	if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && n > 0 {
		limit = n
	}

	userID := m.Author.ID
	placeholder := b.send(s, m.ChannelID, "📬 Checking Gmail...")

	b.store.Dispatch(userID, func() {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout*time.Duration(limit))
		defer cancel()

		candidates, err := b.mail.FetchCandidates(ctx, limit)
		switch {
		case errors.Is(err, mail.ErrNotConfigured):
			b.deliver(s, m.ChannelID, placeholder,
				"❌ Gmail not authorized yet.\n\n"+
					"Set the gmail_token setting (or GMAIL_TOKEN) to a Gmail\n"+
					"API access token with gmail.readonly scope.")
			return
		case err != nil:
			log.Printf("gmail fetch error: %v", err)
			b.deliver(s, m.ChannelID, placeholder, "❌ Gmail error: "+logging.UserMessage(err, 200))
			return
		case len(candidates) == 0:
			b.deliver(s, m.ChannelID, placeholder,
				"📭 No new LinkedIn connection request emails found.\n\n"+
					"Make sure LinkedIn email notifications are enabled.")
			return
		}

		b.deliver(s, m.ChannelID, placeholder,
			fmt.Sprintf("🔍 Found %d request(s). Researching each one...", len(candidates)))

		for _, cand := range candidates {
			personMsg := b.send(s, m.ChannelID, fmt.Sprintf("🔎 Researching %s...", cand.Name))

			if err := b.limiter.Wait(ctx); err != nil {
				b.deliver(s, m.ChannelID, personMsg, "⏱️ Scan cancelled - timeout exceeded")
				return
			}

			rec := b.researchCached(ctx, cand.Name, cand.ExtraInfo)
			b.deliver(s, m.ChannelID, personMsg, format.Research(rec))
		}
	})
}

// researchCached consults the verdict cache when one is configured. Only the
// bulk path caches; direct lookups always hit the provider fresh.
func (b *Bot) researchCached(ctx context.Context, name string, extraInfo string) research.Record {
	if b.verdicts == nil {
		return b.research.Research(ctx, name, extraInfo)
	}
	return b.verdicts.GetSet(ctx, name, func(ctx context.Context) research.Record {
		return b.research.Research(ctx, name, extraInfo)
	})
}

func (b *Bot) send(s *discordgo.Session, channelID string, text string) *discordgo.Message {
	msg, err := s.ChannelMessageSend(channelID, text)
	if err != nil {
		log.Printf("discord send failed: %v", err)
		return nil
	}
	return msg
}

// deliver replaces the placeholder with the final text, falling back to a
// plain send when there is no placeholder to edit.
func (b *Bot) deliver(s *discordgo.Session, channelID string, placeholder *discordgo.Message, text string) {
	if placeholder == nil {
		b.send(s, channelID, text)
		return
	}
	if _, err := s.ChannelMessageEdit(channelID, placeholder.ID, text); err != nil {
		log.Printf("discord edit failed: %v", err)
		b.send(s, channelID, text)
	}
}

func splitCommand(content string) (cmd string, args string) {
	if !strings.HasPrefix(content, "!") {
		return "", content
	}
	parts := strings.SplitN(content, " ", 2)
	cmd = strings.ToLower(parts[0])
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return cmd, args
}

func shortID() string {
	return uuid.NewString()[:8]
}

const helpText = "👋 Welcome to EntrepreNO Bot!\n\n" +
	"I check your LinkedIn connection requests and tell you if they're spammy.\n\n" +
	"Commands:\n" +
	"!check — scan latest connection requests from Gmail\n" +
	"!lookup <name or URL> — research someone\n" +
	"!score <pasted profile> — score profile text locally\n" +
	"!cancel — stop waiting for a URL\n" +
	"!help — how to use\n\n" +
	"You can also just type a name like: John Doe"
