// Package config assembles runtime configuration from the optional settings
// database with per-key environment fallback.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/entrepreno/entrepreno/src/data"
)

// Config is everything the bot process needs.
type Config struct {
	// Discord
	Token   string
	GuildID string

	// Generation provider
	AIProvider  string
	AIModel     string
	ClaudeKey   string
	OpenAIKey   string
	MaxTokens   int
	Temperature float64

	// Gmail
	GmailToken string

	// Verdict cache
	RedisURL string
	CacheTTL time.Duration

	// Batch scan
	CheckLimit int
	CheckDelay time.Duration

	// Health endpoint
	HealthPort string
}

// Load builds a Config. db may be nil, in which case every value comes from
// the environment.
func Load(db *gorm.DB) Config {
	if db != nil {
		if err := data.LoadSettings(db); err != nil {
			log.Printf("config: failed to load settings: %v", err)
		}
	}

	cfg := Config{
		Token:       setting("discord_token", "DISCORD_TOKEN", ""),
		GuildID:     setting("guild_id", "GUILD_ID", ""),
		AIProvider:  setting("ai_provider", "AI_PROVIDER", "anthropic"),
		AIModel:     setting("ai_model", "AI_MODEL", ""),
		ClaudeKey:   setting("anthropic_api_key", "ANTHROPIC_API_KEY", ""),
		OpenAIKey:   setting("openai_api_key", "OPENAI_API_KEY", ""),
		GmailToken:  setting("gmail_token", "GMAIL_TOKEN", ""),
		RedisURL:    setting("redis_url", "REDIS_URL", ""),
		HealthPort:  setting("health_port", "PORT", "10000"),
		MaxTokens:   settingInt("ai_max_tokens", "AI_MAX_TOKENS", 1024),
		CheckLimit:  settingInt("check_limit", "CHECK_LIMIT", 10),
		CacheTTL:    settingDuration("cache_ttl", "CACHE_TTL", 6*time.Hour),
		CheckDelay:  settingDuration("check_delay", "CHECK_DELAY", 15*time.Second),
		Temperature: 0,
	}
	return cfg
}

// setting retrieves a value from the settings table, the environment, then
// the default, in that order.
func setting(name, envKey, defaultValue string) string {
	val := data.GetSetting(name)
	if val == "" {
		val = os.Getenv(envKey)
	}
	if val == "" {
		val = defaultValue
	}
	return val
}

func settingInt(name, envKey string, defaultValue int) int {
	raw := setting(name, envKey, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: bad integer for %s: %q", name, raw)
		return defaultValue
	}
	return n
}

func settingDuration(name, envKey string, defaultValue time.Duration) time.Duration {
	raw := setting(name, envKey, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: bad duration for %s: %q", name, raw)
		return defaultValue
	}
	return d
}
