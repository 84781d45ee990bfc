package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	aicore "github.com/entrepreno/entrepreno/src/ai/core"
	_ "github.com/entrepreno/entrepreno/src/ai/providers"
	"github.com/entrepreno/entrepreno/src/bot"
	"github.com/entrepreno/entrepreno/src/cache"
	"github.com/entrepreno/entrepreno/src/config"
	"github.com/entrepreno/entrepreno/src/data"
	"github.com/entrepreno/entrepreno/src/health"
	"github.com/entrepreno/entrepreno/src/mail"
	"github.com/entrepreno/entrepreno/src/research"
)

func main() {
	// Settings database is optional; env vars cover everything.
	var db *gorm.DB
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		db = data.MustMySQL(dsn)
	}

	cfg := config.Load(db)
	if cfg.Token == "" {
		log.Fatal("DISCORD_TOKEN not set in database or environment")
	}

	client, err := aicore.NewClient(aicore.FactoryConfig{
		Provider:            cfg.AIProvider,
		Model:               cfg.AIModel,
		Temperature:         cfg.Temperature,
		MaxCompletionTokens: cfg.MaxTokens,
		ClaudeKey:           cfg.ClaudeKey,
		OpenAIKey:           cfg.OpenAIKey,
	})
	if err != nil {
		log.Fatalf("ai client: %v", err)
	}

	researcher := research.NewResearcher(client, aicore.Options{
		Model:               cfg.AIModel,
		MaxCompletionTokens: cfg.MaxTokens,
	})

	var verdicts cache.Store
	if cfg.RedisURL != "" {
		verdicts = cache.NewRedis(data.MustRedis(cfg.RedisURL), cfg.CacheTTL)
	} else if mem, err := cache.NewMemory(cfg.CacheTTL); err == nil {
		verdicts = mem
	} else {
		log.Printf("verdict cache disabled: %v", err)
	}

	b, err := bot.New(&cfg, researcher, mail.NewClient(cfg.GmailToken), verdicts)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	if err := b.Start(); err != nil {
		log.Fatalf("failed to start bot: %v", err)
	}

	health.Serve(cfg.HealthPort)

	log.Println("EntrepreNO bot is running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	b.Stop()
	log.Println("EntrepreNO bot stopped gracefully")
}
