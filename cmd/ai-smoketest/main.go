// Command ai-smoketest runs one research round-trip against a configured
// generation provider and prints the parsed record. Useful for validating
// API keys and the labeled-field contract without starting the bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	aicore "github.com/entrepreno/entrepreno/src/ai/core"
	_ "github.com/entrepreno/entrepreno/src/ai/providers"
	"github.com/entrepreno/entrepreno/src/format"
	"github.com/entrepreno/entrepreno/src/research"
)

var (
	providerFlag = flag.String("provider", "anthropic", "Provider to test (anthropic|openai)")
	modelFlag    = flag.String("model", "", "Override model name")
	nameFlag     = flag.String("name", "", "Person to research")
	urlFlag      = flag.String("url", "", "Profile URL to research instead of a name")
	timeoutFlag  = flag.Duration("timeout", 3*time.Minute, "Overall timeout")
	rawFlag      = flag.Bool("raw", false, "Print the raw provider text as well")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if *nameFlag == "" && *urlFlag == "" {
		log.Fatal("usage: ai-smoketest -name \"John Doe\" (or -url <profile url>)")
	}

	client, err := aicore.NewClient(aicore.FactoryConfig{
		Provider:  *providerFlag,
		Model:     *modelFlag,
		ClaudeKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
	})
	if err != nil {
		log.Fatalf("ai client: %v", err)
	}

	researcher := research.NewResearcher(client, aicore.Options{Model: *modelFlag})

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	var rec research.Record
	if *urlFlag != "" {
		rec = researcher.ResearchURL(ctx, *urlFlag)
	} else {
		rec = researcher.Research(ctx, *nameFlag, "")
	}

	fmt.Println(format.Research(rec))
	if *rawFlag {
		fmt.Println("\n--- raw provider output ---")
		fmt.Println(rec.Raw)
	}
}
