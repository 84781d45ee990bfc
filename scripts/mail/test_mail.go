// Minimal manual test for the Gmail candidate extraction. Needs a real
// access token with gmail.readonly scope in GMAIL_TOKEN.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/entrepreno/entrepreno/src/mail"
)

func main() {
	token := os.Getenv("GMAIL_TOKEN")
	if token == "" {
		log.Fatal("GMAIL_TOKEN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := mail.NewClient(token)
	candidates, err := client.FetchCandidates(ctx, 10)
	if err != nil {
		log.Fatalf("Failed to fetch candidates: %v", err)
	}

	log.Printf("Found %d connection request(s):", len(candidates))
	for _, c := range candidates {
		log.Printf("  Name: %s", c.Name)
		if c.ExtraInfo != "" {
			log.Printf("  Extra: %s", c.ExtraInfo)
		}
		log.Printf("  Subject: %s", c.Subject)
		log.Printf("  Message: %s", c.MessageID)
	}
}
