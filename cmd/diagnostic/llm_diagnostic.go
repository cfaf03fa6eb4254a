// File: cmd/diagnostic/llm_diagnostic.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/iyunix/go-easyemail/internal/config"
	"github.com/iyunix/go-easyemail/internal/services"
	"github.com/iyunix/go-easyemail/internal/services/ai"
)

func main() {
	only := flag.String("provider", "", "check a single provider (openai or workersai)")
	prompt := flag.String("prompt", "Reply with the single word: pong", "message sent to each provider")
	flag.Parse()

	cfg := config.Load()
	logger := services.NewLogger("llm_diagnostic")

	gateway, err := ai.NewGatewayFromConfig(cfg.AI(), &http.Client{}, logger)
	if err != nil {
		log.Fatalf("Gateway configuration invalid: %v", err)
	}

	providers := gateway.Providers()
	if *only != "" {
		providers = []string{*only}
	}

	failed := false
	for _, name := range providers {
		start := time.Now()
		reply, err := gateway.Complete(context.Background(), name, []ai.Message{
			{Role: ai.RoleUser, Content: *prompt},
		})
		elapsed := time.Since(start).Round(time.Millisecond)

		switch {
		case ai.IsType(err, ai.ErrTypeRateLimit):
			fmt.Printf("%-10s RATE LIMITED after %s\n", name, elapsed)
			failed = true
		case err != nil:
			fmt.Printf("%-10s FAILED after %s: %v\n", name, elapsed, err)
			failed = true
		default:
			fmt.Printf("%-10s OK in %s: %q\n", name, elapsed, reply)
		}
	}

	if failed {
		os.Exit(1)
	}
}
