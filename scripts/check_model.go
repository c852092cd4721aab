package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/FACorreiaa/go-trip-itinerary/config"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/llm"
)

var (
	provider = flag.String("provider", "", "override llm.provider (openai or gemini)")
	model    = flag.String("model", "", "override the model name, e.g. gemini-2.0-flash")
	prompt   = flag.String("prompt", "Say hello world!", "user prompt to send")
	asJSON   = flag.Bool("json", false, "ask for a JSON answer")
	timeout  = flag.Duration("timeout", time.Minute, "request timeout")
)

// main sends one prompt through the same model client the itinerary
// synthesizer and chat endpoint use.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}
	flag.Parse()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *provider != "" {
		cfg.LLM.Provider = *provider
	}
	if *model != "" {
		cfg.LLM.Model = *model
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := llm.New(ctx, cfg.LLM, logger)
	if err != nil {
		log.Fatalf("model client: %v", err)
	}

	start := time.Now()
	answer, err := client.Complete(ctx, llm.Prompt{
		System:      "You are a helpful assistant.",
		User:        *prompt,
		Temperature: cfg.LLM.Temperature,
		JSON:        *asJSON,
	})
	if err != nil {
		log.Fatalf("completion: %v", err)
	}
	fmt.Printf("model: %s (%s)\n%s\n", client.Model(), time.Since(start).Round(time.Millisecond), answer)
}
