package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/interview-mentor-bot/internal/config"
	"github.com/interview-mentor-bot/internal/interview"
	"github.com/interview-mentor-bot/internal/llm"
	"github.com/interview-mentor-bot/internal/prompt"
	"github.com/interview-mentor-bot/internal/render"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse flags
	kind := flag.String("kind", "nextQuestion", "Template kind: nextQuestion, evaluation, followUp")
	sectionID := flag.String("section", "go", "Section ID from the interview catalog")
	level := flag.String("level", "Middle", "Level: Junior, Middle, Senior")
	ask := flag.String("ask", "", "User text to send to the model; empty prints the prompt only")
	dialect := flag.String("dialect", "markdownV2", "Render dialect: none, markdownV2, html")
	flag.Parse()

	// Setup logging
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})

	section, err := interview.FindSection(*sectionID)
	if err != nil {
		log.Fatal().Err(err).Msg("Unknown section")
	}

	builder := prompt.NewBuilder(prompt.DefaultRegistry())
	systemPrompt, err := builder.BuildByName(*kind, prompt.Context{
		Section: section.Name,
		Level:   *level,
		Topics:  section.Topics,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build prompt")
	}

	fmt.Printf("\n=== System prompt (%s) ===\n\n", *kind)
	fmt.Println(systemPrompt)
	fmt.Printf("\n(Prompt length: %d characters)\n", len([]rune(systemPrompt)))

	if *ask == "" {
		fmt.Println("\nUsage:")
		fmt.Println("  go run scripts/prompt_preview.go -kind=evaluation -section=db -ask=\"Вопрос: ... Ответ: ...\"")
		return
	}

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file found, using environment variables")
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	provider, err := llm.NewProvider(cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create LLM provider")
	}
	client := llm.NewClient(provider, cfg.LLMTimeout, cfg.LLMMaxRetries, log.Logger)
	defer client.Close()

	startTime := time.Now()
	answer, err := client.Complete(context.Background(), systemPrompt, *ask)
	if err != nil {
		log.Fatal().Err(err).Msg("Completion failed")
	}
	fmt.Printf("\n=== Raw answer (%v) ===\n\n%s\n", time.Since(startTime), answer)

	messages := render.Render(answer, render.Dialect(*dialect), cfg.MaxMessageLength)
	fmt.Printf("\n=== Rendered as %s: %d message(s) ===\n", *dialect, len(messages))
	for i, m := range messages {
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("Message #%d (%d characters)\n", i+1, len([]rune(m.Text)))
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println(m.Text)
	}
}
