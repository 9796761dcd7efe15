package main

import (
	"context"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"learnex_quiz/internal/app/service"
	"learnex_quiz/internal/app/tools"
	"learnex_quiz/internal/platform/blob"
	"learnex_quiz/internal/platform/config"
	"learnex_quiz/internal/platform/llm"
)

func main() {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	generator, err := llm.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	store, err := blob.NewStore(ctx, cfg.AzureConnectionString, cfg.AzureContainerName)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	s := tools.NewServer(tools.NewToolset(service.NewGenerationService(generator), store))
	log.Printf("Tool server %s ready on stdio", tools.ServerName)
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Tool server stopped: %v", err)
	}
}
