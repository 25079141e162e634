package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/mailvox/mailvox/config"
	"github.com/mailvox/mailvox/gmail"
	"github.com/mailvox/mailvox/speech"
	"github.com/mailvox/mailvox/summarize"
	"github.com/mailvox/mailvox/tui"
)

func main() {
	configPath := flag.String("config", "mailvox.yaml", "path to the config file")
	logPath := flag.String("log", "mailvox.log", "path to the log file")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0660)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Println("Application starting...")

	// API keys come from the environment; .env is optional.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutdown signal received, cancelling context...")
		cancel()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Config loaded.")

	gmailClient, err := gmail.NewClient(ctx, cfg.Gmail)
	if err != nil {
		log.Fatalf("Failed to initialize Gmail client: %v. Ensure credentials.json is present and valid.", err)
	}
	log.Println("Gmail client initialized.")

	summarizer, err := summarize.New(ctx, os.Getenv("GEMINI_API_KEY"), cfg.Summary)
	if err != nil {
		log.Fatalf("Failed to initialize summarizer: %v", err)
	}
	log.Println("Summarizer initialized.")

	speaker, err := speech.NewSpeaker(os.Getenv("OPENAI_API_KEY"), cfg.Speech.Voice)
	if err != nil {
		log.Fatalf("Speech output unavailable: %v", err)
	}
	recognizer, err := speech.NewRecognizer(os.Getenv("OPENAI_API_KEY"), cfg.Speech.TranscribeModel)
	if err != nil {
		log.Fatalf("Speech input unavailable: %v", err)
	}
	defer recognizer.Close()
	log.Println("Speech engines initialized.")

	deps := tui.Deps{
		Cfg:        cfg,
		Fetcher:    gmailClient,
		Summarizer: summarizer,
		Speaker:    speaker,
		Recognizer: recognizer,
		Sender:     gmailClient,
	}
	if err := tui.Run(ctx, deps); err != nil && ctx.Err() == nil {
		log.Fatalf("Error running application: %v", err)
	}

	log.Println("Application stopped. Exiting.")
}
