package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/z-style/backend/internal/config"
	"github.com/zhouzirui/z-style/backend/internal/model/persona"
	"github.com/zhouzirui/z-style/backend/internal/service/ai"
	"github.com/zhouzirui/z-style/backend/internal/service/assistant"
	"github.com/zhouzirui/z-style/backend/pkg/logger"
)

func main() {
	dir := flag.String("dir", "", "persona pack directory (default: embedded pack)")
	chat := flag.Bool("chat", false, "also send each message to the configured model")
	timeout := flag.Duration("timeout", 45*time.Second, "per-message timeout when -chat is set")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	logger.Init(logger.Config{Debug: *debug, PrettyFormat: true})

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: routetester [-dir DIR] [-chat] message...")
		os.Exit(2)
	}

	var loader persona.Loader = persona.DefaultLoader()
	if *dir != "" {
		loader = persona.NewDirLoader(*dir)
	}

	var provider assistant.Provider
	if *chat {
		provider = loadProvider()
	}

	svc := assistant.NewService(loader, provider, nil)
	svc.Initialize(context.Background())

	for _, message := range flag.Args() {
		route := svc.RouteMessage(message)
		fmt.Printf("%q -> %s@%s\n", message, route.PersonaID, route.Version)

		if !*chat {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		reply := svc.Chat(ctx, message, "")
		cancel()

		line := "   " + strings.ReplaceAll(reply.Message, "\n", "\n   ")
		if reply.Fallback != "" {
			line += fmt.Sprintf("  [fallback=%s]", reply.Fallback)
		}
		fmt.Println(line)
	}
}

func loadProvider() assistant.Provider {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if !cfg.AI.Enabled() {
		log.Fatal().Str("provider", cfg.AI.Provider).Msg("AI credentials not configured")
	}
	svc, err := ai.NewService(context.Background(), cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize AI service")
	}
	return svc
}
