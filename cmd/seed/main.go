package main

import (
	"context"
	"flag"
	"os"

	"github.com/kiwari-pos/stockbook/internal/app"
	"github.com/kiwari-pos/stockbook/internal/config"
	"github.com/kiwari-pos/stockbook/internal/intake"
	"github.com/rs/zerolog/log"
)

// defaultSheet stocks a small sample catalog.
const defaultSheet = `# sample catalog
Rice 50u @10
Black Beans 40lb @3.20
Sugar 25lb @2.10
Cooking Oil 24u @6.50
Eggs 120u @0.35
`

func main() {
	// CLI flags
	file := flag.String("file", "", "Intake sheet to apply (one \"name qty+unit @price\" entry per line)")
	envFile := flag.String("env-file", ".env", "Optional .env file to load")
	flag.Parse()

	// Fall back to environment variables
	if *file == "" {
		*file = os.Getenv("SEED_FILE")
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := app.SetupLogging(os.Stderr, cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	// Fall back to the sample catalog
	text := defaultSheet
	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("Failed to read intake sheet")
		}
		text = string(raw)
	} else {
		log.Info().Msg("No intake sheet given, seeding the sample catalog")
	}

	sheet, err := intake.ParseSheet(text)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse intake sheet")
	}
	for _, w := range sheet.Warnings {
		log.Warn().Msg(w)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open stock book")
	}
	defer a.Close()

	res, err := intake.Apply(ctx, a.Session, sheet)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to apply intake sheet")
	}
	for _, s := range res.Skipped {
		log.Warn().Msg(s)
	}

	log.Info().
		Int("added", len(res.Added)).
		Int("restocked", len(res.Restocked)).
		Int("skipped", len(res.Skipped)).
		Msg("Seed completed successfully")
}
