package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"lunarview/internal/services"
	"lunarview/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	// Optional .env for local development overrides.
	_ = godotenv.Load()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	if url := os.Getenv("LUNARVIEW_API_URL"); url != "" {
		config.API.BaseURL = url
	}
	if path := os.Getenv("LUNARVIEW_DB_PATH"); path != "" {
		config.Database.Path = path
	}

	httpClient := http.DefaultClient
	timeout := time.Duration(config.API.TimeoutSeconds) * time.Second

	lunar := services.NewLunarService(config.API.BaseURL, httpClient, timeout)
	geocoder := services.NewNominatimClient(
		config.Geocoder.BaseURL,
		config.Geocoder.UserAgent,
		httpClient,
		config.Geocoder.RequestsPerSecond,
	)
	locator := services.NewIPLocateClient(config.Locator.BaseURL, httpClient)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Lunar:      lunar,
		Geocoder:   geocoder,
		Locator:    locator,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "lunarview",
		Usage:    "Sun & moon dashboard for any place on Earth",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Fatalf("%v", err)
		}
		logger.Fatalf("application error: %v", err)
	}
}
