package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"server/internal/infra"
	"server/internal/pipeline"
	"server/internal/providers/music"
	"server/internal/providers/vision"
	"server/internal/providers/wiki"
	"server/internal/store"
)

// analyze runs one pipeline pass over a captured image, standing in for the
// mobile presentation layer.
func main() {
	modeFlag := flag.String("mode", "museum", "analysis mode: museum, monuments or landscape")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: analyze [-mode museum|monuments|landscape] <image-path>")
		os.Exit(2)
	}
	imagePath := flag.Arg(0)

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	mode, err := pipeline.ParseMode(*modeFlag)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid mode")
	}

	visionClient, err := vision.NewClient(vision.Options{
		BaseURL: cfg.VisionBaseURL,
		APIKey:  cfg.VisionAPIKey,
		Model:   cfg.VisionModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure vision client")
	}
	musicClient := music.NewClient(music.Options{
		BaseURL:         cfg.MusicBaseURL,
		APIKey:          cfg.MusicAPIKey,
		Model:           cfg.MusicModel,
		CallbackURL:     cfg.MusicCallbackURL,
		PollInterval:    cfg.PollInterval,
		MaxPollAttempts: cfg.PollMaxAttempts,
		Logger:          &logger,
	})
	records := store.NewClient(store.Options{BaseURL: cfg.StoreBaseURL})

	orch := pipeline.New(pipeline.Options{
		Describer: visionClient,
		Music:     musicClient,
		Records:   records,
		Logger:    logger,
	})

	ctx := context.Background()
	result, err := orch.Run(ctx, imagePath, mode)
	if err != nil {
		logger.Fatal().Err(err).Msg("analysis failed")
	}
	if result.StoreErr != nil {
		logger.Warn().Err(result.StoreErr).Msg("analysis kept in memory only")
	}

	out := map[string]any{"record": recordView(result)}
	if summary := wiki.NewClient(wiki.Options{BaseURL: cfg.WikiBaseURL, Logger: &logger}).
		Lookup(ctx, result.Record.Metadata.Name); summary != nil {
		out["wikipedia"] = map[string]string{
			"title":     summary.Title,
			"summary":   summary.Extract,
			"thumbnail": summary.Thumbnail,
			"page_url":  summary.PageURL,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func recordView(result *pipeline.Result) map[string]any {
	rec := result.Record
	view := map[string]any{
		"image_ref":  rec.ImageRef,
		"mode":       rec.Mode,
		"title":      rec.Metadata.Name,
		"artist":     rec.Metadata.Artist,
		"genre":      rec.Metadata.Genre,
		"historical": rec.Historical,
		"immersive":  rec.Immersive,
		"emotions":   rec.Emotions,
		"has_audio":  rec.HasAudio(),
	}
	if rec.HasAudio() {
		view["audio_url"] = rec.AudioURL
	}
	if result.Stored != nil {
		view["analysis_id"] = result.Stored.ID
	}
	return view
}
