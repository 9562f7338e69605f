package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"theatre-podcast/internal/config"
	"theatre-podcast/internal/feed"
	"theatre-podcast/internal/library"
)

func main() {
	logger := log.New(os.Stdout, "generate-feed ", log.LstdFlags|log.Lmsgprefix)

	audioDir, err := config.AudioDir()
	if err != nil {
		logger.Fatalf("resolve audio directory: %v", err)
	}

	outputPath, err := config.FeedOutputPath()
	if err != nil {
		logger.Fatalf("resolve feed output: %v", err)
	}

	feedConfig, err := config.ResolveFeedMetadata()
	if err != nil {
		logger.Fatalf("resolve feed metadata: %v", err)
	}

	builder := &feed.Builder{
		AudioDir:   audioDir,
		OutputPath: outputPath,
		Channel: feed.Channel{
			Title:       feedConfig.Title,
			Link:        feedConfig.Link,
			Description: feedConfig.Description,
			Language:    feedConfig.Language,
			ArtworkURL:  feedConfig.ArtworkURL,
			BaseURL:     feedConfig.BaseURL,
			Author:      feedConfig.Author,
		},
		Order:    feedConfig.Order,
		Tiebreak: feedConfig.Tiebreak,
		Logger:   logger,
	}

	if err := generate(builder, logger); err != nil {
		if errors.Is(err, feed.ErrAudioDirMissing) {
			logger.Printf("folder %q does not exist", audioDir)
			return
		}
		logger.Fatalf("generate feed: %v", err)
	}

	if !config.FeedWatch() {
		return
	}

	watcher, err := library.NewWatcher(audioDir, []string{".mp3"}, config.RefreshDebounce(), logger)
	if err != nil {
		logger.Fatalf("watch %s: %v", audioDir, err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Printf("error closing watcher: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Printf("watching %s for changes", audioDir)
	watcher.Run(ctx, func() {
		if err := generate(builder, logger); err != nil {
			logger.Printf("generate feed: %v", err)
		}
	})
	logger.Println("shutdown complete")
}

func generate(builder *feed.Builder, logger *log.Logger) error {
	count, err := builder.Generate()
	if err != nil {
		return err
	}
	logger.Printf("rss feed generated: %s (%d episodes)", builder.OutputPath, count)
	return nil
}
