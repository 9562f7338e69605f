package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"theatre-podcast/internal/config"
	"theatre-podcast/internal/transcode"
)

func main() {
	logger := log.New(os.Stdout, "compress-audio ", log.LstdFlags|log.Lmsgprefix)

	inputDir, err := config.RawAudioDir()
	if err != nil {
		logger.Fatalf("resolve input directory: %v", err)
	}

	outputDir, err := config.ResolveOutputDir()
	if err != nil {
		logger.Fatalf("resolve output directory: %v", err)
	}

	bitrate, err := config.TargetBitrate()
	if err != nil {
		logger.Fatalf("resolve target bitrate: %v", err)
	}

	transcoder := &transcode.Transcoder{
		InputDir:   inputDir,
		OutputDir:  outputDir,
		Extensions: config.TranscodeExtensions(),
		Bitrate:    bitrate,
		Codec: &transcode.FFmpeg{
			Binary:      config.FFmpegPath(),
			ProbeBinary: config.FFprobePath(),
		},
		Logger: logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Printf("compressing %s -> %s at %s", inputDir, outputDir, bitrate)
	stats, err := transcoder.Run(ctx)
	switch {
	case errors.Is(err, transcode.ErrInputDirMissing):
		logger.Printf("folder %q does not exist", inputDir)
		return
	case errors.Is(err, context.Canceled):
		logger.Printf("interrupted after %d converted, %d skipped, %d failed", stats.Converted, stats.Skipped, stats.Failed)
		return
	case err != nil:
		logger.Fatalf("compress audio: %v", err)
	}

	logger.Printf("done: %d converted, %d skipped, %d failed", stats.Converted, stats.Skipped, stats.Failed)
}
