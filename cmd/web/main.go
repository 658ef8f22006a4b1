package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"thirdcoast.systems/mp3convert/cmd/web/internal/web"
	"thirdcoast.systems/mp3convert/internal/config"
	"thirdcoast.systems/mp3convert/internal/converter"
	"thirdcoast.systems/mp3convert/pkg/cover"
	"thirdcoast.systems/mp3convert/pkg/ffmpeg"
	"thirdcoast.systems/mp3convert/pkg/ytdlp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting web service")

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(conf.DownloadsDir, 0o755); err != nil {
		slog.Error("failed to create downloads dir", "dir", conf.DownloadsDir, "error", err)
		os.Exit(1)
	}

	client := &ytdlp.Client{
		Path:           conf.YtdlpPath,
		CookiesFile:    conf.CookiesFile,
		FFmpegLocation: conf.FFmpegLocation,
		LogCallback: func(stream string, line string) {
			slog.Debug("yt-dlp", "stream", stream, "line", line)
		},
	}

	if conf.YtdlpAutoUpdate {
		updateCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		if err := client.Update(updateCtx); err != nil {
			slog.Warn("yt-dlp self-update failed", "error", err)
		}
		cancel()
	}

	if v, err := client.Version(ctx); err != nil {
		slog.Warn("yt-dlp not runnable; conversions will fail", "path", client.PathOrDefault(), "error", err)
	} else {
		slog.Info("yt-dlp ready", "path", client.PathOrDefault(), "version", v)
	}

	conv := converter.New(client, ffmpeg.ProbeAt(conf.FFmpegLocation), converter.Options{
		DownloadsDir:   conf.DownloadsDir,
		AudioQuality:   conf.AudioQuality,
		TitleMaxLength: conf.TitleMaxLength,
		Timeout:        conf.ConvertTimeout,
		Cover: cover.Options{
			Normalize:    conf.CoverNormalize,
			MaxDimension: conf.CoverMaxDimension,
		},
	})

	e, err := web.NewWebserver(ctx, conf, conv)
	if err != nil {
		slog.Error("failed to create webserver", "error", err)
		os.Exit(1)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr, "downloads", conf.DownloadsDir)
	if err := e.Start(addr); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// Echo returns an error on Shutdown; treat it as normal if context is done.
		if ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
