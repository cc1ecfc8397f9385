// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/capline/go_speech_relay/internal/asr"
	"github.com/capline/go_speech_relay/internal/config"
	"github.com/capline/go_speech_relay/internal/constants"
	"github.com/capline/go_speech_relay/internal/gateway"
	"github.com/capline/go_speech_relay/internal/handlers"
	"github.com/capline/go_speech_relay/internal/pipeline"
	"github.com/capline/go_speech_relay/internal/session"
	"github.com/capline/go_speech_relay/internal/translate"
	"github.com/capline/go_speech_relay/internal/tts"
)

func main() {
	// .env is optional; plain environment variables work without it.
	_ = godotenv.Load()

	logLevel := slog.LevelInfo
	if os.Getenv("RELAY_LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting go_speech_relay",
		"app_id", cfg.AppID,
		"app_version", cfg.AppVersion,
		"port", cfg.Port,
	)

	transcriber := asr.NewWhisperTranscriber(cfg.ASRAPIKey, cfg.ASRBaseURL, cfg.ASRModel)
	translator := translate.NewHTTPTranslator(cfg.TranslateURL, constants.TranslateTimeout)
	synthesizer := tts.NewHTTPSynthesizer(cfg.TTSURL, constants.SynthesizeTimeout)

	store := session.NewStore()
	executor := pipeline.NewExecutor(transcriber, translator, synthesizer)
	gw := gateway.New(store, executor)
	h := handlers.NewHandler(cfg, store, executor)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.HandleFunc("GET /ws", gw.ServeWS)

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  constants.HTTPReadTimeout,
		WriteTimeout: constants.HTTPWriteTimeout,
		IdleTimeout:  constants.HTTPIdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	addr := ":" + cfg.Port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}
	slog.Info("HTTP server listening", "addr", addr)

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	gw.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
