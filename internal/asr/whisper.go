// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package asr implements the transcription port against an
// OpenAI-compatible Whisper API.
package asr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/capline/go_speech_relay/internal/languages"
	"github.com/capline/go_speech_relay/internal/pipeline"
)

// WhisperTranscriber calls a Whisper speech-to-text endpoint. The base URL
// is configurable so any OpenAI-compatible server works, including a local
// one.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewWhisperTranscriber(apiKey, baseURL, model string) *WhisperTranscriber {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperTranscriber{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: slog.With("component", "whisper_transcriber"),
	}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, ext string) (pipeline.Transcription, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		Reader:   bytes.NewReader(audio),
		FilePath: "chunk" + ext,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return pipeline.Transcription{}, fmt.Errorf("whisper transcription: %w", err)
	}

	t.logger.Debug("transcribed chunk", "detected_language", resp.Language, "chars", len(resp.Text))

	return pipeline.Transcription{
		Text:         resp.Text,
		LanguageCode: normalizeLanguage(resp.Language),
	}, nil
}

// normalizeLanguage maps Whisper's detected language to a registry code.
// Verbose responses spell the language out ("english"); some servers return
// a code ("en") directly. Unrecognized values fall back to empty, letting
// the pipeline apply its own default.
func normalizeLanguage(detected string) string {
	if detected == "" {
		return ""
	}
	if strings.Contains(detected, "-") {
		return detected
	}
	if len(detected) <= 3 {
		return strings.ToLower(detected)
	}
	name := strings.ToUpper(detected[:1]) + strings.ToLower(detected[1:])
	if code, ok := languages.Resolve(name); ok {
		return code
	}
	return ""
}
