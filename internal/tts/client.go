// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tts implements the synthesis port against an HTTP speech service.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type synthesizeRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// HTTPSynthesizer POSTs translated text to a speech service and returns the
// rendered audio bytes. Synthesis is best-effort: callers drop the audio on
// error and keep the text.
type HTTPSynthesizer struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPSynthesizer(endpoint string, timeout time.Duration) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.With("component", "http_synthesizer"),
	}
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	body, err := json.Marshal(synthesizeRequest{Text: text, Lang: languageCode})
	if err != nil {
		return nil, fmt.Errorf("encoding synthesize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating synthesize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing synthesize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("speech service returned %d: %s", resp.StatusCode, raw)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading synthesized audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech service returned empty audio")
	}
	return audio, nil
}
