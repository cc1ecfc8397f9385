// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package translate implements the translation port against an HTTP
// text2text service.
package translate

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

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// HTTPTranslator POSTs text to a translation service. The pipeline treats
// any error here as non-fatal and falls back to the source text.
type HTTPTranslator struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPTranslator(endpoint string, timeout time.Duration) *HTTPTranslator {
	return &HTTPTranslator{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.With("component", "http_translator"),
	}
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Text:       text,
		SourceLang: sourceCode,
		TargetLang: targetCode,
	})
	if err != nil {
		return "", fmt.Errorf("encoding translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translate service returned %d: %s", resp.StatusCode, raw)
	}

	var parsed translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding translate response: %w", err)
	}
	return parsed.TranslatedText, nil
}
