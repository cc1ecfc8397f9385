// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "hello" || req.SourceLang != "en" || req.TargetLang != "hi" {
			t.Errorf("unexpected request: %#v", req)
		}
		json.NewEncoder(w).Encode(translateResponse{TranslatedText: "namaste"})
	}))
	defer server.Close()

	translator := NewHTTPTranslator(server.URL, 5*time.Second)

	got, err := translator.Translate(context.Background(), "hello", "en", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "namaste" {
		t.Fatalf("translated = %q, want namaste", got)
	}
}

func TestTranslateNon200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	translator := NewHTTPTranslator(server.URL, 5*time.Second)

	if _, err := translator.Translate(context.Background(), "hello", "en", "hi"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestTranslateHonorsContext(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block) // release the handler before Close waits on it

	translator := NewHTTPTranslator(server.URL, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := translator.Translate(ctx, "hello", "en", "hi"); err == nil {
		t.Fatal("expected context deadline error")
	}
}
