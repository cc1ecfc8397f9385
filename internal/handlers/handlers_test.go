// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"testing"

	"github.com/capline/go_speech_relay/internal/config"
	"github.com/capline/go_speech_relay/internal/pipeline"
	"github.com/capline/go_speech_relay/internal/session"
)

func newTestHandler(transcriber pipeline.Transcriber, translator pipeline.Translator, synthesizer pipeline.Synthesizer) (*Handler, *session.Store) {
	store := session.NewStore()
	h := NewHandler(
		&config.Config{AppID: "speech_relay", AppVersion: "1.0.0"},
		store,
		pipeline.NewExecutor(transcriber, translator, synthesizer),
	)
	return h, store
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, fieldAudio []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if fieldAudio != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="audio"; filename="clip.webm"`)
		header.Set("Content-Type", "audio/webm")
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(fieldAudio)
	}
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestHeartbeat(t *testing.T) {
	h, _ := newTestHandler(&pipeline.StubTranscriber{}, &pipeline.StubTranslator{}, &pipeline.StubSynthesizer{})

	rec := serve(h, httptest.NewRequest("GET", "/heartbeat", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp StatusResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Fatalf("status = %q", resp.Status)
	}
}

func TestGetLanguagesSorted(t *testing.T) {
	h, _ := newTestHandler(&pipeline.StubTranscriber{}, &pipeline.StubTranslator{}, &pipeline.StubSynthesizer{})

	rec := serve(h, httptest.NewRequest("GET", "/api/v1/languages", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp LanguagesResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Languages) == 0 || !sort.StringsAreSorted(resp.Languages) {
		t.Fatalf("languages not sorted or empty: %v", resp.Languages)
	}
}

func TestTranslateAudioHappyPath(t *testing.T) {
	h, _ := newTestHandler(
		&pipeline.StubTranscriber{Result: pipeline.Transcription{Text: "bonjour", LanguageCode: "fr"}},
		&pipeline.StubTranslator{Result: "hello"},
		&pipeline.StubSynthesizer{Result: []byte{0x01}},
	)

	body, contentType := multipartBody(t, bytes.Repeat([]byte{9}, 5000), map[string]string{
		"target_language": "English",
	})
	req := httptest.NewRequest("POST", "/api/v1/translate", body)
	req.Header.Set("Content-Type", contentType)

	rec := serve(h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var resp TranslateResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Success || resp.InputText != "bonjour" || resp.TranslatedText != "hello" {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if resp.InputLanguage != "fr" || resp.TargetLanguage != "English" {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if audio, err := base64.StdEncoding.DecodeString(resp.AudioBase64); err != nil || !bytes.Equal(audio, []byte{0x01}) {
		t.Fatalf("bad audio_base64: %q", resp.AudioBase64)
	}
}

func TestTranslateAudioAcceptsShortRecordings(t *testing.T) {
	h, _ := newTestHandler(
		&pipeline.StubTranscriber{Result: pipeline.Transcription{Text: "yes", LanguageCode: "en"}},
		&pipeline.StubTranslator{Result: "haan"},
		&pipeline.StubSynthesizer{},
	)

	// Well under the realtime chunk threshold; uploads have no size floor.
	body, contentType := multipartBody(t, bytes.Repeat([]byte{9}, 200), nil)
	req := httptest.NewRequest("POST", "/api/v1/translate", body)
	req.Header.Set("Content-Type", contentType)

	rec := serve(h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var resp TranslateResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Success || resp.TranslatedText != "haan" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestTranslateAudioMissingFile(t *testing.T) {
	h, _ := newTestHandler(&pipeline.StubTranscriber{}, &pipeline.StubTranslator{}, &pipeline.StubSynthesizer{})

	body, contentType := multipartBody(t, nil, map[string]string{"target_language": "Hindi"})
	req := httptest.NewRequest("POST", "/api/v1/translate", body)
	req.Header.Set("Content-Type", contentType)

	rec := serve(h, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "no audio file provided" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestTranslateAudioNoSpeech(t *testing.T) {
	h, _ := newTestHandler(
		&pipeline.StubTranscriber{Result: pipeline.Transcription{Text: "   "}},
		&pipeline.StubTranslator{},
		&pipeline.StubSynthesizer{},
	)

	body, contentType := multipartBody(t, bytes.Repeat([]byte{9}, 5000), nil)
	req := httptest.NewRequest("POST", "/api/v1/translate", body)
	req.Header.Set("Content-Type", contentType)

	rec := serve(h, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "no speech detected" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestGetHistory(t *testing.T) {
	h, store := newTestHandler(&pipeline.StubTranscriber{}, &pipeline.StubTranslator{}, &pipeline.StubSynthesizer{})
	store.AppendHistory("room1", session.Utterance{SpeakerID: "alice", InputText: "hi"})

	rec := serve(h, httptest.NewRequest("GET", "/api/v1/sessions/room1/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp HistoryResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.SessionID != "room1" || len(resp.History) != 1 || resp.History[0].SpeakerID != "alice" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestGetHistoryUnknownSessionIsEmpty(t *testing.T) {
	h, _ := newTestHandler(&pipeline.StubTranscriber{}, &pipeline.StubTranslator{}, &pipeline.StubSynthesizer{})

	rec := serve(h, httptest.NewRequest("GET", "/api/v1/sessions/ghost/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp HistoryResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.History == nil || len(resp.History) != 0 {
		t.Fatalf("expected empty history, got %#v", resp.History)
	}
}

func TestGetCapabilities(t *testing.T) {
	h, _ := newTestHandler(&pipeline.StubTranscriber{}, &pipeline.StubTranslator{}, &pipeline.StubSynthesizer{})

	rec := serve(h, httptest.NewRequest("GET", "/api/v1/capabilities", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string]map[string]any
	json.Unmarshal(rec.Body.Bytes(), &resp)
	caps, ok := resp["speech_relay"]
	if !ok {
		t.Fatalf("missing app id key: %v", resp)
	}
	if caps["version"] != "1.0.0" {
		t.Fatalf("unexpected capabilities: %v", caps)
	}
}
