// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/capline/go_speech_relay/internal/config"
	"github.com/capline/go_speech_relay/internal/constants"
	"github.com/capline/go_speech_relay/internal/languages"
	"github.com/capline/go_speech_relay/internal/pipeline"
	"github.com/capline/go_speech_relay/internal/session"
)

// maxUploadBytes caps one-shot translation uploads.
const maxUploadBytes = 32 << 20

type Handler struct {
	Config   *config.Config
	Store    *session.Store
	Executor *pipeline.Executor
}

func NewHandler(cfg *config.Config, store *session.Store, executor *pipeline.Executor) *Handler {
	return &Handler{
		Config:   cfg,
		Store:    store,
		Executor: executor,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LanguagesResponse{Languages: languages.Names()})
}

func (h *Handler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		h.Config.AppID: map[string]any{
			"version":             h.Config.AppVersion,
			"features":            []string{"realtime_relay", "translate"},
			"supported_languages": languages.Names(),
		},
	})
}

// TranslateAudio is the one-shot endpoint: a complete recording in, the full
// transcribe/translate/synthesize result out. It shares the pipeline
// executor with the realtime path.
func (h *Handler) TranslateAudio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "no audio file provided"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read audio file"})
		return
	}

	targetLanguage := r.FormValue("target_language")
	if targetLanguage == "" {
		targetLanguage = constants.DefaultTargetLanguage
	}

	utterance, err := h.Executor.ProcessRecording(r.Context(), pipeline.Chunk{
		Audio:          audio,
		TargetLanguage: targetLanguage,
		MIMEType:       header.Header.Get("Content-Type"),
		SourceLanguage: r.FormValue("source_language"),
	})
	if err != nil {
		slog.Error("one-shot translation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "translation failed"})
		return
	}
	if utterance == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "no speech detected"})
		return
	}

	writeJSON(w, http.StatusOK, TranslateResponse{
		Success:        true,
		InputText:      utterance.InputText,
		InputLanguage:  utterance.InputLanguage,
		TranslatedText: utterance.TranslatedText,
		TargetLanguage: utterance.TargetLanguage,
		AudioBase64:    base64.StdEncoding.EncodeToString(utterance.Audio),
	})
}

// GetHistory exposes a session's utterance history as a read-only audit
// view. Unknown sessions yield an empty list rather than an error.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	history := h.Store.History(sessionID)
	if history == nil {
		history = []session.Utterance{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{SessionID: sessionID, History: history})
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /heartbeat", h.Heartbeat)
	mux.HandleFunc("GET /api/v1/languages", h.GetLanguages)
	mux.HandleFunc("GET /api/v1/capabilities", h.GetCapabilities)
	mux.HandleFunc("POST /api/v1/translate", h.TranslateAudio)
	mux.HandleFunc("GET /api/v1/sessions/{id}/history", h.GetHistory)
}
