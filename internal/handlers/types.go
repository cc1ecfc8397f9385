// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package handlers

import "github.com/capline/go_speech_relay/internal/session"

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type LanguagesResponse struct {
	Languages []string `json:"languages"`
}

type TranslateResponse struct {
	Success        bool   `json:"success"`
	InputText      string `json:"input_text"`
	InputLanguage  string `json:"input_language"`
	TranslatedText string `json:"translated_text"`
	TargetLanguage string `json:"target_language"`
	AudioBase64    string `json:"audio_base64,omitempty"`
}

type HistoryResponse struct {
	SessionID string              `json:"session_id"`
	History   []session.Utterance `json:"history"`
}
