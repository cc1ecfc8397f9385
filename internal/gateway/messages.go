// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import "github.com/capline/go_speech_relay/internal/session"

// Client → server event names.
const (
	EventJoinSession  = "join_session"
	EventLeaveSession = "leave_session"
	EventAudioChunk   = "audio_chunk"
)

// Server → client event names.
const (
	EventSessionJoined     = "session_joined"
	EventParticipantUpdate = "participant_update"
	EventTranslationResult = "translation_result"
	EventError             = "error"
)

// envelope carries only the discriminator; the full frame is decoded a
// second time into the event-specific request type.
type envelope struct {
	Type string `json:"type"`
}

type JoinRequest struct {
	Type           string `json:"type"`
	SessionID      string `json:"session_id"`
	SpeakerID      string `json:"speaker_id"`
	TargetLanguage string `json:"target_language,omitempty"`
	DisplayName    string `json:"display_name,omitempty"`
}

type LeaveRequest struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	SpeakerID string `json:"speaker_id"`
}

type ChunkRequest struct {
	Type           string `json:"type"`
	SessionID      string `json:"session_id"`
	SpeakerID      string `json:"speaker_id"`
	Audio          string `json:"audio"` // base64-encoded container bytes
	TargetLanguage string `json:"target_language,omitempty"`
	MIMEType       string `json:"mime_type,omitempty"`
	SourceLanguage string `json:"source_language,omitempty"`
}

type SessionJoinedEvent struct {
	Type           string `json:"type"`
	SessionID      string `json:"session_id"`
	SpeakerID      string `json:"speaker_id"`
	TargetLanguage string `json:"target_language"`
	DisplayName    string `json:"display_name"`
}

type ParticipantUpdateEvent struct {
	Type         string                         `json:"type"`
	SessionID    string                         `json:"session_id"`
	Participants map[string]session.Participant `json:"participants"`
}

type TranslationResultEvent struct {
	Type           string `json:"type"`
	SessionID      string `json:"session_id"`
	SpeakerID      string `json:"speaker_id"`
	InputText      string `json:"input_text"`
	InputLanguage  string `json:"input_language"`
	TranslatedText string `json:"translated_text"`
	TargetLanguage string `json:"target_language"`
	Audio          []byte `json:"audio,omitempty"` // marshals as base64
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message}
}

func translationResultEvent(sessionID string, u session.Utterance) TranslationResultEvent {
	return TranslationResultEvent{
		Type:           EventTranslationResult,
		SessionID:      sessionID,
		SpeakerID:      u.SpeakerID,
		InputText:      u.InputText,
		InputLanguage:  u.InputLanguage,
		TranslatedText: u.TranslatedText,
		TargetLanguage: u.TargetLanguage,
		Audio:          u.Audio,
	}
}
