// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// Participant is a speaker's per-session identity and language preference.
type Participant struct {
	SpeakerID      string `json:"speaker_id"`
	TargetLanguage string `json:"target_language"`
	DisplayName    string `json:"display_name"`
}

// Utterance is the immutable result of processing one audio chunk. It is
// appended to session history and broadcast to the room; it is never
// mutated afterwards.
type Utterance struct {
	SpeakerID      string `json:"speaker_id"`
	InputText      string `json:"input_text"`
	InputLanguage  string `json:"input_language"`
	TranslatedText string `json:"translated_text"`
	TargetLanguage string `json:"target_language"`
	Audio          []byte `json:"audio,omitempty"`
}
