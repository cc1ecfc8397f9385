// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import "context"

// Transcription is the outcome of one speech-to-text call.
type Transcription struct {
	Text         string
	LanguageCode string
}

// Transcriber converts raw container audio into text plus a detected
// language code. Implementations are external model services; the executor
// treats failures as a per-chunk condition, never as a session fault.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, ext string) (Transcription, error)
}

// Translator translates text between language codes. A failing
// implementation does not fail the chunk: the executor falls back to the
// source text.
type Translator interface {
	Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error)
}

// Synthesizer renders translated text to audio. Synthesis is best-effort;
// on failure the utterance is produced without audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, error)
}
