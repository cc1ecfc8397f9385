// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/capline/go_speech_relay/internal/constants"
	"github.com/capline/go_speech_relay/internal/languages"
	"github.com/capline/go_speech_relay/internal/session"
)

// Chunk is one discrete unit of submitted audio, processed independently
// end-to-end.
type Chunk struct {
	SessionID string
	SpeakerID string
	Audio     []byte

	// TargetLanguage is the human-readable target name, already resolved by
	// the gateway from the request, the participant preference, or the
	// default.
	TargetLanguage string

	// MIMEType hints at the audio container; unknown or absent hints fall
	// back to WebM.
	MIMEType string

	// SourceLanguage optionally overrides the detected spoken language.
	// Detection is only a fallback.
	SourceLanguage string
}

// Executor turns one chunk into zero or one utterance. Every stage degrades
// independently: a flaky model call never drops a whole multi-party turn,
// and only genuinely empty input suppresses output.
type Executor struct {
	transcriber Transcriber
	translator  Translator
	synthesizer Synthesizer
	logger      *slog.Logger
}

func NewExecutor(transcriber Transcriber, translator Translator, synthesizer Synthesizer) *Executor {
	return &Executor{
		transcriber: transcriber,
		translator:  translator,
		synthesizer: synthesizer,
		logger:      slog.With("component", "pipeline"),
	}
}

// extFromMIME selects a container extension purely from the MIME hint.
func extFromMIME(mimeType string) string {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mt, "ogg"):
		return ".ogg"
	case strings.Contains(mt, "mpeg"), strings.Contains(mt, "mp4"), strings.Contains(mt, "aac"):
		return ".m4a"
	default:
		return ".webm"
	}
}

// Process runs decode, transcription, translation, and synthesis for a
// single streamed chunk. A nil utterance with a nil error means the chunk
// produced nothing broadcastable (too small, silence, or transcription
// failure); that is a normal outcome, not an error.
func (e *Executor) Process(ctx context.Context, chunk Chunk) (*session.Utterance, error) {
	if len(chunk.Audio) < constants.MinChunkBytes {
		e.logger.Debug("chunk below minimum size, skipping",
			"session_id", chunk.SessionID,
			"speaker_id", chunk.SpeakerID,
			"bytes", len(chunk.Audio),
		)
		return nil, nil
	}
	return e.run(ctx, chunk)
}

// ProcessRecording handles a complete uploaded recording. The minimum-size
// threshold exists for stream fragments only; a short upload is still a
// whole recording and goes through the full pipeline.
func (e *Executor) ProcessRecording(ctx context.Context, chunk Chunk) (*session.Utterance, error) {
	return e.run(ctx, chunk)
}

func (e *Executor) run(ctx context.Context, chunk Chunk) (*session.Utterance, error) {
	ext := extFromMIME(chunk.MIMEType)

	transcribeCtx, cancel := context.WithTimeout(ctx, constants.TranscribeTimeout)
	result, err := e.transcriber.Transcribe(transcribeCtx, chunk.Audio, ext)
	cancel()
	if err != nil {
		// A transient ASR failure on one chunk must not break the session.
		e.logger.Warn("transcription failed, dropping chunk",
			"error", err,
			"session_id", chunk.SessionID,
			"speaker_id", chunk.SpeakerID,
		)
		return nil, nil
	}

	inputText := strings.TrimSpace(result.Text)
	if inputText == "" {
		// Silence or noise; nothing to relay.
		return nil, nil
	}

	sourceCode := result.LanguageCode
	if sourceCode == "" {
		sourceCode = constants.DefaultSourceCode
	}
	if chunk.SourceLanguage != "" {
		if override, ok := languages.Resolve(chunk.SourceLanguage); ok {
			sourceCode = override
		}
	}

	targetCode := languages.ResolveOr(chunk.TargetLanguage, constants.DefaultTargetCode)

	translateCtx, cancel := context.WithTimeout(ctx, constants.TranslateTimeout)
	translated, err := e.translator.Translate(translateCtx, inputText, sourceCode, targetCode)
	cancel()
	if err != nil {
		e.logger.Warn("translation failed, using source text",
			"error", err,
			"source_code", sourceCode,
			"target_code", targetCode,
		)
		translated = inputText
	}

	var audio []byte
	synthesizeCtx, cancel := context.WithTimeout(ctx, constants.SynthesizeTimeout)
	audio, err = e.synthesizer.Synthesize(synthesizeCtx, translated, targetCode)
	cancel()
	if err != nil {
		e.logger.Warn("synthesis failed, emitting text only",
			"error", err,
			"target_code", targetCode,
		)
		audio = nil
	}

	return &session.Utterance{
		SpeakerID:      chunk.SpeakerID,
		InputText:      inputText,
		InputLanguage:  sourceCode,
		TranslatedText: translated,
		TargetLanguage: chunk.TargetLanguage,
		Audio:          audio,
	}, nil
}
