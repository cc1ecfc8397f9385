// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"sync"
)

// StubTranscriber is a canned Transcriber for development and tests.
type StubTranscriber struct {
	mu     sync.Mutex
	Result Transcription
	Err    error
	// Fn, when set, takes precedence over Result/Err.
	Fn    func(ctx context.Context, audio []byte, ext string) (Transcription, error)
	calls []string
}

func (s *StubTranscriber) Transcribe(ctx context.Context, audio []byte, ext string) (Transcription, error) {
	s.mu.Lock()
	s.calls = append(s.calls, ext)
	fn := s.Fn
	result, err := s.Result, s.Err
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, audio, ext)
	}
	return result, err
}

// Calls returns the container extensions seen so far, in call order.
func (s *StubTranscriber) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// StubTranslator is a canned Translator for development and tests.
type StubTranslator struct {
	mu     sync.Mutex
	Result string
	Err    error
	Fn     func(ctx context.Context, text, sourceCode, targetCode string) (string, error)

	LastSource string
	LastTarget string
}

func (s *StubTranslator) Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	s.mu.Lock()
	s.LastSource = sourceCode
	s.LastTarget = targetCode
	fn := s.Fn
	result, err := s.Result, s.Err
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, text, sourceCode, targetCode)
	}
	return result, err
}

// StubSynthesizer is a canned Synthesizer for development and tests.
type StubSynthesizer struct {
	mu     sync.Mutex
	Result []byte
	Err    error
}

func (s *StubSynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Result, s.Err
}
