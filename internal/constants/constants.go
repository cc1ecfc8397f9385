// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package constants

import "time"

const (
	// MinChunkBytes rejects chunks too small to contain recoverable audio,
	// roughly a few milliseconds of Opus-in-WebM.
	MinChunkBytes = 4000

	// MaxInflightChunksPerSession bounds concurrently processing pipelines
	// for a single session so a runaway sender cannot exhaust memory.
	MaxInflightChunksPerSession = 8

	// DefaultTargetLanguage is the human-readable fallback when neither the
	// chunk nor the participant carries a target language.
	DefaultTargetLanguage = "Hindi"

	// DefaultTargetCode backs unresolvable target language names.
	DefaultTargetCode = "hi"

	// DefaultSourceCode is assumed when the transcriber reports no language.
	DefaultSourceCode = "en"

	SendChannelSize   = 64
	WriteTimeout      = 10 * time.Second
	PongTimeout       = 120 * time.Second
	PingInterval      = 45 * time.Second
	MaxMessageBytes   = 10 << 20 // base64 audio chunks dominate frame size
	TranscribeTimeout = 60 * time.Second
	TranslateTimeout  = 30 * time.Second
	SynthesizeTimeout = 30 * time.Second
	HTTPReadTimeout   = 30 * time.Second
	HTTPWriteTimeout  = 60 * time.Second
	HTTPIdleTimeout   = 120 * time.Second
	ShutdownTimeout   = 30 * time.Second
)
