// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
)

type Config struct {
	AppID        string
	AppVersion   string
	Port         string
	ASRAPIKey    string
	ASRBaseURL   string
	ASRModel     string
	TranslateURL string
	TTSURL       string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppID:        os.Getenv("RELAY_APP_ID"),
		AppVersion:   os.Getenv("RELAY_APP_VERSION"),
		Port:         os.Getenv("RELAY_PORT"),
		ASRAPIKey:    os.Getenv("RELAY_ASR_API_KEY"),
		ASRBaseURL:   os.Getenv("RELAY_ASR_BASE_URL"),
		ASRModel:     os.Getenv("RELAY_ASR_MODEL"),
		TranslateURL: os.Getenv("RELAY_TRANSLATE_URL"),
		TTSURL:       os.Getenv("RELAY_TTS_URL"),
	}

	if cfg.TranslateURL == "" {
		return nil, fmt.Errorf("RELAY_TRANSLATE_URL environment variable is required")
	}
	if cfg.TTSURL == "" {
		return nil, fmt.Errorf("RELAY_TTS_URL environment variable is required")
	}
	if cfg.ASRAPIKey == "" {
		// Local OpenAI-compatible transcription servers accept any key.
		cfg.ASRAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.AppID == "" {
		cfg.AppID = "speech_relay"
	}
	if cfg.AppVersion == "" {
		cfg.AppVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "5000"
	}

	return cfg, nil
}
