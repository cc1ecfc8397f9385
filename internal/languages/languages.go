// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package languages

import "sort"

// supported maps human-readable language names to the codes understood by
// the translation and synthesis services. The table is fixed at build time;
// there is no runtime registration.
var supported = map[string]string{
	"English":    "en",
	"Hindi":      "hi",
	"Spanish":    "es",
	"French":     "fr",
	"German":     "de",
	"Japanese":   "ja",
	"Portuguese": "pt",
	"Russian":    "ru",
	"Arabic":     "ar",
	"Turkish":    "tr",
	"Chinese":    "zh-CN",
	"Bengali":    "bn",
	"Telugu":     "te",
	"Marathi":    "mr",
	"Tamil":      "ta",
	"Gujarati":   "gu",
	"Kannada":    "kn",
	"Urdu":       "ur",
	"Malay":      "ms",
	"Indonesian": "id",
}

// Resolve returns the language code for an exact human-readable name.
// Unknown names are a caller-handled condition: callers pick their own
// default when ok is false.
func Resolve(name string) (code string, ok bool) {
	code, ok = supported[name]
	return code, ok
}

// ResolveOr returns the code for name, or fallback when the name is unknown.
func ResolveOr(name, fallback string) string {
	if code, ok := supported[name]; ok {
		return code
	}
	return fallback
}

// Names returns all supported human-readable names in ascending order.
func Names() []string {
	names := make([]string, 0, len(supported))
	for name := range supported {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
