// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package languages

import (
	"sort"
	"testing"
)

func TestResolveKnownNames(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{"English", "en"},
		{"Hindi", "hi"},
		{"Chinese", "zh-CN"},
		{"Indonesian", "id"},
	}

	for _, tc := range cases {
		code, ok := Resolve(tc.name)
		if !ok {
			t.Fatalf("Resolve(%q) not found", tc.name)
		}
		if code != tc.code {
			t.Fatalf("Resolve(%q) = %q, want %q", tc.name, code, tc.code)
		}
	}
}

func TestResolveIsCaseSensitive(t *testing.T) {
	if _, ok := Resolve("english"); ok {
		t.Fatal("lowercase name should not resolve")
	}
	if _, ok := Resolve("Klingon"); ok {
		t.Fatal("unknown name should not resolve")
	}
}

func TestResolveOrFallsBack(t *testing.T) {
	if got := ResolveOr("French", "hi"); got != "fr" {
		t.Fatalf("ResolveOr(French) = %q, want fr", got)
	}
	if got := ResolveOr("Elvish", "hi"); got != "hi" {
		t.Fatalf("ResolveOr(Elvish) = %q, want hi", got)
	}
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	if len(names) != len(supported) {
		t.Fatalf("Names() returned %d entries, want %d", len(names), len(supported))
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("Names() not sorted: %v", names)
	}
	for _, name := range names {
		if _, ok := Resolve(name); !ok {
			t.Fatalf("name %q from Names() does not resolve", name)
		}
	}
}
