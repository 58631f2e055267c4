// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package citation

import (
	"testing"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Segment
	}{
		{
			name: "no markers",
			text: "The northern pass is held by House Veyne.",
			want: []Segment{
				{Kind: KindText, Text: "The northern pass is held by House Veyne."},
			},
		},
		{
			name: "single trailing marker",
			text: "The pass is held by House Veyne. [[Source: northern-pass.md]]",
			want: []Segment{
				{Kind: KindText, Text: "The pass is held by House Veyne. "},
				{Kind: KindCitation, Name: "northern-pass.md"},
			},
		},
		{
			name: "marker mid-text",
			text: "See [[Source: treaty.md]] for the full terms.",
			want: []Segment{
				{Kind: KindText, Text: "See "},
				{Kind: KindCitation, Name: "treaty.md"},
				{Kind: KindText, Text: " for the full terms."},
			},
		},
		{
			name: "multiple markers",
			text: "[[Source: a.md]][[Source: b.md]] done",
			want: []Segment{
				{Kind: KindCitation, Name: "a.md"},
				{Kind: KindCitation, Name: "b.md"},
				{Kind: KindText, Text: " done"},
			},
		},
		{
			name: "unclosed marker is plain text",
			text: "broken [[Source: never-closed",
			want: []Segment{
				{Kind: KindText, Text: "broken [[Source: never-closed"},
			},
		},
		{
			name: "name with spaces",
			text: "[[Source: Northern Pass Garrison]]",
			want: []Segment{
				{Kind: KindCitation, Name: "Northern Pass Garrison"},
			},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.text)
			if len(got) != len(tc.want) {
				t.Fatalf("Parse returned %d segments, want %d: %+v", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("segment %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestParse_NonEmptyNeverEmpty(t *testing.T) {
	inputs := []string{"x", "[[Source: a]]", " ", "[[", "]]"}
	for _, in := range inputs {
		if len(Parse(in)) == 0 {
			t.Errorf("Parse(%q) returned no segments for non-empty input", in)
		}
	}
}

func TestJoin_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain text only",
		"lead [[Source: a.md]] middle [[Source: b na me]] tail",
		"[[Source: a]][[Source: b]]",
		"unclosed [[Source: nope",
		"unicode 日本語 [[Source: 資料.md]] text",
	}
	for _, in := range inputs {
		if got := Join(Parse(in)); got != in {
			t.Errorf("round trip failed:\n in:  %q\n out: %q", in, got)
		}
	}
}

func TestNames(t *testing.T) {
	segs := Parse("a [[Source: x.md]] b [[Source: y.md]] c [[Source: x.md]]")
	names := Names(segs)
	want := []string{"x.md", "y.md", "x.md"}
	if len(names) != len(want) {
		t.Fatalf("Names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestStrip(t *testing.T) {
	got := Strip("The pass is held. [[Source: pass.md]] See the treaty.")
	want := "The pass is held.  See the treaty."
	if got != want {
		t.Errorf("Strip = %q, want %q", got, want)
	}
}

// =============================================================================
// RESOLVER TESTS
// =============================================================================

type mapIndex map[string]Asset

func (m mapIndex) LookupByName(name string) (Asset, bool) {
	a, ok := m[name]
	return a, ok
}

func TestResolver_Hit(t *testing.T) {
	idx := mapIndex{
		"northern-pass.md": {ID: "asset-1", DisplayName: "northern-pass.md"},
	}
	r := NewResolver(idx)

	asset, notice, ok := r.Resolve("Northern-Pass.md")
	if !ok {
		t.Fatalf("expected hit, got notice %q", notice)
	}
	if asset.ID != "asset-1" {
		t.Errorf("asset.ID = %q, want asset-1", asset.ID)
	}
}

func TestResolver_MissIsRecoverable(t *testing.T) {
	r := NewResolver(mapIndex{})
	_, notice, ok := r.Resolve("missing.md")
	if ok {
		t.Fatal("expected miss")
	}
	if notice == "" {
		t.Error("miss should carry a user-facing notice")
	}
}

func TestResolver_NilIndex(t *testing.T) {
	r := NewResolver(nil)
	if _, _, ok := r.Resolve("anything"); ok {
		t.Error("nil index should always miss")
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Treaty.md", "treaty.md"},
		{"  padded  ", "padded"},
		// NFD é (e + combining acute) folds to the NFC composed form.
		{"Café.md", "café.md"},
	}
	for _, tc := range tests {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
