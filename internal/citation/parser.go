// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package citation extracts vault-source citations from assistant text.
package citation

import "strings"

// Citation markers as the backend emits them. The name between the
// delimiters is a vault asset's display name.
const (
	markerOpen  = "[[Source: "
	markerClose = "]]"
)

// =============================================================================
// SEGMENT TYPE
// =============================================================================

// SegmentKind discriminates plain text from citation references.
type SegmentKind int

const (
	KindText SegmentKind = iota
	KindCitation
)

// Segment is one renderable piece of an assistant reply. Text segments
// carry the literal text; citation segments carry the asset display name.
type Segment struct {
	Kind SegmentKind
	// Text is the literal content for KindText segments.
	Text string
	// Name is the asset display name for KindCitation segments.
	Name string
}

// Raw returns the segment exactly as it appeared in the source text, so
// Join(Parse(s)) == s for any input.
func (s Segment) Raw() string {
	if s.Kind == KindCitation {
		return markerOpen + s.Name + markerClose
	}
	return s.Text
}

// =============================================================================
// PARSING
// =============================================================================

// Parse scans text left to right for non-overlapping [[Source: name]]
// markers and splits it into ordered segments: text segments for the
// gaps, citation segments for the markers. The whole input is consumed
// eagerly; non-empty input always yields at least one segment. A marker
// that never closes is treated as plain text.
func Parse(text string) []Segment {
	if text == "" {
		return nil
	}

	var segments []Segment
	rest := text
	for {
		start := strings.Index(rest, markerOpen)
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+len(markerOpen):], markerClose)
		if end < 0 {
			break
		}

		if start > 0 {
			segments = append(segments, Segment{Kind: KindText, Text: rest[:start]})
		}
		name := rest[start+len(markerOpen) : start+len(markerOpen)+end]
		segments = append(segments, Segment{Kind: KindCitation, Name: name})
		rest = rest[start+len(markerOpen)+end+len(markerClose):]
	}

	if rest != "" {
		segments = append(segments, Segment{Kind: KindText, Text: rest})
	}
	return segments
}

// Join reassembles segments into the original text.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Raw())
	}
	return b.String()
}

// Names returns the citation names in order of appearance, duplicates
// included.
func Names(segments []Segment) []string {
	var names []string
	for _, s := range segments {
		if s.Kind == KindCitation {
			names = append(names, s.Name)
		}
	}
	return names
}

// Strip returns the text with citation markers removed, for width math
// and plain-text export.
func Strip(text string) string {
	var b strings.Builder
	for _, s := range Parse(text) {
		if s.Kind == KindText {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
