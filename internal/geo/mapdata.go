// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geo extracts and validates the embedded map payload in AI replies.
package geo

import (
	"encoding/json"
	"strings"
)

// Marker is the literal tag that precedes an embedded map JSON payload.
// The payload must follow the marker immediately, on the same line.
const Marker = "[MAP_DATA]"

// =============================================================================
// MAP DATA TYPES
// =============================================================================

// MapLocation is a single point of interest.
type MapLocation struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// MapPoint is one vertex of a path.
type MapPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapPath is an ordered polyline; rendering order is significant.
type MapPath []MapPoint

// MapView is an explicit camera override.
type MapView struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom float64 `json:"zoom"`
}

// MapData is the one bit-exact wire contract between the model's output and
// this client. A reply contains at most one MapData block.
type MapData struct {
	Locations []MapLocation `json:"locations"`
	Paths     []MapPath     `json:"paths"`
	View      *MapView      `json:"view,omitempty"`
}

// IsEmpty reports whether the payload carries no points at all.
func (d *MapData) IsEmpty() bool {
	return len(d.Locations) == 0 && len(d.Paths) == 0
}

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract scans text for the first Marker followed by a same-line JSON object
// and splits the text around it.
//
// The JSON span is the shortest balanced-brace prefix that decodes into
// MapData. When no marker is present, when the braces never balance before a
// line break or end of input (a truncated, still-streaming block), or when
// the balanced span fails to decode, the whole text is returned unchanged
// with a nil MapData: malformed map blocks degrade to ordinary prose, never
// to a visible error.
//
// Only the first marker is honored; any later marker stays literal text
// inside the after segment.
func Extract(text string) (before string, data *MapData, after string) {
	idx := strings.Index(text, Marker)
	if idx < 0 {
		return text, nil, ""
	}

	rest := text[idx+len(Marker):]
	span, ok := jsonSpan(rest)
	if !ok {
		return text, nil, ""
	}

	var decoded MapData
	if err := json.Unmarshal([]byte(span), &decoded); err != nil {
		return text, nil, ""
	}

	return text[:idx], &decoded, rest[len(span):]
}

// jsonSpan finds the shortest prefix of s that is a balanced-brace JSON
// object with no line breaks inside. Brace depth tracking is string-aware so
// braces inside JSON string values do not terminate the span early.
func jsonSpan(s string) (string, bool) {
	if len(s) == 0 || s[0] != '{' {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if c == '\n' || c == '\r' {
			// The block must be a single line; a break before the
			// braces balance means there is no valid span.
			return "", false
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}

	// Ran out of input with open braces: the stream has not yet delivered
	// the closing brace.
	return "", false
}
