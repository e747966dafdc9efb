// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// EXTRACTION TESTS
// =============================================================================

func TestExtract_WellFormedBlock(t *testing.T) {
	text := `Found locations. [MAP_DATA]{"locations":[{"lat":28.6,"lng":77.2,"label":"Delhi"}],"paths":[],"view":{"lat":28.6,"lng":77.2,"zoom":10}} More text.`

	before, data, after := Extract(text)

	assert.Equal(t, "Found locations. ", before)
	assert.Equal(t, " More text.", after)
	require.NotNil(t, data)
	require.Len(t, data.Locations, 1)
	assert.Equal(t, MapLocation{Lat: 28.6, Lng: 77.2, Label: "Delhi"}, data.Locations[0])
	assert.Empty(t, data.Paths)
	require.NotNil(t, data.View)
	assert.Equal(t, 28.6, data.View.Lat)
	assert.Equal(t, 77.2, data.View.Lng)
	assert.Equal(t, 10.0, data.View.Zoom)
}

func TestExtract_NoMarker(t *testing.T) {
	text := "Just a plain analysis with no geography."

	before, data, after := Extract(text)

	assert.Equal(t, text, before)
	assert.Nil(t, data)
	assert.Empty(t, after)
}

func TestExtract_TruncatedJSON(t *testing.T) {
	// Simulates a stream that has not yet delivered the closing brace.
	cases := []string{
		`Routes below. [MAP_DATA]{"locations":[{"lat":28.6,`,
		`Routes below. [MAP_DATA]{`,
		`Routes below. [MAP_DATA]`,
		`Routes below. [MAP_DATA]{"locations":[{"lat":28.6,"lng":77.2,"label":"De`,
	}

	for _, text := range cases {
		before, data, after := Extract(text)
		assert.Equal(t, text, before, "truncated block must be treated as absent")
		assert.Nil(t, data)
		assert.Empty(t, after)
	}
}

func TestExtract_MalformedShapeFallsBackToProse(t *testing.T) {
	// Balanced braces but the wrong shape for MapData.
	text := `See map: [MAP_DATA]{"locations":"not-a-list"} trailing.`

	before, data, after := Extract(text)

	assert.Equal(t, text, before)
	assert.Nil(t, data)
	assert.Empty(t, after)
}

func TestExtract_LineBreakInsideBlock(t *testing.T) {
	// The block must be a single line; a break inside invalidates it.
	text := "x [MAP_DATA]{\"locations\":[],\n\"paths\":[]} y"

	before, data, _ := Extract(text)

	assert.Equal(t, text, before)
	assert.Nil(t, data)
}

func TestExtract_BracesInsideStringValues(t *testing.T) {
	text := `[MAP_DATA]{"locations":[{"lat":1,"lng":2,"label":"curly {brace} label"}],"paths":[]} done`

	before, data, after := Extract(text)

	assert.Empty(t, before)
	require.NotNil(t, data)
	assert.Equal(t, "curly {brace} label", data.Locations[0].Label)
	assert.Equal(t, " done", after)
}

func TestExtract_OnlyFirstMarkerHonored(t *testing.T) {
	text := `a [MAP_DATA]{"locations":[],"paths":[]} b [MAP_DATA]{"locations":[],"paths":[]} c`

	before, data, after := Extract(text)

	assert.Equal(t, "a ", before)
	require.NotNil(t, data)
	// The second block stays literal text in the after segment.
	assert.Equal(t, ` b [MAP_DATA]{"locations":[],"paths":[]} c`, after)
}

func TestExtract_EmptyLocationsAndPathsIsValid(t *testing.T) {
	text := `[MAP_DATA]{"locations":[],"paths":[]}`

	before, data, after := Extract(text)

	assert.Empty(t, before)
	assert.Empty(t, after)
	require.NotNil(t, data)
	assert.True(t, data.IsEmpty())
}

func TestExtract_Idempotent(t *testing.T) {
	text := `Before [MAP_DATA]{"locations":[{"lat":1,"lng":2,"label":"A"}],"paths":[[{"lat":1,"lng":2},{"lat":3,"lng":4}]]} after`

	b1, d1, a1 := Extract(text)
	b2, d2, a2 := Extract(text)

	assert.Equal(t, b1, b2)
	assert.Equal(t, a1, a2)
	assert.Equal(t, d1, d2)
}

func TestExtract_RoundTripsPayload(t *testing.T) {
	text := `[MAP_DATA]{"locations":[{"lat":12.97,"lng":77.59,"label":"Bengaluru"},{"lat":28.6,"lng":77.2,"label":"Delhi"}],"paths":[[{"lat":12.97,"lng":77.59},{"lat":28.6,"lng":77.2}]]}`

	_, data, _ := Extract(text)

	require.NotNil(t, data)
	require.Len(t, data.Locations, 2)
	assert.Equal(t, "Bengaluru", data.Locations[0].Label)
	assert.Equal(t, "Delhi", data.Locations[1].Label)
	require.Len(t, data.Paths, 1)
	assert.Equal(t, MapPath{{Lat: 12.97, Lng: 77.59}, {Lat: 28.6, Lng: 77.2}}, data.Paths[0])
	assert.Nil(t, data.View)
}

// =============================================================================
// VIEWPORT TESTS
// =============================================================================

func TestFit_ExplicitViewWins(t *testing.T) {
	data := &MapData{
		Locations: []MapLocation{{Lat: 1, Lng: 1, Label: "ignored"}},
		View:      &MapView{Lat: 28.6, Lng: 77.2, Zoom: 10},
	}

	vp := Fit(data)

	assert.Equal(t, Viewport{CenterLat: 28.6, CenterLng: 77.2, Zoom: 10}, vp)
}

func TestFit_EmptyDataUsesDefaultCamera(t *testing.T) {
	vp := Fit(&MapData{})

	assert.Equal(t, DefaultCenterLat, vp.CenterLat)
	assert.Equal(t, DefaultCenterLng, vp.CenterLng)
	assert.Equal(t, float64(DefaultZoom), vp.Zoom)
}

func TestFit_SingleLocation(t *testing.T) {
	data := &MapData{Locations: []MapLocation{{Lat: 19.07, Lng: 72.87, Label: "Mumbai"}}}

	vp := Fit(data)

	assert.Equal(t, 19.07, vp.CenterLat)
	assert.Equal(t, 72.87, vp.CenterLng)
	assert.Equal(t, float64(SingleLocationZoom), vp.Zoom)
}

func TestFit_BoundsEncloseAllPoints(t *testing.T) {
	data := &MapData{
		Locations: []MapLocation{
			{Lat: 28.6, Lng: 77.2, Label: "Delhi"},
			{Lat: 12.97, Lng: 77.59, Label: "Bengaluru"},
		},
		Paths: []MapPath{{{Lat: 19.07, Lng: 72.87}}},
	}

	vp := Fit(data)
	b, ok := FitBounds(data)

	require.True(t, ok)
	assert.Equal(t, 12.97, b.MinLat)
	assert.Equal(t, 28.6, b.MaxLat)
	assert.Equal(t, 72.87, b.MinLng)
	assert.Equal(t, 77.59, b.MaxLng)

	// Center is the midpoint of the box.
	assert.InDelta(t, (12.97+28.6)/2, vp.CenterLat, 1e-9)
	assert.InDelta(t, (72.87+77.59)/2, vp.CenterLng, 1e-9)

	// The visible span at the chosen zoom covers the box.
	span := SpanForZoom(vp.Zoom)
	assert.GreaterOrEqual(t, span, b.MaxLat-b.MinLat)
	assert.GreaterOrEqual(t, span, b.MaxLng-b.MinLng)
}

func TestFit_PathPointsCountTowardBounds(t *testing.T) {
	data := &MapData{
		Paths: []MapPath{{{Lat: 10, Lng: 70}, {Lat: 11, Lng: 71}}},
	}

	vp := Fit(data)

	assert.InDelta(t, 10.5, vp.CenterLat, 1e-9)
	assert.InDelta(t, 70.5, vp.CenterLng, 1e-9)
}
