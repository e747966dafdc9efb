// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/atomity/internal/geo"
	"github.com/jeranaias/atomity/internal/ui/styles"
)

// =============================================================================
// MAP VIEW
// =============================================================================

// Cell glyphs for the map plot. Digits mark locations in payload order;
// overflow locations past nine share the '*' glyph.
const (
	cellEmpty    = ' '
	cellPath     = '+'
	cellOverflow = '*'
)

// MapView renders an embedded map payload as a character-grid plot.
//
// The plot is an equirectangular projection around the fitted viewport:
// locations appear as numbered markers with a legend underneath, paths as
// '+' runs connecting their vertices. Points outside the viewport are
// clipped, not wrapped.
type MapView struct {
	theme  *styles.Theme
	width  int
	height int
}

// NewMapView creates a map view with the given plot dimensions in cells.
func NewMapView(theme *styles.Theme, width, height int) MapView {
	if width < 20 {
		width = 20
	}
	if height < 8 {
		height = 8
	}
	return MapView{theme: theme, width: width, height: height}
}

// Render draws the payload inside a bordered panel. Only a nil payload
// yields an empty string; a payload with no locations or paths is still a
// valid map and draws the fitted viewport with an empty grid.
func (v MapView) Render(data *geo.MapData) string {
	if data == nil {
		return ""
	}

	vp := geo.Fit(data)
	grid := v.plot(data, vp)

	var b strings.Builder
	for y := 0; y < v.height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(v.renderRow(grid[y]))
	}

	legend := v.renderLegend(data, vp)
	if legend != "" {
		b.WriteByte('\n')
		b.WriteString(legend)
	}

	return v.theme.MapBorder.Render(b.String())
}

// plot rasterizes the payload onto a rune grid. Paths are drawn first so
// location markers stay visible where they overlap.
func (v MapView) plot(data *geo.MapData, vp geo.Viewport) [][]rune {
	grid := make([][]rune, v.height)
	for y := range grid {
		grid[y] = make([]rune, v.width)
		for x := range grid[y] {
			grid[y][x] = cellEmpty
		}
	}

	for _, path := range data.Paths {
		for i := 1; i < len(path); i++ {
			v.drawSegment(grid, vp, path[i-1], path[i])
		}
		if len(path) == 1 {
			v.set(grid, vp, path[0].Lat, path[0].Lng, cellPath)
		}
	}

	for i, loc := range data.Locations {
		glyph := cellOverflow
		if i < 9 {
			glyph = rune('1' + i)
		}
		v.set(grid, vp, loc.Lat, loc.Lng, glyph)
	}

	return grid
}

// drawSegment draws a straight run of path cells between two vertices.
func (v MapView) drawSegment(grid [][]rune, vp geo.Viewport, a, b geo.MapPoint) {
	x0, y0, ok0 := v.project(vp, a.Lat, a.Lng)
	x1, y1, ok1 := v.project(vp, b.Lat, b.Lng)
	if !ok0 && !ok1 {
		return
	}

	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		steps = 1
	}
	for s := 0; s <= steps; s++ {
		x := x0 + (x1-x0)*s/steps
		y := y0 + (y1-y0)*s/steps
		if x >= 0 && x < v.width && y >= 0 && y < v.height {
			grid[y][x] = cellPath
		}
	}
}

// set places a glyph at a geographic position, clipping out-of-view points.
func (v MapView) set(grid [][]rune, vp geo.Viewport, lat, lng float64, glyph rune) {
	if x, y, ok := v.project(vp, lat, lng); ok {
		grid[y][x] = glyph
	}
}

// project maps a coordinate to a grid cell. Character cells are roughly
// twice as tall as wide, so the latitude span is half the longitude span.
func (v MapView) project(vp geo.Viewport, lat, lng float64) (x, y int, ok bool) {
	lngSpan := geo.SpanForZoom(vp.Zoom)
	latSpan := lngSpan / 2

	x = int((lng-vp.CenterLng)/lngSpan*float64(v.width)) + v.width/2
	y = int((vp.CenterLat-lat)/latSpan*float64(v.height)) + v.height/2

	return x, y, x >= 0 && x < v.width && y >= 0 && y < v.height
}

// renderRow styles one grid row: markers in the marker style, path cells in
// the path style, empty cells as-is.
func (v MapView) renderRow(row []rune) string {
	var b strings.Builder
	for _, r := range row {
		switch {
		case r == cellPath:
			b.WriteString(v.theme.MapPath.Render(string(r)))
		case r != cellEmpty:
			b.WriteString(v.theme.MapMarker.Render(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// renderLegend lists each numbered location with its label and coordinates.
func (v MapView) renderLegend(data *geo.MapData, vp geo.Viewport) string {
	var lines []string
	for i, loc := range data.Locations {
		glyph := string(cellOverflow)
		if i < 9 {
			glyph = string(rune('1' + i))
		}
		label := loc.Label
		if label == "" {
			label = "(unlabeled)"
		}
		label = runewidth.Truncate(label, v.width-18, "...")
		lines = append(lines,
			v.theme.MapMarker.Render(glyph)+" "+
				v.theme.MapLabel.Render(label)+" "+
				v.theme.MapCoords.Render(fmt.Sprintf("%.4f, %.4f", loc.Lat, loc.Lng)))
	}
	lines = append(lines, v.theme.MapCoords.Render(
		fmt.Sprintf("center %.4f, %.4f  zoom %.0f", vp.CenterLat, vp.CenterLng, vp.Zoom)))
	return strings.Join(lines, "\n")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
