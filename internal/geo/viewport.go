// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geo

import "math"

// =============================================================================
// VIEWPORT FITTING
// =============================================================================

// Default camera when a payload has no explicit view and no points: centered
// on India, zoomed out to the whole country.
const (
	DefaultCenterLat = 21.1458
	DefaultCenterLng = 79.0882
	DefaultZoom      = 5

	// SingleLocationZoom is used when exactly one point is present, where
	// a bounding box would have zero extent.
	SingleLocationZoom = 13

	minZoom = 3
	maxZoom = 15
)

// Viewport is the computed camera for rendering a MapData payload.
type Viewport struct {
	CenterLat float64
	CenterLng float64
	Zoom      float64
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// Fit computes the viewport for a payload. An explicit view always wins;
// otherwise the viewport encloses the union of all locations and path
// points, falling back to the default camera when there are none.
func Fit(data *MapData) Viewport {
	if data == nil {
		return Viewport{CenterLat: DefaultCenterLat, CenterLng: DefaultCenterLng, Zoom: DefaultZoom}
	}

	if data.View != nil {
		return Viewport{
			CenterLat: data.View.Lat,
			CenterLng: data.View.Lng,
			Zoom:      data.View.Zoom,
		}
	}

	points := allPoints(data)
	if len(points) == 0 {
		return Viewport{CenterLat: DefaultCenterLat, CenterLng: DefaultCenterLng, Zoom: DefaultZoom}
	}
	if len(points) == 1 {
		return Viewport{CenterLat: points[0].Lat, CenterLng: points[0].Lng, Zoom: SingleLocationZoom}
	}

	b := boundsOf(points)
	return Viewport{
		CenterLat: (b.MinLat + b.MaxLat) / 2,
		CenterLng: (b.MinLng + b.MaxLng) / 2,
		Zoom:      zoomForBounds(b),
	}
}

// FitBounds returns the bounding box of all points in the payload and
// whether any points exist.
func FitBounds(data *MapData) (Bounds, bool) {
	points := allPoints(data)
	if len(points) == 0 {
		return Bounds{}, false
	}
	return boundsOf(points), true
}

// allPoints flattens locations and path vertices into one point list.
func allPoints(data *MapData) []MapPoint {
	points := make([]MapPoint, 0, len(data.Locations))
	for _, loc := range data.Locations {
		points = append(points, MapPoint{Lat: loc.Lat, Lng: loc.Lng})
	}
	for _, path := range data.Paths {
		points = append(points, path...)
	}
	return points
}

func boundsOf(points []MapPoint) Bounds {
	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
	}
	return b
}

// zoomForBounds picks the zoom level whose span encloses the bounding box,
// clamped to the renderable range.
func zoomForBounds(b Bounds) float64 {
	span := math.Max(b.MaxLat-b.MinLat, b.MaxLng-b.MinLng)
	if span <= 0 {
		return SingleLocationZoom
	}

	// Web-mercator style: each zoom level halves the visible span of 360
	// degrees. A little padding keeps edge points off the border.
	zoom := math.Floor(math.Log2(360 / (span * 1.2)))
	if zoom < minZoom {
		return minZoom
	}
	if zoom > maxZoom {
		return maxZoom
	}
	return zoom
}

// SpanForZoom returns the degrees of longitude visible at a zoom level.
func SpanForZoom(zoom float64) float64 {
	return 360 / math.Pow(2, zoom)
}
