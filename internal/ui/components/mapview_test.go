// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/atomity/internal/geo"
	"github.com/jeranaias/atomity/internal/ui/styles"
)

func newTestMapView() MapView {
	return NewMapView(styles.NewTheme(), 40, 10)
}

func TestMapView_NilPayloadRendersNothing(t *testing.T) {
	v := newTestMapView()

	if got := v.Render(nil); got != "" {
		t.Errorf("nil payload should render empty, got %q", got)
	}
}

func TestMapView_EmptyPayloadRendersDefaultViewport(t *testing.T) {
	v := newTestMapView()
	data := &geo.MapData{Locations: []geo.MapLocation{}, Paths: []geo.MapPath{}}

	out := v.Render(data)
	if out == "" {
		t.Fatal("empty payload is still a valid map and must render")
	}
	if !strings.Contains(out, "center 21.1458, 79.0882") {
		t.Errorf("legend should show the default center:\n%s", out)
	}
	if !strings.Contains(out, "zoom 5") {
		t.Errorf("legend should show the default zoom:\n%s", out)
	}
	for _, glyph := range []string{"+", "*"} {
		if strings.Contains(out, glyph) {
			t.Errorf("viewport with no points should plot no %q glyphs", glyph)
		}
	}
}

func TestMapView_SingleLocation(t *testing.T) {
	v := newTestMapView()
	data := &geo.MapData{
		Locations: []geo.MapLocation{{Lat: 28.6139, Lng: 77.2090, Label: "Delhi"}},
	}

	out := v.Render(data)
	if !strings.Contains(out, "1") {
		t.Error("location marker missing from plot")
	}
	if !strings.Contains(out, "Delhi") {
		t.Error("legend missing location label")
	}
	if !strings.Contains(out, "28.6139") {
		t.Error("legend missing coordinates")
	}
}

func TestMapView_MultipleLocationsNumberedInOrder(t *testing.T) {
	v := newTestMapView()
	data := &geo.MapData{
		Locations: []geo.MapLocation{
			{Lat: 28.6139, Lng: 77.2090, Label: "Delhi"},
			{Lat: 19.0760, Lng: 72.8777, Label: "Mumbai"},
		},
	}

	out := v.Render(data)
	for _, want := range []string{"1", "2", "Delhi", "Mumbai"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMapView_PathDrawsCells(t *testing.T) {
	v := newTestMapView()
	data := &geo.MapData{
		Paths: []geo.MapPath{
			{{Lat: 28.6, Lng: 77.2}, {Lat: 28.7, Lng: 77.4}},
		},
	}

	out := v.Render(data)
	if !strings.Contains(out, "+") {
		t.Error("path cells missing from plot")
	}
}

func TestMapView_ExplicitViewInLegend(t *testing.T) {
	v := newTestMapView()
	data := &geo.MapData{
		Locations: []geo.MapLocation{{Lat: 28.6139, Lng: 77.2090, Label: "Delhi"}},
		View:      &geo.MapView{Lat: 28.6, Lng: 77.2, Zoom: 10},
	}

	out := v.Render(data)
	if !strings.Contains(out, "zoom 10") {
		t.Errorf("legend should show the explicit view zoom:\n%s", out)
	}
}

func TestMapView_UnlabeledLocation(t *testing.T) {
	v := newTestMapView()
	data := &geo.MapData{
		Locations: []geo.MapLocation{{Lat: 21.0, Lng: 79.0}},
	}

	out := v.Render(data)
	if !strings.Contains(out, "(unlabeled)") {
		t.Error("unlabeled location should get a placeholder label")
	}
}
