package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func writeCollection(t *testing.T, path string, fc *geojson.FeatureCollection) {
	t.Helper()
	data, err := fc.MarshalJSON()
	if err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func polygonFeature(poly orb.Polygon, props map[string]interface{}) *geojson.Feature {
	f := geojson.NewFeature(poly)
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

func TestParserLoadClipsToBounds(t *testing.T) {
	dir := t.TempDir()
	fc := geojson.NewFeatureCollection()
	fc.Append(polygonFeature(square(1000, 1000, 500), map[string]interface{}{"depth": 10.0, "name": "inner"}))
	fc.Append(polygonFeature(square(50000, 50000, 500), map[string]interface{}{"name": "outer"}))
	writeCollection(t, filepath.Join(dir, "land.geojson"), fc)

	p := NewParser(Bounds{XMin: 0, YMin: 0, XMax: 10000, YMax: 10000}, dir, nil, 0, false)
	layer, err := p.Load("Land")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(layer.Features) != 1 {
		t.Fatalf("expected 1 clipped feature, got %d", len(layer.Features))
	}
	f := layer.Features[0]
	if f.Name != "inner" {
		t.Errorf("kept feature %q, want inner", f.Name)
	}
	if f.Depth != 10.0 {
		t.Errorf("depth = %v, want 10", f.Depth)
	}
}

func TestParserLoadMissingFile(t *testing.T) {
	p := NewParser(Bounds{}, t.TempDir(), nil, 0, false)
	if _, err := p.Load("land"); err == nil {
		t.Fatal("expected an error for a missing layer file")
	}
}

func TestUpdateChartsDataRoutesByLayerProperty(t *testing.T) {
	dir := t.TempDir()
	external := filepath.Join(dir, "external.geojson")

	fc := geojson.NewFeatureCollection()
	fc.Append(polygonFeature(square(100, 100, 50), map[string]interface{}{"layer": "Land"}))
	fc.Append(polygonFeature(square(200, 200, 50), map[string]interface{}{"layer": "shore"}))
	fc.Append(polygonFeature(square(300, 300, 50), map[string]interface{}{"layer": "volcanoes"}))
	fc.Append(polygonFeature(square(90000, 90000, 50), map[string]interface{}{"layer": "land"}))
	writeCollection(t, external, fc)

	dataDir := filepath.Join(dir, "charts")
	p := NewParser(Bounds{XMin: 0, YMin: 0, XMax: 1000, YMax: 1000}, dataDir, []string{external}, 0, false)
	if err := p.UpdateChartsData([]string{"land", "shore"}, true); err != nil {
		t.Fatalf("UpdateChartsData: %v", err)
	}

	land, err := p.Load("land")
	if err != nil {
		t.Fatalf("loading regenerated land layer: %v", err)
	}
	if len(land.Features) != 1 {
		t.Errorf("land layer has %d features, want 1", len(land.Features))
	}
	shore, err := p.Load("shore")
	if err != nil {
		t.Fatalf("loading regenerated shore layer: %v", err)
	}
	if len(shore.Features) != 1 {
		t.Errorf("shore layer has %d features, want 1", len(shore.Features))
	}
}

func TestUpdateChartsDataSkipsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	empty := geojson.NewFeatureCollection()
	writeCollection(t, filepath.Join(dir, "land.geojson"), empty)

	// No external datasets configured: regeneration would fail, so the
	// existing file must short-circuit it.
	p := NewParser(Bounds{}, dir, nil, 0, false)
	if err := p.UpdateChartsData([]string{"land"}, false); err != nil {
		t.Fatalf("UpdateChartsData with existing files: %v", err)
	}

	if err := p.UpdateChartsData([]string{"land"}, true); err == nil {
		t.Fatal("forced regeneration without datasets should fail")
	}
}
