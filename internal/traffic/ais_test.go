package traffic

import (
	"testing"
	"time"

	"github.com/morild/simcharts/internal/msgs"
)

func testTime() time.Time {
	return time.Unix(1700000000, 0)
}

func float(v float64) msgs.NullFloat { return msgs.NullFloat{Value: v, Valid: true} }

func testConverter() *Converter {
	// A window around Ålesund in UTM zone 33.
	return NewConverter(33, [2]float64{-60000, 6900000}, [2]float64{200000, 200000})
}

func TestConverterProjectsIntoFrame(t *testing.T) {
	c := testConverter()
	v := c.Convert(msgs.AIS{
		MMSI:      "257000001",
		Timestamp: 1700000000,
		Latitude:  62.47,
		Longitude: 6.15,
		SOG:       float(12.5),
		Heading:   float(90),
		Name:      "MS Test",
		ShipType:  "cargo",
	})

	if v.ID != "257000001" {
		t.Errorf("id = %q", v.ID)
	}
	if v.VesselSimType != "AIS" {
		t.Errorf("sim type = %q, want AIS", v.VesselSimType)
	}
	if v.SOG != 12.5 || v.Heading != 90 {
		t.Errorf("kinematics = %v/%v, want 12.5/90", v.SOG, v.Heading)
	}
	if !c.InHorizon(v.X, v.Y) {
		t.Errorf("projected position (%v, %v) should be inside the horizon", v.X, v.Y)
	}
	if v.Length < 15 || v.Length >= 75 {
		t.Errorf("randomized length %v outside [15, 75)", v.Length)
	}
	if v.Scale != v.Length/80.0 {
		t.Errorf("scale = %v, want length/80", v.Scale)
	}
}

func TestConverterMissingKinematicsDefaultToZero(t *testing.T) {
	c := testConverter()
	v := c.Convert(msgs.AIS{MMSI: "1", Latitude: 62.47, Longitude: 6.15})
	if v.SOG != 0 || v.COG != 0 || v.Heading != 0 || v.ROT != 0 {
		t.Errorf("missing kinematics should be zero, got %+v", v)
	}
}

func TestConverterReusesHullDimensions(t *testing.T) {
	c := testConverter()
	first := c.Convert(msgs.AIS{MMSI: "1", Latitude: 62.47, Longitude: 6.15})
	second := c.Convert(msgs.AIS{MMSI: "1", Latitude: 62.48, Longitude: 6.16})

	if first.Length != second.Length || first.Width != second.Width {
		t.Errorf("hull dimensions changed between sightings: %v/%v then %v/%v",
			first.Length, first.Width, second.Length, second.Width)
	}
}

func TestConvertBatchDropsOutOfHorizon(t *testing.T) {
	c := testConverter()
	batch := msgs.AISBatch{Reports: []msgs.AIS{
		{MMSI: "near", Latitude: 62.47, Longitude: 6.15},
		{MMSI: "far", Latitude: 40.0, Longitude: -70.0}, // nowhere near the window
	}}

	vessels := c.ConvertBatch(batch)
	if len(vessels) != 1 {
		t.Fatalf("batch kept %d vessels, want 1", len(vessels))
	}
	if vessels[0].ID != "near" {
		t.Errorf("kept vessel %q, want near", vessels[0].ID)
	}
}
