package traffic

import (
	"math/rand"

	"github.com/morild/simcharts/internal/msgs"
	"github.com/morild/simcharts/pkg/geometry"
)

// horizonMargin widens the extent when filtering incoming reports so that
// vessels just outside the window are kept and appear without popping in.
const horizonMargin = 1.02

// Converter turns AIS position reports into vessel states in the chart's
// projected frame.
type Converter struct {
	UTMZone int
	Origin  [2]float64
	Size    [2]float64

	known map[string]msgs.Vessel // previously seen hull dimensions by id
}

func NewConverter(utmZone int, origin, size [2]float64) *Converter {
	return &Converter{
		UTMZone: utmZone,
		Origin:  origin,
		Size:    size,
		known:   make(map[string]msgs.Vessel),
	}
}

// InHorizon reports whether a projected position lies inside the extent
// inflated by the horizon margin.
func (c *Converter) InHorizon(x, y float64) bool {
	w := c.Size[0] * horizonMargin
	h := c.Size[1] * horizonMargin
	return x > c.Origin[0] && x < c.Origin[0]+w &&
		y > c.Origin[1] && y < c.Origin[1]+h
}

// Convert projects one AIS report into a vessel state. Hull dimensions are
// reused for vessels seen before and randomized otherwise; missing SOG,
// COG, heading and ROT values default to zero.
func (c *Converter) Convert(report msgs.AIS) msgs.Vessel {
	x, y, _ := geometry.LatLonToUTM(report.Latitude, report.Longitude, c.UTMZone)

	v := msgs.Vessel{
		ID:            report.MMSI,
		Timestamp:     report.Timestamp,
		X:             x,
		Y:             y,
		Name:          report.Name,
		ShipType:      report.ShipType,
		VesselSimType: "AIS",
	}

	if prev, seen := c.known[v.ID]; seen {
		v.Length = prev.Length
		v.Width = prev.Width
		v.Scale = prev.Scale
	} else {
		v.Length = float64(15 + rand.Intn(60))
		v.Width = float64(5 + rand.Intn(10))
		v.Scale = v.Length / 80.0
	}

	if report.SOG.Valid {
		v.SOG = report.SOG.Value
	}
	if report.COG.Valid {
		v.COG = report.COG.Value
	}
	if report.Heading.Valid {
		v.Heading = report.Heading.Value
	}
	if report.ROT.Valid {
		v.ROT = report.ROT.Value
	}

	c.known[v.ID] = v
	return v
}

// ConvertBatch converts a batch of reports, dropping everything outside
// the horizon.
func (c *Converter) ConvertBatch(batch msgs.AISBatch) []msgs.Vessel {
	vessels := make([]msgs.Vessel, 0, len(batch.Reports))
	for _, report := range batch.Reports {
		v := c.Convert(report)
		if !c.InHorizon(v.X, v.Y) {
			continue
		}
		vessels = append(vessels, v)
	}
	return vessels
}
