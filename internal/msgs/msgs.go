// Package msgs defines the JSON wire messages exchanged between the
// simulation node, the local traffic node, and external clients.
package msgs

import "encoding/json"

// Envelope types carried in the "type" field of every frame.
const (
	TypePublish  = "publish"
	TypeRequest  = "request"
	TypeResponse = "response"
)

// Topic names.
const (
	TopicLocalTraffic = "simcharts.local_traffic"
	TopicAIS          = "simcharts.ais"
)

// Service names.
const (
	SvcGetStaticObstacles  = "simcharts.get_static_obstacles"
	SvcAddVessel           = "simcharts.add_vessel"
	SvcUpdateVessel        = "simcharts.update_vessel"
	SvcRemoveVessel        = "simcharts.remove_vessel"
	SvcReplaceLocalTraffic = "simcharts.replace_local_traffic"
	SvcCleanPlot           = "simcharts.clean_plot"
)

// Frame is the outer envelope for every WebSocket message.
type Frame struct {
	Type    string          `json:"type"`
	ReqID   int64           `json:"req_id,omitempty"`
	Service string          `json:"service,omitempty"`
	Topic   string          `json:"topic,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Point is a single projected coordinate pair in metres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered outer ring of coordinate pairs. Inner holes are
// never transmitted.
type Polygon struct {
	Points []Point `json:"polygon"`
}

// Vessel is the state of one simulated or observed ship.
type Vessel struct {
	ID            string  `json:"id"`
	Timestamp     float64 `json:"timestamp"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	SOG           float64 `json:"sog"`
	COG           float64 `json:"cog"`
	Heading       float64 `json:"heading"`
	ROT           float64 `json:"rot"`
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Scale         float64 `json:"scale"`
	Name          string  `json:"name"`
	ShipType      string  `json:"shiptype"`
	VesselSimType string  `json:"vesselsimtype"`
}

// VesselList is the payload published on the local traffic topic.
type VesselList struct {
	Timestamp float64  `json:"timestamp"`
	Vessels   []Vessel `json:"local_traffic"`
}

// NullFloat is a kinematic value that AIS feeds deliver as a number, as
// JSON null, or as the literal string "null" when the value is missing.
type NullFloat struct {
	Value float64
	Valid bool
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if s := string(data); s == "null" || s == `"null"` {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NullFloat{Value: v, Valid: true}
	return nil
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// AIS is a single position report as delivered by an AIS stream. Speed,
// course, heading and rate of turn may be absent upstream.
type AIS struct {
	MMSI      string    `json:"mmsi"`
	Timestamp float64   `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	SOG       NullFloat `json:"sog"`
	COG       NullFloat `json:"cog"`
	Heading   NullFloat `json:"heading"`
	ROT       NullFloat `json:"rot"`
	Name      string    `json:"name"`
	ShipType  string    `json:"shiptype"`
}

// AISBatch is the payload published on the AIS topic.
type AISBatch struct {
	Timestamp float64 `json:"timestamp"`
	Reports   []AIS   `json:"ais_msgs"`
}

// StaticObstacles is the result of the get_static_obstacles service: one
// polygon per land polygon, outer rings only.
type StaticObstacles struct {
	Timestamp       float64   `json:"timestamp"`
	StaticObstacles []Polygon `json:"static_obstacles"`
}

// VesselChange is the result of the add/update/remove vessel services.
type VesselChange struct {
	Timestamp float64 `json:"timestamp"`
	Applied   bool    `json:"applied"`
	Removed   *Vessel `json:"removed_vessel,omitempty"`
}

// ReplacedTraffic is the result of the replace_local_traffic service.
type ReplacedTraffic struct {
	Timestamp  float64  `json:"timestamp"`
	OldTraffic []Vessel `json:"old_traffic"`
}
