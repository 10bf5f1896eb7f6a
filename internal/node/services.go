package node

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"github.com/morild/simcharts/internal/msgs"
	"github.com/morild/simcharts/internal/traffic"
	"github.com/morild/simcharts/pkg/util"
)

// Plotter receives the plot side effects of the vessel services.
type Plotter interface {
	RefreshVessels(vessels map[string]msgs.Vessel)
	Clear()
}

// Services registers the request handlers of the simulation node.
type Services struct {
	land  func() orb.MultiPolygon
	store *traffic.Store
	plot  Plotter
}

func NewServices(land func() orb.MultiPolygon, store *traffic.Store, plot Plotter) *Services {
	return &Services{land: land, store: store, plot: plot}
}

// Register mounts every service handler on the gateway.
func (s *Services) Register(g *Gateway) {
	g.Handle(msgs.SvcGetStaticObstacles, s.getStaticObstacles)
	g.Handle(msgs.SvcAddVessel, s.addVessel)
	g.Handle(msgs.SvcUpdateVessel, s.updateVessel)
	g.Handle(msgs.SvcRemoveVessel, s.removeVessel)
	g.Handle(msgs.SvcReplaceLocalTraffic, s.replaceLocalTraffic)
	g.Handle(msgs.SvcCleanPlot, s.cleanPlot)
}

func (s *Services) getStaticObstacles(json.RawMessage) (interface{}, error) {
	return msgs.StaticObstacles{
		Timestamp:       util.Timestamp(time.Now()),
		StaticObstacles: StaticObstaclesFromLand(s.land()),
	}, nil
}

// StaticObstaclesFromLand flattens land polygons into wire polygons, one
// per land polygon. Only the outer ring is kept; inner holes are dropped.
func StaticObstaclesFromLand(land orb.MultiPolygon) []msgs.Polygon {
	obstacles := make([]msgs.Polygon, 0, len(land))
	for _, poly := range land {
		if len(poly) == 0 {
			continue
		}
		outer := poly[0]
		points := make([]msgs.Point, 0, len(outer))
		for _, p := range outer {
			points = append(points, msgs.Point{X: p[0], Y: p[1]})
		}
		obstacles = append(obstacles, msgs.Polygon{Points: points})
	}
	return obstacles
}

func (s *Services) addVessel(params json.RawMessage) (interface{}, error) {
	var v msgs.Vessel
	if err := json.Unmarshal(params, &v); err != nil {
		return nil, fmt.Errorf("decoding vessel: %w", err)
	}
	if v.ID == "" {
		return nil, fmt.Errorf("vessel id must not be empty")
	}
	applied := s.store.Add(v)
	s.refresh()
	return msgs.VesselChange{Timestamp: util.Timestamp(time.Now()), Applied: applied}, nil
}

func (s *Services) updateVessel(params json.RawMessage) (interface{}, error) {
	var v msgs.Vessel
	if err := json.Unmarshal(params, &v); err != nil {
		return nil, fmt.Errorf("decoding vessel: %w", err)
	}
	applied := s.store.Update(v)
	s.refresh()
	return msgs.VesselChange{Timestamp: util.Timestamp(time.Now()), Applied: applied}, nil
}

func (s *Services) removeVessel(params json.RawMessage) (interface{}, error) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	removed, ok := s.store.Remove(req.ID)
	s.refresh()
	change := msgs.VesselChange{Timestamp: util.Timestamp(time.Now()), Applied: ok}
	if ok {
		change.Removed = &removed
	}
	return change, nil
}

func (s *Services) replaceLocalTraffic(params json.RawMessage) (interface{}, error) {
	var list msgs.VesselList
	if err := json.Unmarshal(params, &list); err != nil {
		return nil, fmt.Errorf("decoding vessel list: %w", err)
	}
	old := s.store.Snapshot()
	s.store.Replace(list.Vessels)
	s.refresh()
	oldList := make([]msgs.Vessel, 0, len(old))
	for _, v := range old {
		oldList = append(oldList, v)
	}
	return msgs.ReplacedTraffic{Timestamp: util.Timestamp(time.Now()), OldTraffic: oldList}, nil
}

func (s *Services) cleanPlot(json.RawMessage) (interface{}, error) {
	if s.plot != nil {
		s.plot.Clear()
	}
	return msgs.VesselChange{Timestamp: util.Timestamp(time.Now()), Applied: true}, nil
}

func (s *Services) refresh() {
	if s.plot != nil {
		s.plot.RefreshVessels(s.store.Snapshot())
	}
}
