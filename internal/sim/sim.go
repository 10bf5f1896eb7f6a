// Package sim couples the chart environment, the display and the node
// gateway into one running simulation.
package sim

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/morild/simcharts/internal/broker"
	"github.com/morild/simcharts/internal/display"
	"github.com/morild/simcharts/internal/environment"
	"github.com/morild/simcharts/internal/metrics"
	"github.com/morild/simcharts/internal/msgs"
	"github.com/morild/simcharts/internal/node"
	"github.com/morild/simcharts/internal/traffic"
	"github.com/morild/simcharts/pkg/util"
)

const defaultCallbackTime = 0.5

// Config is the full configuration file of the simulation node.
type Config struct {
	environment.Settings `yaml:",inline"`

	Display struct {
		Width      int    `yaml:"width"`
		DarkMode   bool   `yaml:"dark_mode"`
		Colorbar   bool   `yaml:"colorbar"`
		Fullscreen bool   `yaml:"fullscreen"`
		Anchor     string `yaml:"anchor"`
	} `yaml:"display"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Traffic struct {
		Source   string  `yaml:"source"`
		Gateway  string  `yaml:"gateway"`
		Interval float64 `yaml:"interval"`
	} `yaml:"traffic"`
}

// LoadConfig reads the simulation configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	return util.LoadConfig[Config](path)
}

// vesselRefresher is the subset of the display the traffic loop drives.
type vesselRefresher interface {
	RefreshVessels(vessels map[string]msgs.Vessel)
}

// ENC is the simulation chart facade. It owns the environment, the
// window, the message bus and the request gateway.
type ENC struct {
	cfg       *Config
	env       *environment.Environment
	disp      *display.Display
	refresher vesselRefresher

	bus        *broker.Bus
	gateway    *node.Gateway
	subscriber *node.LocalTrafficSubscriber
	store      *traffic.Store
	httpSrv    *http.Server

	log *logrus.Entry
}

// New builds an ENC from a loaded configuration. The display window is
// not opened until Run is called.
func New(cfg *Config) (*ENC, error) {
	env, err := environment.New(&cfg.Settings)
	if err != nil {
		return nil, err
	}
	disp := display.New(env, display.Options{
		Width:      cfg.Display.Width,
		DarkMode:   cfg.Display.DarkMode,
		Colorbar:   cfg.Display.Colorbar,
		Fullscreen: cfg.Display.Fullscreen,
		Border:     cfg.Settings.ENC.Border,
		Anchor:     cfg.Display.Anchor,
	})

	bus := broker.New(logrus.StandardLogger())
	store := traffic.NewStore()
	gateway := node.NewGateway(bus)
	land := func() orb.MultiPolygon {
		if layer := env.Land(); layer != nil {
			return layer.MultiPolygon()
		}
		return nil
	}
	node.NewServices(land, store, disp).Register(gateway)

	e := &ENC{
		cfg:        cfg,
		env:        env,
		disp:       disp,
		refresher:  disp,
		bus:        bus,
		gateway:    gateway,
		subscriber: node.NewLocalTrafficSubscriber(store),
		store:      store,
		log:        logrus.WithField("component", "sim"),
	}
	return e, nil
}

func (e *ENC) Environment() *environment.Environment { return e.env }
func (e *ENC) Display() *display.Display             { return e.disp }

// Start runs the gateway server, the traffic subscriber and the
// simulation loop. It returns once they are started; Run blocks on the
// window instead.
func (e *ENC) Start(ctx context.Context) error {
	addr := e.cfg.Server.Addr
	if addr == "" {
		addr = ":8421"
	}
	e.httpSrv = &http.Server{Addr: addr, Handler: e.gateway.Router()}

	go func() {
		e.log.WithField("addr", addr).Info("gateway listening")
		if err := e.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			e.log.WithError(err).Error("gateway server stopped")
		}
	}()
	go func() {
		if err := e.subscriber.Run(ctx, e.bus); err != nil && ctx.Err() == nil {
			e.log.WithError(err).Error("traffic subscriber stopped")
		}
	}()
	go e.loop(ctx)
	return nil
}

// Run opens the display window and blocks until it is closed. It must
// run on the main goroutine.
func (e *ENC) Run() error {
	return e.disp.Run()
}

// loop refreshes the displayed traffic at the configured callback
// period. An empty poll keeps the previous vessels on screen; a
// non-empty poll replaces them wholesale.
func (e *ENC) loop(ctx context.Context) {
	period := e.cfg.Settings.ENC.SimCallbackTime
	if period <= 0 {
		period = defaultCallbackTime
	}
	ticker := time.NewTicker(time.Duration(period * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.pollTraffic()
		}
	}
}

// pollTraffic runs one loop cycle. An empty poll leaves the previous
// vessels in place; a non-empty poll replaces them wholesale.
func (e *ENC) pollTraffic() {
	metrics.LoopCyclesTotal.Inc()
	vessels := e.subscriber.LocalTraffic()
	if len(vessels) == 0 {
		metrics.TrafficPollsTotal.WithLabelValues("empty").Inc()
		return
	}
	metrics.TrafficPollsTotal.WithLabelValues("replaced").Inc()
	e.refresher.RefreshVessels(vessels)
}

// Close shuts down the gateway server and the message bus.
func (e *ENC) Close() error {
	if e.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := e.httpSrv.Shutdown(ctx); err != nil {
			return err
		}
	}
	return e.bus.Close()
}

// AddVessels places vessels on the plot directly, outside the topic
// flow.
func (e *ENC) AddVessels(vessels []msgs.Vessel) {
	for _, v := range vessels {
		e.store.Set(v)
	}
	e.refresher.RefreshVessels(e.store.Snapshot())
}

// ClearVessels removes all vessels from the plot.
func (e *ENC) ClearVessels() {
	e.store.Replace(nil)
	e.refresher.RefreshVessels(nil)
}

// AddOwnship places the ownship at the given pose.
func (e *ENC) AddOwnship(easting, northing, heading, hullScale, lonScale, latScale float64) {
	e.env.CreateOwnship(easting, northing, heading, hullScale, lonScale, latScale)
}

func (e *ENC) RemoveOwnship() {
	e.env.RemoveOwnship()
}

// AddHazards shades every area shallower than depth, grown by buffer
// metres. A negative buffer falls back to the configured default.
func (e *ENC) AddHazards(depth int, buffer float64) {
	if buffer < 0 {
		buffer = float64(e.env.Scope.Buffer)
	}
	e.env.FilterHazardousAreas(depth, buffer)
}

func (e *ENC) ToggleFullscreen() { e.disp.ToggleFullscreen() }
func (e *ENC) ToggleColorbar()   { e.disp.ToggleColorbar() }
func (e *ENC) ToggleDarkMode()   { e.disp.ToggleDarkMode() }

// SaveImage captures the next rendered frame to <name>.<extension> at
// the given resolution scale.
func (e *ENC) SaveImage(name string, scale float64, extension string) error {
	return e.disp.SaveImage(name, scale, extension)
}

func style(colorName string, fill bool, thickness float64, dashed bool) (display.Style, error) {
	c, err := display.NamedColor(colorName)
	if err != nil {
		return display.Style{}, err
	}
	return display.Style{Color: c, Fill: fill, Thickness: thickness, Dashed: dashed}, nil
}

// DrawArrow draws an arrow between two projected points.
func (e *ENC) DrawArrow(start, end [2]float64, color string, headSize, thickness float64, dashed bool) error {
	s, err := style(color, true, thickness, dashed)
	if err != nil {
		return err
	}
	e.disp.Overlay().Add(display.Arrow{Start: start, End: end, HeadSize: headSize, Style: s})
	return nil
}

// DrawCircle draws a circle with the given radius in metres.
func (e *ENC) DrawCircle(center [2]float64, radius float64, color string, fill bool, thickness float64, dashed bool) error {
	if radius <= 0 {
		return fmt.Errorf("circle radius must be positive, got %v", radius)
	}
	s, err := style(color, fill, thickness, dashed)
	if err != nil {
		return err
	}
	e.disp.Overlay().Add(display.Circle{Center: center, Radius: radius, Style: s})
	return nil
}

// DrawLine draws an open polyline through the given points.
func (e *ENC) DrawLine(points [][2]float64, color string, thickness float64, dashed bool) error {
	if len(points) < 2 {
		return fmt.Errorf("line needs at least two points, got %d", len(points))
	}
	s, err := style(color, false, thickness, dashed)
	if err != nil {
		return err
	}
	e.disp.Overlay().Add(display.Line{Points: points, Style: s})
	return nil
}

// DrawPolygon draws a closed ring, optionally with interior holes.
func (e *ENC) DrawPolygon(exterior [][2]float64, interiors [][][2]float64, color string, fill bool, thickness float64, dashed bool) error {
	if len(exterior) < 3 {
		return fmt.Errorf("polygon needs at least three points, got %d", len(exterior))
	}
	s, err := style(color, fill, thickness, dashed)
	if err != nil {
		return err
	}
	e.disp.Overlay().Add(display.PolygonShape{Exterior: exterior, Interiors: interiors, Style: s})
	return nil
}

// DrawRectangle draws a rotated box centered on a projected point.
func (e *ENC) DrawRectangle(center [2]float64, width, height float64, color string, rotation float64, fill bool, thickness float64, dashed bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("rectangle size must be positive, got %vx%v", width, height)
	}
	s, err := style(color, fill, thickness, dashed)
	if err != nil {
		return err
	}
	e.disp.Overlay().Add(display.Rectangle{Center: center, Width: width, Height: height, Rotation: rotation, Style: s})
	return nil
}
