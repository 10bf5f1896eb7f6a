// Package node implements the WebSocket endpoint of the simulation: topic
// publishes bridged onto the internal bus, and request/response services.
package node

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/morild/simcharts/internal/broker"
	"github.com/morild/simcharts/internal/metrics"
	"github.com/morild/simcharts/internal/msgs"
)

// Handler serves one named service request.
type Handler func(params json.RawMessage) (interface{}, error)

// Gateway accepts WebSocket connections, forwards publish frames to the
// topic bus, and dispatches request frames to registered service handlers.
type Gateway struct {
	bus      *broker.Bus
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	handlers map[string]Handler

	log *logrus.Entry
}

func NewGateway(bus *broker.Bus) *Gateway {
	return &Gateway{
		bus: bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		handlers: make(map[string]Handler),
		log:      logrus.WithField("component", "gateway"),
	}
}

// Handle registers a service handler under its name.
func (g *Gateway) Handle(service string, h Handler) {
	g.mu.Lock()
	g.handlers[service] = h
	g.mu.Unlock()
}

// Router mounts the WebSocket endpoint and the metrics endpoint.
func (g *Gateway) Router() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", g)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// ServeHTTP upgrades the connection and runs its read loop until the peer
// disconnects.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()
	g.log.WithField("peer", conn.RemoteAddr().String()).Info("client connected")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.WithField("peer", conn.RemoteAddr().String()).Info("client disconnected")
			} else {
				g.log.WithError(err).Warn("read error, closing connection")
			}
			return
		}

		var frame msgs.Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			g.log.WithError(err).Warn("dropping malformed frame")
			continue
		}

		switch frame.Type {
		case msgs.TypePublish:
			g.publish(frame)
		case msgs.TypeRequest:
			g.respond(conn, g.dispatch(frame))
		default:
			g.log.WithField("type", frame.Type).Warn("dropping frame of unknown type")
		}
	}
}

func (g *Gateway) publish(frame msgs.Frame) {
	if frame.Topic == "" {
		g.log.Warn("dropping publish frame without topic")
		return
	}
	metrics.PublishesTotal.WithLabelValues(frame.Topic).Inc()
	if err := g.bus.Publish(frame.Topic, frame.Params); err != nil {
		g.log.WithError(err).WithField("topic", frame.Topic).Error("bus publish failed")
	}
}

// dispatch runs the matching handler and builds the response frame.
func (g *Gateway) dispatch(frame msgs.Frame) msgs.Frame {
	resp := msgs.Frame{
		Type:    msgs.TypeResponse,
		ReqID:   frame.ReqID,
		Service: frame.Service,
	}

	g.mu.RLock()
	handler, ok := g.handlers[frame.Service]
	g.mu.RUnlock()
	if !ok {
		resp.Error = fmt.Sprintf("unknown service: %s", frame.Service)
		return resp
	}

	metrics.ServiceRequestsTotal.WithLabelValues(frame.Service).Inc()
	result, err := handler(frame.Params)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}

	payload, err := json.Marshal(result)
	if err != nil {
		resp.Error = fmt.Sprintf("encoding result: %v", err)
		return resp
	}
	resp.Result = payload
	return resp
}

func (g *Gateway) respond(conn *websocket.Conn, resp msgs.Frame) {
	if err := conn.WriteJSON(resp); err != nil {
		g.log.WithError(err).Warn("failed to write response")
	}
}
