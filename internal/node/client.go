package node

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/morild/simcharts/internal/msgs"
	"github.com/morild/simcharts/pkg/util"
)

// Client is a WebSocket connection to a simulation node gateway. It can
// publish onto topics and issue service requests.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	reqID   atomic.Int64
	mu      sync.Mutex
	pending map[int64]chan msgs.Frame
	closed  bool

	log *logrus.Entry
}

// Dial connects to a gateway at the given ws:// URL and starts the
// response reader.
func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	c := &Client{
		conn:    conn,
		pending: make(map[int64]chan msgs.Frame),
		log:     logrus.WithField("component", "node-client"),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	for {
		var frame msgs.Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			c.fail()
			return
		}
		if frame.Type != msgs.TypeResponse {
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[frame.ReqID]
		if ok {
			delete(c.pending, frame.ReqID)
		}
		c.mu.Unlock()
		if ok {
			ch <- frame
		}
	}
}

func (c *Client) fail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

func (c *Client) write(frame msgs.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return util.SendJSON(c.conn, frame)
}

// Publish sends payload onto a topic. It does not wait for delivery.
func (c *Client) Publish(topic string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	return c.write(msgs.Frame{Type: msgs.TypePublish, Topic: topic, Params: raw})
}

// Call issues a service request and decodes the result into result, which
// may be nil when the caller only cares about success.
func (c *Client) Call(ctx context.Context, service string, params, result interface{}) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}
	id := c.reqID.Add(1)
	ch := make(chan msgs.Frame, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("client closed")
	}
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.write(msgs.Frame{Type: msgs.TypeRequest, ReqID: id, Service: service, Params: raw}); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return err
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return ctx.Err()
	case frame, ok := <-ch:
		if !ok {
			return fmt.Errorf("connection closed awaiting %s", service)
		}
		if frame.Error != "" {
			return fmt.Errorf("%s: %s", service, frame.Error)
		}
		if result != nil && len(frame.Result) > 0 {
			if err := json.Unmarshal(frame.Result, result); err != nil {
				return fmt.Errorf("decoding %s result: %w", service, err)
			}
		}
		return nil
	}
}

func (c *Client) Close() error {
	c.fail()
	return c.conn.Close()
}
