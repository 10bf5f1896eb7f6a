package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML file and unmarshals it into a struct of type T.
func LoadConfig[T any](filepath string) (*T, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config T
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &config, nil
}

// Timestamp returns the given wall-clock time as fractional seconds since
// the Unix epoch, the format carried in all published messages.
func Timestamp(now time.Time) float64 {
	return float64(now.UnixNano()) / float64(time.Second)
}

// SendJSON marshals data and writes it to the WebSocket connection as a
// single text message.
func SendJSON(conn *websocket.Conn, data interface{}) error {
	msg, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("error writing message: %w", err)
	}
	return nil
}

// EnsureDirs creates the chart data directory tree below root, one
// subdirectory per layer name.
func EnsureDirs(root string, layers []string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	for _, layer := range layers {
		if err := os.MkdirAll(filepath.Join(root, layer), 0o755); err != nil {
			return fmt.Errorf("failed to create layer directory %s: %w", layer, err)
		}
	}
	return nil
}
