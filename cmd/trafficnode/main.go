// Command trafficnode feeds a simcharts gateway with local vessel
// traffic. AIS position reports are taken from a live WebSocket stream
// or replayed from a file, converted into the chart's projected frame,
// accumulated, and the full vessel list is republished on the local
// traffic topic at a fixed interval.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/morild/simcharts/internal/msgs"
	"github.com/morild/simcharts/internal/node"
	"github.com/morild/simcharts/internal/sim"
	"github.com/morild/simcharts/internal/traffic"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	gatewayURL := flag.String("url", "", "gateway WebSocket URL (overrides traffic.gateway)")
	aisSource := flag.String("ais", "", "AIS source: a ws:// stream URL or a file of JSON batches, one per line (overrides traffic.source)")
	interval := flag.Duration("interval", 0, "delay between published vessel lists (overrides traffic.interval)")
	flag.Parse()

	cfg, err := sim.LoadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("loading configuration")
	}
	if *aisSource == "" {
		*aisSource = cfg.Traffic.Source
	}
	if *aisSource == "" {
		logrus.Fatal("no AIS source: set -ais or traffic.source")
	}
	if *gatewayURL == "" {
		*gatewayURL = cfg.Traffic.Gateway
	}
	if *gatewayURL == "" {
		*gatewayURL = "ws://127.0.0.1:8421/ws"
	}
	if *interval <= 0 {
		*interval = time.Duration(cfg.Traffic.Interval * float64(time.Second))
	}
	if *interval <= 0 {
		*interval = time.Second
	}
	enc := cfg.Settings.ENC
	if len(enc.Origin) != 2 || len(enc.Size) != 2 {
		logrus.Fatal("configuration must set a two-element enc origin and size")
	}
	converter := traffic.NewConverter(
		enc.UTMZone,
		[2]float64{enc.Origin[0], enc.Origin[1]},
		[2]float64{enc.Size[0], enc.Size[1]},
	)

	client, err := node.Dial(*gatewayURL)
	if err != nil {
		logrus.WithError(err).Fatal("connecting to gateway")
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	batches := make(chan msgs.AISBatch, 16)
	go func() {
		defer close(batches)
		if strings.HasPrefix(*aisSource, "ws://") || strings.HasPrefix(*aisSource, "wss://") {
			streamAIS(ctx, *aisSource, batches)
			return
		}
		replayAIS(ctx, *aisSource, batches)
	}()

	if err := run(ctx, client, converter, batches, *interval); err != nil {
		logrus.WithError(err).Fatal("publishing local traffic")
	}
}

// run accumulates converted vessels and republishes the full list each
// interval tick. A newer sighting of the same vessel replaces the held
// state; sightings outside the horizon are dropped before they reach
// the store.
func run(ctx context.Context, client *node.Client, converter *traffic.Converter, batches <-chan msgs.AISBatch, interval time.Duration) error {
	store := traffic.NewStore()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-batches:
			if !ok {
				return nil
			}
			// Raw reports are republished for any other consumer of
			// the AIS topic.
			if err := client.Publish(msgs.TopicAIS, batch); err != nil {
				return err
			}
			for _, v := range converter.ConvertBatch(batch) {
				store.Set(v)
			}
		case <-ticker.C:
			list := store.List(time.Now())
			if err := client.Publish(msgs.TopicLocalTraffic, list); err != nil {
				return err
			}
			logrus.WithField("vessels", len(list.Vessels)).Debug("published local traffic")
		}
	}
}

// streamAIS reads JSON batch frames from a live AIS WebSocket feed,
// redialing on read errors until the context is cancelled.
func streamAIS(ctx context.Context, url string, out chan<- msgs.AISBatch) {
	log := logrus.WithField("stream", url)
	for ctx.Err() == nil {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			log.WithError(err).Warn("AIS stream dial failed, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}
		for {
			var batch msgs.AISBatch
			if err := conn.ReadJSON(&batch); err != nil {
				log.WithError(err).Warn("AIS stream read failed, redialing")
				conn.Close()
				break
			}
			select {
			case <-ctx.Done():
				conn.Close()
				return
			case out <- batch:
			}
		}
	}
}

// replayAIS reads batches from a file of JSON lines.
func replayAIS(ctx context.Context, path string, out chan<- msgs.AISBatch) {
	log := logrus.WithField("file", path)
	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Error("opening AIS file")
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var batch msgs.AISBatch
		if err := json.Unmarshal(line, &batch); err != nil {
			log.WithError(err).Warn("skipping malformed batch")
			continue
		}
		select {
		case <-ctx.Done():
			return
		case out <- batch:
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Error("reading AIS file")
	}
}
