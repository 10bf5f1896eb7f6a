package node

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/morild/simcharts/internal/broker"
	"github.com/morild/simcharts/internal/msgs"
	"github.com/morild/simcharts/internal/traffic"
)

func publishList(t *testing.T, bus *broker.Bus, vessels ...msgs.Vessel) {
	t.Helper()
	payload, err := json.Marshal(msgs.VesselList{Vessels: vessels})
	if err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(msgs.TopicLocalTraffic, payload); err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestSubscriberReplacesWholesale(t *testing.T) {
	bus := broker.New(logrus.New())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := traffic.NewStore()
	sub := NewLocalTrafficSubscriber(store)
	go sub.Run(ctx, bus)

	// The subscription must exist before publishing: the go-channel bus
	// does not buffer for future subscribers.
	waitFor(t, func() bool {
		publishList(t, bus, msgs.Vessel{ID: "a"}, msgs.Vessel{ID: "b"})
		return len(sub.LocalTraffic()) == 2
	})

	publishList(t, bus, msgs.Vessel{ID: "c"})
	waitFor(t, func() bool {
		held := sub.LocalTraffic()
		_, hasC := held["c"]
		return len(held) == 1 && hasC
	})
}

func TestSubscriberSkipsMalformedPayloads(t *testing.T) {
	bus := broker.New(logrus.New())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := traffic.NewStore()
	sub := NewLocalTrafficSubscriber(store)
	go sub.Run(ctx, bus)

	waitFor(t, func() bool {
		publishList(t, bus, msgs.Vessel{ID: "a"})
		return len(sub.LocalTraffic()) == 1
	})

	if err := bus.Publish(msgs.TopicLocalTraffic, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	publishList(t, bus, msgs.Vessel{ID: "b"})
	waitFor(t, func() bool {
		_, hasB := sub.LocalTraffic()["b"]
		return hasB
	})
}
