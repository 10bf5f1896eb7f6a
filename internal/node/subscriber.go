package node

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/morild/simcharts/internal/broker"
	"github.com/morild/simcharts/internal/metrics"
	"github.com/morild/simcharts/internal/msgs"
	"github.com/morild/simcharts/internal/traffic"
)

// LocalTrafficSubscriber consumes the local traffic topic and holds the
// most recent vessel mapping. Every received list replaces the mapping
// wholesale; reads return a deep copy.
type LocalTrafficSubscriber struct {
	store *traffic.Store
	log   *logrus.Entry
}

func NewLocalTrafficSubscriber(store *traffic.Store) *LocalTrafficSubscriber {
	return &LocalTrafficSubscriber{
		store: store,
		log:   logrus.WithField("component", "traffic-subscriber"),
	}
}

// Run consumes the topic until ctx is cancelled or the bus closes.
func (s *LocalTrafficSubscriber) Run(ctx context.Context, bus *broker.Bus) error {
	ch, err := bus.Subscribe(ctx, msgs.TopicLocalTraffic)
	if err != nil {
		return err
	}
	for msg := range ch {
		var list msgs.VesselList
		if err := json.Unmarshal(msg.Payload, &list); err != nil {
			s.log.WithError(err).Warn("dropping malformed vessel list")
			msg.Ack()
			continue
		}
		s.log.WithField("vessels", len(list.Vessels)).Debug("received local traffic")
		s.store.Replace(list.Vessels)
		metrics.VesselsHeld.Set(float64(len(list.Vessels)))
		msg.Ack()
	}
	return nil
}

// LocalTraffic returns a deep copy of the held vessel mapping.
func (s *LocalTrafficSubscriber) LocalTraffic() map[string]msgs.Vessel {
	return s.store.Snapshot()
}
