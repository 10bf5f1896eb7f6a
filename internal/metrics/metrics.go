// Package metrics exposes Prometheus instrumentation for the simulation
// node.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoopCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simcharts_loop_cycles_total",
		Help: "Total simulation loop cycles executed",
	})

	TrafficPollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simcharts_traffic_polls_total",
		Help: "Traffic polls by outcome (replaced or empty)",
	}, []string{"outcome"})

	VesselsHeld = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "simcharts_vessels_held",
		Help: "Vessels currently held in the local traffic mapping",
	})

	ServiceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simcharts_service_requests_total",
		Help: "Gateway service requests by service name",
	}, []string{"service"})

	PublishesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simcharts_publishes_total",
		Help: "Gateway topic publishes by topic name",
	}, []string{"topic"})
)
