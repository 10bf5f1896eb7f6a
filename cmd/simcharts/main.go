package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/morild/simcharts/internal/sim"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := sim.LoadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("loading configuration")
	}

	enc, err := sim.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("building simulation")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := enc.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("starting simulation")
	}
	defer enc.Close()

	// RunGame must own the main goroutine.
	if err := enc.Run(); err != nil {
		logrus.WithError(err).Fatal("display")
	}
}
