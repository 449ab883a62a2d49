package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/marben/mandelmovie/config"
	"github.com/marben/mandelmovie/events"
)

// openSinks starts the configured event consumers. The returned func stops
// them once the run is over.
func openSinks(cfg config.Config, log *slog.Logger) (events.Sink, func(), error) {
	var sinks events.Multi
	var stops []func()

	if cfg.Watch != "" {
		hub := events.NewHub(log)
		srv := events.NewServer(cfg.Watch, hub, cfg.OutDir)
		ln, err := net.Listen("tcp", cfg.Watch)
		if err != nil {
			return nil, nil, fmt.Errorf("watch listen: %w", err)
		}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("watch server", "error", err)
			}
		}()
		log.Info("watching progress", "ws", "ws://"+ln.Addr().String()+"/ws")

		sinks = append(sinks, hub)
		stops = append(stops, func() {
			hub.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		})
	}

	if cfg.EventLog != "" {
		f, err := os.OpenFile(cfg.EventLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("event log: %w", err)
		}
		sinks = append(sinks, events.NewLines(f))
		stops = append(stops, func() {
			if err := f.Close(); err != nil {
				log.Warn("closing event log", "error", err)
			}
		})
	}

	if len(cfg.KafkaBrokers) > 0 {
		k := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, k)
		stops = append(stops, func() {
			if err := k.Close(); err != nil {
				log.Warn("closing kafka writer", "error", err)
			}
		})
	}

	return sinks, func() {
		for _, stop := range stops {
			stop()
		}
	}, nil
}
