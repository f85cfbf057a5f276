// Command viewer attaches to a running relay and prints each sample with
// its percent-change metrics, the same contract the dashboard consumes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lakshayyy10/BioSync/internal/domain"
	"github.com/lakshayyy10/BioSync/internal/viewer"
	"github.com/lakshayyy10/BioSync/internal/vitals"
)

func main() {
	url := flag.String("url", "ws://localhost:8786/ws", "relay delivery endpoint")
	capacity := flag.Int("window", vitals.DefaultCapacity, "rolling window capacity")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := viewer.Dial(ctx, *url, viewer.Options{
		WindowCapacity: *capacity,
		OnSample: func(s domain.Sample) {
			fmt.Printf("%s  temp %.1f°C (%+.1f%%)  hr %.0f bpm (%+.1f%%)  spo2 %.0f%% (%+.1f%%)\n",
				s.Timestamp,
				s.Reading.Temperature, s.Change.Temperature,
				s.Reading.HeartRate, s.Change.HeartRate,
				s.Reading.SpO2, s.Change.SpO2,
			)
		},
	})
	cancel()
	if err != nil {
		slog.Error("Failed to connect to relay", "url", *url, "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		client.Close()
	}()

	if err := client.Run(); err != nil {
		slog.Error("Stream ended", "error", err)
		os.Exit(1)
	}
	slog.Info("Stream closed", "samples_seen", len(client.Samples()))
}
