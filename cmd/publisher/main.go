// Command publisher emits synthetic health readings to the configured
// pub/sub backend. It stands in for the sensor node during development.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	goredis "github.com/redis/go-redis/v9"
)

type reading struct {
	Temperature float64 `json:"temperature"`
	HeartRate   float64 `json:"heartrate"`
	SpO2        float64 `json:"spo2"`
	Timestamp   string  `json:"timestamp"`
}

// vitalsim drifts each metric around a healthy baseline.
type vitalsim struct {
	temperature float64
	heartRate   float64
	spo2        float64
}

func newVitalsim() *vitalsim {
	return &vitalsim{temperature: 36.6, heartRate: 72, spo2: 98}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *vitalsim) next(now time.Time) reading {
	s.temperature = clamp(s.temperature+(rand.Float64()-0.5)*0.2, 35.5, 38.5)
	s.heartRate = clamp(s.heartRate+(rand.Float64()-0.5)*4, 50, 110)
	s.spo2 = clamp(s.spo2+(rand.Float64()-0.5)*0.6, 90, 100)
	return reading{
		Temperature: s.temperature,
		HeartRate:   float64(int(s.heartRate)),
		SpO2:        float64(int(s.spo2)),
		Timestamp:   now.Format("15:04:05"),
	}
}

type publisher interface {
	publish(payload []byte) error
	close()
}

type mqttPublisher struct {
	client mqtt.Client
	topic  string
}

func newMQTTPublisher(brokerURL, topic string) (*mqttPublisher, error) {
	opts := mqtt.NewClientOptions().AddBroker(brokerURL).SetClientID("biosync-publisher")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", brokerURL, token.Error())
	}
	return &mqttPublisher{client: client, topic: topic}, nil
}

func (p *mqttPublisher) publish(payload []byte) error {
	token := p.client.Publish(p.topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

func (p *mqttPublisher) close() {
	p.client.Disconnect(250)
}

type redisPublisher struct {
	client *goredis.Client
	topic  string
}

func newRedisPublisher(redisURL, topic string) (*redisPublisher, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", opt.Addr, err)
	}
	return &redisPublisher{client: client, topic: topic}, nil
}

func (p *redisPublisher) publish(payload []byte) error {
	return p.client.Publish(context.Background(), p.topic, payload).Err()
}

func (p *redisPublisher) close() {
	_ = p.client.Close()
}

func main() {
	backend := flag.String("backend", "mqtt", "pub/sub backend: mqtt or redis")
	brokerURL := flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	redisURL := flag.String("redis", "redis://localhost:6379", "Redis URL")
	topic := flag.String("topic", "health_metrics", "feed topic")
	interval := flag.Duration("interval", time.Second, "publish interval")
	flag.Parse()

	var (
		pub publisher
		err error
	)
	switch *backend {
	case "mqtt":
		pub, err = newMQTTPublisher(*brokerURL, *topic)
	case "redis":
		pub, err = newRedisPublisher(*redisURL, *topic)
	default:
		slog.Error("Unknown backend", "backend", *backend)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Failed to connect", "error", err)
		os.Exit(1)
	}
	defer pub.close()

	slog.Info("Publishing readings", "backend", *backend, "topic", *topic, "interval", *interval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sim := newVitalsim()
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			slog.Info("Stopping publisher")
			return
		case now := <-ticker.C:
			r := sim.next(now)
			payload, err := json.Marshal(r)
			if err != nil {
				slog.Error("Failed to marshal reading", "error", err)
				continue
			}
			if err := pub.publish(payload); err != nil {
				slog.Error("Failed to publish reading", "error", err)
				continue
			}
			slog.Info("Published", "payload", string(payload))
		}
	}
}
