package ingest

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const mqttDisconnectQuiesceMs = 250

// MQTTFeed subscribes to one topic on an MQTT broker.
type MQTTFeed struct {
	client mqtt.Client
	topic  string

	msgs      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// NewMQTTFeed connects to the broker and establishes the subscription.
// Auto-reconnect is disabled on purpose: a lost connection marks the feed
// dead and the caller decides what to do with a dead feed.
func NewMQTTFeed(brokerURL, clientID, topic string) (*MQTTFeed, error) {
	f := &MQTTFeed{
		topic: topic,
		msgs:  make(chan []byte, 64),
		done:  make(chan struct{}),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(false).
		SetOnConnectHandler(func(mqtt.Client) {
			slog.Info("Connected to MQTT broker", "broker", brokerURL)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			slog.Error("MQTT connection lost", "broker", brokerURL, "error", err)
			f.fail(fmt.Errorf("connection lost: %w", err))
		})

	f.client = mqtt.NewClient(opts)
	if token := f.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", brokerURL, token.Error())
	}

	if token := f.client.Subscribe(topic, 0, f.onMessage); token.Wait() && token.Error() != nil {
		f.client.Disconnect(mqttDisconnectQuiesceMs)
		return nil, fmt.Errorf("subscribe to %q: %w", topic, token.Error())
	}

	slog.Info("Subscribed to feed topic", "topic", topic)
	return f, nil
}

func (f *MQTTFeed) onMessage(_ mqtt.Client, m mqtt.Message) {
	// paho reuses the message buffer; copy before handing it off
	payload := slices.Clone(m.Payload())
	select {
	case f.msgs <- payload:
	case <-f.done:
	}
}

func (f *MQTTFeed) Messages() <-chan []byte { return f.msgs }

func (f *MQTTFeed) Done() <-chan struct{} { return f.done }

func (f *MQTTFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close unsubscribes and disconnects. Safe to call more than once.
func (f *MQTTFeed) Close() {
	f.closeOnce.Do(func() {
		close(f.done)
		if f.client.IsConnected() {
			_ = f.client.Unsubscribe(f.topic).Wait()
			f.client.Disconnect(mqttDisconnectQuiesceMs)
		}
		slog.Info("Disconnected from MQTT broker")
	})
}

func (f *MQTTFeed) fail(err error) {
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.done) })
}
