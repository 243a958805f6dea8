package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	bufferCapacity = 64
	publishTimeout = 5 * time.Second
)

// RealPublisher publishes to an actual MQTT broker.
// Publish never blocks the poll loop: delivery is confirmed in the
// background and messages are buffered while the broker is unreachable.
type RealPublisher struct {
	client paho.Client

	mu       sync.Mutex
	buf      *ringBuffer
	inflight map[paho.Token]struct{}
}

// NewRealPublisher starts connecting to broker and returns immediately.
// The client keeps retrying in the background until Close.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	will, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE"})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	p := &RealPublisher{
		buf:      newRingBuffer(bufferCapacity),
		inflight: make(map[paho.Token]struct{}),
	}
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p, nil
}

func (p *RealPublisher) onConnect(paho.Client) {
	p.mu.Lock()
	pending := p.buf.drainAll()
	p.mu.Unlock()

	log.Printf("mqtt: connected, replaying %d buffered messages", len(pending))
	for _, msg := range pending {
		p.send(msg)
	}
}

// Publish sends a connection event to the broker.
func (p *RealPublisher) Publish(event Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	p.send(bufferedMsg{topic: Topic, payload: payload})
	return nil
}

// PublishSystem sends a system lifecycle event to the broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
	return nil
}

func (p *RealPublisher) send(msg bufferedMsg) {
	if !p.client.IsConnectionOpen() {
		p.hold(msg)
		return
	}

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	p.mu.Lock()
	p.inflight[token] = struct{}{}
	p.mu.Unlock()

	go func() {
		defer func() {
			p.mu.Lock()
			delete(p.inflight, token)
			p.mu.Unlock()
		}()
		if !token.WaitTimeout(publishTimeout) {
			log.Printf("mqtt: publish to %s timed out", msg.topic)
			p.hold(msg)
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: publish to %s: %v", msg.topic, err)
			p.hold(msg)
		}
	}()
}

func (p *RealPublisher) hold(msg bufferedMsg) {
	p.mu.Lock()
	p.buf.push(msg)
	p.mu.Unlock()
}

// Flush waits for every in-flight publish to complete, up to timeout.
// Messages held while offline are not sent by Flush.
func (p *RealPublisher) Flush(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	p.mu.Lock()
	tokens := make([]paho.Token, 0, len(p.inflight))
	for t := range p.inflight {
		tokens = append(tokens, t)
	}
	p.mu.Unlock()

	for _, t := range tokens {
		if !t.WaitTimeout(time.Until(deadline)) {
			return false
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.len() == 0
}

// IsConnected reports whether the broker connection is currently open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
