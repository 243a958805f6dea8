package mqtt

import "time"

// Message is one payload as it would reach the broker.
type Message struct {
	Topic    string
	Payload  []byte
	Retained bool
}

// FakePublisher records what would have been published, for tests.
// It is not safe for concurrent use.
type FakePublisher struct {
	Events       []Event
	SystemEvents []SystemEvent

	// Messages holds every formatted payload across both topics, in order.
	Messages []Message

	// Errors returned instead of recording, when set.
	PublishError       error
	PublishSystemError error

	// Flushes records the timeout of every Flush call.
	// FlushFails makes Flush report undelivered messages.
	Flushes    []time.Duration
	FlushFails bool

	Closed    bool
	Connected bool // reported by IsConnected
}

// NewFakePublisher creates an empty FakePublisher.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) Publish(event Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Messages = append(f.Messages, Message{Topic: Topic, Payload: payload})
	return nil
}

func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.Messages = append(f.Messages, Message{Topic: TopicSystem, Payload: payload, Retained: event.Retained})
	return nil
}

// Payloads returns the payloads published to topic, in order.
func (f *FakePublisher) Payloads(topic string) [][]byte {
	var out [][]byte
	for _, m := range f.Messages {
		if m.Topic == topic {
			out = append(out, m.Payload)
		}
	}
	return out
}

// SystemEventNames returns the Event field of every recorded system event.
func (f *FakePublisher) SystemEventNames() []string {
	names := make([]string, len(f.SystemEvents))
	for i, e := range f.SystemEvents {
		names[i] = e.Event
	}
	return names
}

func (f *FakePublisher) Flush(timeout time.Duration) bool {
	f.Flushes = append(f.Flushes, timeout)
	return !f.FlushFails
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset forgets everything recorded and clears injected errors.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
