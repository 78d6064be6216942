package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/mindmap/pkg/logging"
)

var log = logging.New("pubsub")

// ErrClosed is returned after the publisher has been closed
var ErrClosed = errors.New("publisher is closed")

const subscriberBuffer = 100

// TopicConfig sets how many events a topic keeps for late subscribers
type TopicConfig struct {
	BufferSize int  // 0 disables replay
	ReplayAll  bool // Replay the whole buffer instead of only the latest event
}

// SSEPublisher is an in-process Publisher feeding SSE handlers
type SSEPublisher struct {
	mu            sync.Mutex
	subscriptions map[string]map[*sseSubscription]struct{}
	version       map[string]int
	buffer        map[string][]Event
	config        map[string]TopicConfig
	closed        bool
}

// NewSSEPublisher returns an empty publisher
func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{
		subscriptions: make(map[string]map[*sseSubscription]struct{}),
		version:       make(map[string]int),
		buffer:        make(map[string][]Event),
		config:        make(map[string]TopicConfig),
	}
}

// ConfigureTopic sets buffering for topic
func (p *SSEPublisher) ConfigureTopic(topic string, config TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config[topic] = config
}

// Subscribe registers a subscriber and replays buffered events to it
func (p *SSEPublisher) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	sub := &sseSubscription{
		topic:     topic,
		events:    make(chan Event, subscriberBuffer),
		publisher: p,
	}
	if p.subscriptions[topic] == nil {
		p.subscriptions[topic] = make(map[*sseSubscription]struct{})
	}
	p.subscriptions[topic][sub] = struct{}{}

	replay := p.buffer[topic]
	if !p.config[topic].ReplayAll && len(replay) > 1 {
		replay = replay[len(replay)-1:]
	}
	for _, event := range replay {
		select {
		case sub.events <- event:
		default:
			log.Warn("could not replay event", "topic", topic, "version", event.Version)
		}
	}
	if len(replay) > 0 {
		log.Debug("replayed events", "topic", topic, "count", len(replay))
	}

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return sub, nil
}

// Publish sends data to every subscriber of topic without blocking.
// Subscribers that fall behind lose events.
func (p *SSEPublisher) Publish(topic string, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.version[topic]++
	event := Event{Topic: topic, Type: eventType, Data: payload, Version: p.version[topic]}

	if size := p.config[topic].BufferSize; size > 0 {
		buf := append(p.buffer[topic], event)
		if len(buf) > size {
			buf = buf[len(buf)-size:]
		}
		p.buffer[topic] = buf
	}

	for sub := range p.subscriptions[topic] {
		select {
		case sub.events <- event:
		default:
			log.Warn("subscriber channel full, dropping event", "topic", topic, "version", event.Version)
		}
	}

	return nil
}

// Close shuts down the publisher and closes every subscription channel
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, subs := range p.subscriptions {
		for sub := range subs {
			sub.shut()
		}
	}
	p.subscriptions = make(map[string]map[*sseSubscription]struct{})
	return nil
}

func (p *SSEPublisher) unsubscribe(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if subs := p.subscriptions[sub.topic]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(p.subscriptions, sub.topic)
		}
	}
}

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher
	closeOnce sync.Once
	shutOnce  sync.Once
}

func (s *sseSubscription) Topic() string        { return s.topic }
func (s *sseSubscription) Events() <-chan Event { return s.events }

// Close unsubscribes before closing the channel so Publish never sends on
// a closed channel
func (s *sseSubscription) Close() error {
	s.closeOnce.Do(func() {
		s.publisher.unsubscribe(s)
		s.shut()
	})
	return nil
}

func (s *sseSubscription) shut() {
	s.shutOnce.Do(func() { close(s.events) })
}

// WriteSSE writes event as an SSE "data:" frame
func WriteSSE(w io.Writer, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	return err
}
