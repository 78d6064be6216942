// Package pubsub fans out dataset and scene events to server-sent event
// subscribers.
package pubsub

import (
	"context"
	"encoding/json"
)

// Topics published by the pipeline
const (
	TopicDatasetStatus = "dataset_status"
	TopicScene         = "scene"
)

// Dataset status event types
const (
	StatusLoading = "loading"
	StatusReady   = "ready"
	StatusError   = "error"
)

// Event is one published message
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"` // e.g. "loading", "ready", "diff"
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // Per-topic, increasing
}

// Subscription receives the events of one topic. The channel is closed when
// the subscription or the publisher is closed.
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher manages subscriptions and publishing
type Publisher interface {
	// Subscribe registers for topic; cancelling ctx closes the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish marshals data and sends it to every subscriber of topic
	Publish(topic string, eventType string, data any) error

	Close() error
}

// DatasetStatus reports dataset loading progress
type DatasetStatus struct {
	State   string `json:"state"` // loading, ready or error
	Path    string `json:"path"`
	Message string `json:"message"`
	Records int    `json:"records"`
	Reload  int    `json:"reload"` // 0 for the initial load
}
