package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func subscribe(t *testing.T, pub *SSEPublisher, topic string) Subscription {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sub, err := pub.Subscribe(ctx, topic)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	return sub
}

func receive(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		if !ok {
			t.Fatal("Subscription closed unexpectedly")
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for event")
	}
	return Event{}
}

func expectNone(t *testing.T, sub Subscription) {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		if ok {
			t.Errorf("Received unexpected event version %d", event.Version)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReplayAll(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()
	pub.ConfigureTopic(TopicDatasetStatus, TopicConfig{BufferSize: 3, ReplayAll: true})

	for i := 1; i <= 5; i++ {
		if err := pub.Publish(TopicDatasetStatus, StatusLoading, DatasetStatus{Reload: i}); err != nil {
			t.Fatalf("Publish %d: %v", i, err)
		}
	}

	sub := subscribe(t, pub, TopicDatasetStatus)
	for want := 3; want <= 5; want++ {
		if got := receive(t, sub).Version; got != want {
			t.Errorf("Expected version %d, got %d", want, got)
		}
	}
	expectNone(t, sub)
}

func TestReplayLastOnly(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()
	pub.ConfigureTopic(TopicScene, TopicConfig{BufferSize: 5})

	for i := 1; i <= 3; i++ {
		if err := pub.Publish(TopicScene, "diff", map[string]int{"n": i}); err != nil {
			t.Fatalf("Publish %d: %v", i, err)
		}
	}

	sub := subscribe(t, pub, TopicScene)
	event := receive(t, sub)
	if event.Version != 3 || event.Topic != TopicScene || event.Type != "diff" {
		t.Errorf("Unexpected replay %+v", event)
	}
	expectNone(t, sub)
}

func TestNoBuffer(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	for i := 1; i <= 3; i++ {
		_ = pub.Publish("test", "event", i)
	}

	sub := subscribe(t, pub, "test")
	expectNone(t, sub)

	if err := pub.Publish("test", "event", 4); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := receive(t, sub).Version; got != 4 {
		t.Errorf("Expected version 4, got %d", got)
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	pub := NewSSEPublisher()
	sub := subscribe(t, pub, "test")

	if err := pub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Error("Expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("Channel not closed")
	}

	// Closing the subscription afterwards must not panic
	_ = sub.Close()

	if err := pub.Publish("test", "event", 1); err != ErrClosed {
		t.Errorf("Publish after Close = %v, want ErrClosed", err)
	}
	if _, err := pub.Subscribe(context.Background(), "test"); err != ErrClosed {
		t.Errorf("Subscribe after Close = %v, want ErrClosed", err)
	}
}

func TestContextCancelUnsubscribes(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := pub.Subscribe(ctx, "test")
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Error("Expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("Subscription not closed after cancel")
	}

	if err := pub.Publish("test", "event", 1); err != nil {
		t.Errorf("Publish after unsubscribe: %v", err)
	}
}

func TestWriteSSE(t *testing.T) {
	var buf bytes.Buffer
	event := Event{Topic: TopicScene, Type: "diff", Data: json.RawMessage(`{"hash":"x"}`), Version: 7}

	if err := WriteSSE(&buf, event); err != nil {
		t.Fatalf("WriteSSE: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "event: diff\ndata: {") || !strings.HasSuffix(out, "}\n\n") {
		t.Errorf("Unexpected frame %q", out)
	}
	if !strings.Contains(out, `"version":7`) || !strings.Contains(out, `"data":{"hash":"x"}`) {
		t.Errorf("Frame missing fields: %q", out)
	}
}
