// Package pipeline loads the dataset, builds the scene and keeps it current
// while the dataset changes on disk.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ritzau/mindmap/pkg/dataset"
	"github.com/ritzau/mindmap/pkg/logging"
	"github.com/ritzau/mindmap/pkg/pubsub"
	"github.com/ritzau/mindmap/pkg/scene"
	"github.com/ritzau/mindmap/pkg/watcher"
)

var log = logging.New("pipeline")

// Debounce defaults for watch mode
const (
	DefaultQuietPeriod = 300 * time.Millisecond
	DefaultMaxWait     = 2 * time.Second
)

// Scene event types
const (
	SceneEventFull = "full"
	SceneEventDiff = "diff"
)

// SceneSink receives every successfully built scene
type SceneSink interface {
	SetScene(s *scene.Scene)
}

// SceneUpdate is published on the scene topic after each load
type SceneUpdate struct {
	Reload  int         `json:"reload"`
	Records int         `json:"records"`
	Nodes   int         `json:"nodes"`
	Edges   int         `json:"edges"`
	Diff    *scene.Diff `json:"diff"`
}

// Runner orchestrates loading and reloading
type Runner struct {
	path      string
	opts      scene.Options
	publisher pubsub.Publisher
	sink      SceneSink

	QuietPeriod time.Duration
	MaxWait     time.Duration

	mu       sync.Mutex // Prevent concurrent loads
	current  *scene.Scene
	snapshot *scene.Snapshot
	loads    int
}

// NewRunner creates a runner for the dataset at path. sink may be nil.
func NewRunner(path string, opts scene.Options, publisher pubsub.Publisher, sink SceneSink) *Runner {
	return &Runner{
		path:        path,
		opts:        opts,
		publisher:   publisher,
		sink:        sink,
		QuietPeriod: DefaultQuietPeriod,
		MaxWait:     DefaultMaxWait,
	}
}

// Scene returns the latest successfully built scene
func (r *Runner) Scene() *scene.Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Run loads the dataset and swaps in the new scene. On failure the previous
// scene stays in place and the error is published.
func (r *Runner) Run(ctx context.Context, reason string) (*scene.Scene, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reload := r.loads
	r.loads++

	log.Info("loading dataset", "reason", reason, "path", r.path, "reload", reload)
	r.publishStatus(pubsub.DatasetStatus{
		State:   pubsub.StatusLoading,
		Path:    r.path,
		Message: reason,
		Reload:  reload,
	})

	if err := ctx.Err(); err != nil {
		return nil, r.fail(reload, fmt.Errorf("load cancelled: %w", err))
	}

	records, err := dataset.Load(r.path)
	if err != nil {
		return nil, r.fail(reload, fmt.Errorf("failed to load dataset: %w", err))
	}

	s, err := scene.Build(records, r.opts)
	if err != nil {
		return nil, r.fail(reload, fmt.Errorf("failed to build scene: %w", err))
	}

	view := s.View()
	diff := scene.ComputeDiff(r.snapshot, view)
	r.snapshot = scene.NewSnapshot(view)
	r.current = s

	if r.sink != nil {
		r.sink.SetScene(s)
	}

	log.Info("dataset ready",
		"records", len(records),
		"nodes", len(view.Nodes),
		"edges", len(view.Edges),
		"changed", !diff.Empty())

	r.publishStatus(pubsub.DatasetStatus{
		State:   pubsub.StatusReady,
		Path:    r.path,
		Message: reason,
		Records: len(records),
		Reload:  reload,
	})

	eventType := SceneEventDiff
	if diff.FullScene {
		eventType = SceneEventFull
	}
	update := SceneUpdate{
		Reload:  reload,
		Records: len(records),
		Nodes:   len(view.Nodes),
		Edges:   len(view.Edges),
		Diff:    diff,
	}
	if err := r.publisher.Publish(pubsub.TopicScene, eventType, update); err != nil {
		log.Warn("failed to publish scene update", "error", err)
	}

	return s, nil
}

func (r *Runner) fail(reload int, err error) error {
	log.Error("dataset load failed", "path", r.path, "reload", reload, "error", err)
	r.publishStatus(pubsub.DatasetStatus{
		State:   pubsub.StatusError,
		Path:    r.path,
		Message: err.Error(),
		Reload:  reload,
	})
	return err
}

func (r *Runner) publishStatus(status pubsub.DatasetStatus) {
	if err := r.publisher.Publish(pubsub.TopicDatasetStatus, status.State, status); err != nil {
		log.Warn("failed to publish dataset status", "state", status.State, "error", err)
	}
}

// Watch reloads the dataset whenever it changes on disk. It returns once the
// watcher is running; reloading continues until ctx is done.
func (r *Runner) Watch(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(r.path)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(fw.Events(), r.QuietPeriod, r.MaxWait)
	debouncer.Start(ctx)

	go func() {
		for event := range debouncer.Output() {
			analysis := watcher.AnalyzeChanges(event)
			if !analysis.NeedReload {
				continue
			}
			log.Debug("change detected", "type", event.Type.String(), "files", len(analysis.ChangedFiles))
			// Errors are already logged and published
			_, _ = r.Run(ctx, analysis.Reason)
		}
		log.Debug("watch loop stopped")
	}()

	return nil
}
