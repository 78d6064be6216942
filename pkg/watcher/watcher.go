// Package watcher reports changes to the dataset on disk: either a single
// consolidated file or a directory of per-contributor JSON files.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/mindmap/pkg/logging"
)

var log = logging.New("watcher")

// batchWindow groups fsnotify bursts (write + chmod, rename + create)
const batchWindow = 100 * time.Millisecond

// ChangeType tells which kind of dataset file changed
type ChangeType int

const (
	// ChangeTypeDataset is the consolidated dataset file
	ChangeTypeDataset ChangeType = iota
	// ChangeTypeContributor is a per-contributor file in a dataset directory
	ChangeTypeContributor
)

func (t ChangeType) String() string {
	switch t {
	case ChangeTypeDataset:
		return "dataset"
	case ChangeTypeContributor:
		return "contributor"
	}
	return fmt.Sprintf("ChangeType(%d)", int(t))
}

// ChangeEvent is a batch of changes of one type
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Removed   []string // Subset of Paths that were removed or renamed away
	Timestamp time.Time
}

// FileWatcher watches a dataset path
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	dir     string
	isDir   bool
	events  chan ChangeEvent
}

// NewFileWatcher prepares a watcher for path, which may be a file or a
// directory. A file is watched through its parent directory so that
// editors replacing it atomically are noticed.
func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher: w,
		path:    abs,
		dir:     abs,
		isDir:   info.IsDir(),
		events:  make(chan ChangeEvent, 100),
	}
	if !fw.isDir {
		fw.dir = filepath.Dir(abs)
	}
	return fw, nil
}

// Start begins watching; the events channel closes when ctx is done
func (fw *FileWatcher) Start(ctx context.Context) error {
	if err := fw.watcher.Add(fw.dir); err != nil {
		_ = fw.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", fw.dir, err)
	}

	log.Info("watching dataset", "path", fw.path, "directory", fw.isDir)
	go fw.processEvents(ctx)
	return nil
}

// classify returns the change type for name, or false if it is irrelevant
func (fw *FileWatcher) classify(name string) (ChangeType, bool) {
	if !fw.isDir {
		return ChangeTypeDataset, filepath.Clean(name) == fw.path
	}
	if filepath.Dir(filepath.Clean(name)) != fw.dir {
		return 0, false
	}
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return 0, false
	}
	return ChangeTypeContributor, strings.EqualFold(filepath.Ext(base), ".json")
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer fw.watcher.Close()

	pending := make(map[string]bool) // path -> removed
	var pendingType ChangeType

	flushTimer := time.NewTimer(batchWindow)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		ev := ChangeEvent{Type: pendingType, Timestamp: time.Now()}
		for p, removed := range pending {
			ev.Paths = append(ev.Paths, p)
			if removed {
				ev.Removed = append(ev.Removed, p)
			}
		}
		pending = make(map[string]bool)

		select {
		case fw.events <- ev:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			changeType, relevant := fw.classify(event.Name)
			if !relevant {
				continue
			}

			log.Trace("file event", "path", event.Name, "op", event.Op.String())
			pendingType = changeType
			pending[event.Name] = event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename)
			flushTimer.Reset(batchWindow)

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err)
		}
	}
}

// Events returns batched change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}
