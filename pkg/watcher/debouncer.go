package watcher

import (
	"context"
	"sort"
	"time"
)

// Debouncer merges bursts of change events into one event per type once the
// input has been quiet for quietPeriod, or at the latest after maxWait
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer wraps input
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start runs the debouncer until ctx is done or input closes
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

type accumulator struct {
	paths   map[string]bool // path -> removed
	changes int
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	acc := make(map[ChangeType]*accumulator)
	var quiet, deadline <-chan time.Time

	// flush reports false when ctx ended before the output was taken
	flush := func() bool {
		quiet, deadline = nil, nil
		if len(acc) == 0 {
			return true
		}

		types := make([]ChangeType, 0, len(acc))
		for t := range acc {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

		for _, t := range types {
			ev := ChangeEvent{Type: t, Timestamp: time.Now()}
			for p, removed := range acc[t].paths {
				ev.Paths = append(ev.Paths, p)
				if removed {
					ev.Removed = append(ev.Removed, p)
				}
			}
			sort.Strings(ev.Paths)
			sort.Strings(ev.Removed)

			log.Debug("flushing changes", "type", t.String(), "events", acc[t].changes, "files", len(ev.Paths))
			select {
			case d.output <- ev:
			case <-ctx.Done():
				return false
			}
		}
		acc = make(map[ChangeType]*accumulator)
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-d.input:
			if !ok {
				flush()
				return
			}

			a := acc[ev.Type]
			if a == nil {
				a = &accumulator{paths: make(map[string]bool)}
				acc[ev.Type] = a
			}
			removed := make(map[string]bool, len(ev.Removed))
			for _, p := range ev.Removed {
				removed[p] = true
			}
			for _, p := range ev.Paths {
				a.paths[p] = removed[p]
			}
			a.changes++

			quiet = time.After(d.quietPeriod)
			if deadline == nil {
				deadline = time.After(d.maxWait)
			}

		case <-quiet:
			if !flush() {
				return
			}

		case <-deadline:
			if !flush() {
				return
			}
		}
	}
}

// Output returns the debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
