package watcher

import (
	"sort"
	"sync"
	"time"
)

// DebouncedEvent is the net operation on one path over a debounce window.
type DebouncedEvent struct {
	Path string
	Op   EventOp
}

// EventOp is the kind of change reported for a path.
type EventOp int

const (
	OpCreate EventOp = iota
	OpWrite
	OpRemove
	OpRename
)

func (op EventOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Debouncer folds the raw operations on each asset path into one net operation and
// hands the batch to the watcher once no event arrived for interval.
type Debouncer struct {
	interval time.Duration
	events   map[string]DebouncedEvent
	mu       sync.Mutex
	timer    *time.Timer
	output   chan []DebouncedEvent
}

// NewDebouncer creates a debouncer that waits interval after the last event.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		events:   make(map[string]DebouncedEvent),
		output:   make(chan []DebouncedEvent, 16),
	}
}

// Output returns the channel that receives the batches.
func (d *Debouncer) Output() <-chan []DebouncedEvent {
	return d.output
}

// Add folds op into the pending operation for path and restarts the quiet period.
func (d *Debouncer) Add(path string, op EventOp) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if previous, ok := d.events[path]; ok {
		merged, keep := mergeOps(previous.Op, op)
		if !keep {
			delete(d.events, path)
		} else {
			d.events[path] = DebouncedEvent{Path: path, Op: merged}
		}
	} else {
		d.events[path] = DebouncedEvent{Path: path, Op: op}
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// mergeOps returns the net operation of previous followed by next. keep is false when
// the two cancel out.
//
//	create, write  -> create  (new asset still being written)
//	create, remove -> nothing (temporary file)
//	remove, create -> write   (asset replaced in place, e.g. an atomic save)
//	anything else  -> next
func mergeOps(previous EventOp, next EventOp) (EventOp, bool) {
	switch {
	case previous == OpCreate && next == OpWrite:
		return OpCreate, true
	case previous == OpCreate && next == OpRemove:
		return 0, false
	case previous == OpRemove && next == OpCreate:
		return OpWrite, true
	default:
		return next, true
	}
}

// flush emits the pending operations ordered by path.
func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.events) == 0 {
		return
	}

	batch := make([]DebouncedEvent, 0, len(d.events))
	for _, event := range d.events {
		batch = append(batch, event)
	}
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Path < batch[j].Path
	})

	d.events = make(map[string]DebouncedEvent)
	d.output <- batch
}
