package docstore

import (
	"sync"
)

// Hub fans snapshots out to watchers. Each watcher is served by its own
// goroutine, so a slow callback never blocks writers or other watchers;
// undelivered snapshots for one watcher collapse into the newest one.
//
// Subscribe and Publish must be called by the owner of the tree while it
// holds its write lock, which keeps every watcher's sequence ordered.
type Hub struct {
	mu       sync.Mutex
	nextID   uint64
	watchers map[uint64]*watcher
}

func NewHub() *Hub {
	return &Hub{watchers: make(map[uint64]*watcher)}
}

// Subscribe registers fn on path and queues the snapshot of root as its
// first delivery.
func (h *Hub) Subscribe(path string, root any, fn func(Snapshot)) Subscription {
	w := &watcher{
		path: Split(path),
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.watchers[id] = w
	h.mu.Unlock()

	w.release = func() {
		h.mu.Lock()
		delete(h.watchers, id)
		h.mu.Unlock()
	}

	w.offer(snapshotAt(root, w.path))
	go w.run()

	return w
}

// Publish offers the new root to every watcher related to one of changed.
func (h *Hub) Publish(root any, changed [][]string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, w := range h.watchers {
		for _, c := range changed {
			if related(w.path, c) {
				w.offer(snapshotAt(root, w.path))
				break
			}
		}
	}
}

// Len returns the number of live watchers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// Close cancels every watcher.
func (h *Hub) Close() {
	h.mu.Lock()
	ws := make([]*watcher, 0, len(h.watchers))
	for _, w := range h.watchers {
		ws = append(ws, w)
	}
	h.mu.Unlock()

	for _, w := range ws {
		w.Cancel()
	}
}

func snapshotAt(root any, segs []string) Snapshot {
	v, ok := lookup(root, segs)
	return Snapshot{Path: Join(segs...), Value: clone(v), Exists: ok}
}

type watcher struct {
	path    []string
	fn      func(Snapshot)
	release func()

	mu      sync.Mutex
	pending *Snapshot

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

func (w *watcher) offer(s Snapshot) {
	w.mu.Lock()
	w.pending = &s
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case <-w.wake:
		}

		w.mu.Lock()
		s := w.pending
		w.pending = nil
		w.mu.Unlock()

		if s == nil {
			continue
		}
		select {
		case <-w.done:
			return
		default:
		}
		w.fn(*s)
	}
}

func (w *watcher) Cancel() {
	w.once.Do(func() {
		close(w.done)
		w.release()
	})
}
