package progress

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Listener receives a copy of the snapshot after every mutation.
type Listener func(*Snapshot)

type listenerEntry struct {
	fn      Listener
	removed atomic.Bool
}

// dispatcher delivers snapshots to listeners in FIFO order. A mutation
// made from inside a listener queues its snapshot; it is delivered after
// the current round instead of recursing.
type dispatcher struct {
	mu          sync.Mutex
	listeners   []*listenerEntry
	queue       []*Snapshot
	dispatching bool
}

func (d *dispatcher) add(fn Listener) (remove func()) {
	e := &listenerEntry{fn: fn}
	d.mu.Lock()
	d.listeners = append(d.listeners, e)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.removed.Store(true)
			d.mu.Lock()
			d.listeners = slices.DeleteFunc(d.listeners, func(x *listenerEntry) bool { return x == e })
			d.mu.Unlock()
		})
	}
}

func (d *dispatcher) enqueue(snap *Snapshot) {
	d.mu.Lock()
	d.queue = append(d.queue, snap)
	d.mu.Unlock()
}

// drain delivers queued snapshots unless another call is already doing so.
func (d *dispatcher) drain() {
	d.mu.Lock()
	if d.dispatching {
		d.mu.Unlock()
		return
	}
	d.dispatching = true
	for len(d.queue) > 0 {
		snap := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		round := slices.Clone(d.listeners)
		d.mu.Unlock()

		for _, e := range round {
			if e.removed.Load() {
				continue
			}
			e.fn(snap.Clone())
		}

		d.mu.Lock()
	}
	d.dispatching = false
	d.mu.Unlock()
}

func (d *dispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}
