package store

import "sync"

// inflight tracks running actions by start sequence so a waiter can drain
// exactly the actions that began before it, while new ones keep starting.
type inflight struct {
	mu      sync.Mutex
	settled *sync.Cond
	started uint64
	pending map[uint64]struct{}
}

func newInflight() *inflight {
	f := &inflight{pending: make(map[uint64]struct{})}
	f.settled = sync.NewCond(&f.mu)
	return f
}

func (f *inflight) begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	f.pending[f.started] = struct{}{}
	return f.started
}

func (f *inflight) done(seq uint64) {
	f.mu.Lock()
	delete(f.pending, seq)
	f.mu.Unlock()
	f.settled.Broadcast()
}

func (f *inflight) wait() {
	f.mu.Lock()
	defer f.mu.Unlock()
	target := f.started
	for f.pendingThrough(target) {
		f.settled.Wait()
	}
}

// pendingThrough reports whether any action with seq <= target is running.
func (f *inflight) pendingThrough(target uint64) bool {
	for seq := range f.pending {
		if seq <= target {
			return true
		}
	}
	return false
}
