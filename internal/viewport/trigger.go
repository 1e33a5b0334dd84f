// Package viewport tracks visibility of rendered rows: the sentinel row that
// pulls the next page, and per-row latches used for lazy images.
package viewport

import "sync"

// Trigger fires a load request when the sentinel row scrolls into view.
// It fires at most once per hidden->visible transition and never while a
// load is running or after the last page.
type Trigger struct {
	mu      sync.Mutex
	armed   bool
	visible bool
	// done is set once no further pages exist.
	done bool
}

// NewTrigger returns an armed trigger.
func NewTrigger() *Trigger {
	return &Trigger{armed: true}
}

// Observe records the sentinel's current visibility and reports whether a
// load should start now. A transition that happens while loading is consumed
// without firing; Rearm gives the sentinel another chance.
func (t *Trigger) Observe(visible, hasMore, loading bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !hasMore {
		t.done = true
		t.armed = false
		t.visible = false
		return false
	}
	if t.done {
		return false
	}

	if visible && !t.visible {
		t.armed = true
	}
	t.visible = visible
	if !visible || !t.armed {
		return false
	}
	t.armed = false
	return !loading
}

// Rearm restarts observation after a page arrives. A sentinel that is still
// visible fires again on the next Observe.
func (t *Trigger) Rearm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.armed = true
}

// Reset brings a torn-down trigger back, used when the list is replaced.
func (t *Trigger) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = false
	t.armed = true
	t.visible = false
}

// Active reports whether the trigger is still observing.
func (t *Trigger) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.done
}
