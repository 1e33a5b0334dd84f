package viewport

import "sync"

// Latch remembers which keys have been in view. Once a key is seen it stays
// seen.
type Latch struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewLatch() *Latch {
	return &Latch{seen: map[string]struct{}{}}
}

// Mark records key as in view and reports whether this is the first time.
func (l *Latch) Mark(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[key]; ok {
		return false
	}
	l.seen[key] = struct{}{}
	return true
}

// Seen reports whether key has been in view.
func (l *Latch) Seen(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[key]
	return ok
}

// Window returns the half-open index range [start, end) of rows visible in a
// list scrolled to offset with height rows on screen.
func Window(total, offset, height int) (start, end int) {
	if total <= 0 || height <= 0 {
		return 0, 0
	}
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end = offset + height
	if end > total {
		end = total
	}
	return offset, end
}

// SentinelVisible reports whether the row just after the last item is on
// screen.
func SentinelVisible(total, offset, height int) bool {
	if height <= 0 {
		return false
	}
	return total < offset+height
}
