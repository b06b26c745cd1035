package scroll

import (
	"sync"
	"time"
)

const DefaultFrame = 16 * time.Millisecond

// Viewport is one scroll or resize observation.
type Viewport struct {
	Sections        []Section `json:"sections"`
	ReferenceOffset float64   `json:"referenceOffset"`
}

// Tracker evaluates ActiveCategory at most once per frame, on the newest viewport only,
// and calls onChange when the result differs from the previous one.
type Tracker struct {
	frame    time.Duration
	onChange func(active string)

	mu      sync.Mutex
	latest  *Viewport
	active  string
	stopped bool

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewTracker(frame time.Duration, onChange func(active string)) *Tracker {
	if frame <= 0 {
		frame = DefaultFrame
	}
	t := &Tracker{
		frame:    frame,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go t.run()
	return t
}

// Notify records v for the next frame. Earlier unprocessed viewports are dropped.
func (t *Tracker) Notify(v Viewport) {
	v.Sections = append([]Section(nil), v.Sections...)
	t.mu.Lock()
	if !t.stopped {
		t.latest = &v
	}
	t.mu.Unlock()
}

func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Stop detaches the tracker and waits for its goroutine. It is safe to call twice.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.stopped {
		t.stopped = true
		close(t.stopCh)
	}
	t.mu.Unlock()
	<-t.doneCh
}

func (t *Tracker) run() {
	defer close(t.doneCh)

	ticker := time.NewTicker(t.frame)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

func (t *Tracker) tick() {
	t.mu.Lock()
	v := t.latest
	t.latest = nil
	t.mu.Unlock()
	if v == nil {
		return
	}

	id, ok := ActiveCategory(v.Sections, v.ReferenceOffset)
	if !ok {
		return
	}

	t.mu.Lock()
	changed := id != t.active
	t.active = id
	t.mu.Unlock()

	if changed && t.onChange != nil {
		t.onChange(id)
	}
}
