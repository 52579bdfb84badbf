package interaction

import (
	"sync"
	"time"
)

const (
	DefaultHideDelay = 2 * time.Second

	// popupOffset places the panel just below and right of the pointer.
	popupOffset = 10
)

type Popup struct {
	NodeID string
	Text   string
	X, Y   float64
}

// Display is the rendering side of the popup.
type Display interface {
	Show(p Popup)
	Hide()
}

// Popups shows node details on hover and hides them after a delay.
type Popups struct {
	mu      sync.Mutex
	display Display
	sched   *Scheduler
	delay   time.Duration
	enabled bool
	current *Popup
}

func NewPopups(display Display, clock Clock, delay time.Duration) *Popups {
	if delay <= 0 {
		delay = DefaultHideDelay
	}
	return &Popups{
		display: display,
		sched:   NewScheduler(clock),
		delay:   delay,
		enabled: true,
	}
}

// Enter shows the popup for a node, superseding any pending hide.
func (p *Popups) Enter(id, text string, px, py float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	p.sched.CancelAll()
	p.current = &Popup{NodeID: id, Text: text, X: px + popupOffset, Y: py + popupOffset}
	if p.display != nil {
		p.display.Show(*p.current)
	}
}

// Leave schedules the hide. With popups disabled it hides at once.
func (p *Popups) Leave(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		p.hideLocked()
		return
	}
	p.sched.Schedule(id, p.delay, p.expire)
}

func (p *Popups) expire(t *Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.sched.Claim(t) {
		return
	}
	p.hideLocked()
}

// SetEnabled toggles popups. Disabling hides the popup now and cancels any
// pending hide.
func (p *Popups) SetEnabled(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = on
	if on {
		return
	}
	p.sched.CancelAll()
	p.hideLocked()
}

// Close cancels any pending hide and clears the popup, leaving the enabled
// flag as it was.
func (p *Popups) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sched.CancelAll()
	p.hideLocked()
}

func (p *Popups) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Current returns the visible popup.
func (p *Popups) Current() (Popup, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Popup{}, false
	}
	return *p.current, true
}

// HidePending reports whether a delayed hide is scheduled.
func (p *Popups) HidePending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sched.Len() > 0
}

func (p *Popups) hideLocked() {
	if p.current == nil {
		return
	}
	p.current = nil
	if p.display != nil {
		p.display.Hide()
	}
}
