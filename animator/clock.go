package animator

import (
	"context"
	"sync"
	"time"
)

// MaxFPS is the rate a TickerClock runs at when no rate is requested.
const MaxFPS = 120

// A TickFunc is called once per frame with the frame timestamp.
type TickFunc func(now time.Time)

// A Link is a registration with a FrameClock.
type Link interface {
	// Invalidate detaches the callback. It is safe to call more than once
	// and from inside the callback itself.
	Invalidate()
}

// A FrameClock delivers per-frame callbacks. Callbacks registered with one
// clock are invoked serially, never concurrently with each other. Register
// may deliver a first frame before it returns.
type FrameClock interface {
	Now() time.Time
	Register(fn TickFunc) Link
}

type link struct {
	set  *linkSet
	fn   TickFunc
	dead bool
}

func (l *link) Invalidate() {
	l.set.remove(l)
}

// linkSet holds the live callbacks of a clock in registration order.
type linkSet struct {
	mu    sync.Mutex
	links []*link
}

func (s *linkSet) add(fn TickFunc) *link {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &link{set: s, fn: fn}
	s.links = append(s.links, l)
	return l
}

func (s *linkSet) remove(l *link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.dead {
		return
	}
	l.dead = true
	for i, other := range s.links {
		if other == l {
			s.links = append(s.links[:i], s.links[i+1:]...)
			break
		}
	}
}

func (s *linkSet) alive(l *link) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !l.dead
}

func (s *linkSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

// fire calls every link that was registered when the frame began. A link
// invalidated by an earlier callback in the same frame is skipped.
func (s *linkSet) fire(now time.Time) {
	s.mu.Lock()
	frame := make([]*link, len(s.links))
	copy(frame, s.links)
	s.mu.Unlock()

	for _, l := range frame {
		if s.alive(l) {
			l.fn(now)
		}
	}
}

// TickerClock is a FrameClock driven by a time.Ticker.
type TickerClock struct {
	interval time.Duration
	links    linkSet

	stopOnce sync.Once
	stop     chan struct{}
}

// NewTickerClock creates a clock ticking fps times per second. A
// non-positive fps selects MaxFPS.
func NewTickerClock(fps int) *TickerClock {
	if fps <= 0 || fps > MaxFPS {
		fps = MaxFPS
	}
	c := new(TickerClock)
	c.interval = time.Second / time.Duration(fps)
	c.stop = make(chan struct{})
	return c
}

// Interval returns the time between frames.
func (c *TickerClock) Interval() time.Duration {
	return c.interval
}

// Now returns the wall-clock time.
func (c *TickerClock) Now() time.Time {
	return time.Now()
}

// Register attaches fn to the clock. It is called from the goroutine running Run.
func (c *TickerClock) Register(fn TickFunc) Link {
	return c.links.add(fn)
}

// Registered returns the number of attached callbacks.
func (c *TickerClock) Registered() int {
	return c.links.len()
}

// Run delivers frames until ctx is cancelled or Stop is called.
func (c *TickerClock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.links.fire(now)
		}
	}
}

// Stop ends Run. Attached callbacks stay registered but no longer fire.
func (c *TickerClock) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// ManualClock is a FrameClock whose time and frames are driven explicitly.
// It is used by tests and for rendering animations offline.
type ManualClock struct {
	mu    sync.Mutex
	now   time.Time
	links linkSet
}

// NewManualClock creates a ManualClock reading start.
func NewManualClock(start time.Time) *ManualClock {
	c := new(ManualClock)
	c.now = start
	return c
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d without delivering a frame.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t. Moving backwards is allowed.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Register attaches fn to the clock.
func (c *ManualClock) Register(fn TickFunc) Link {
	return c.links.add(fn)
}

// Registered returns the number of attached callbacks.
func (c *ManualClock) Registered() int {
	return c.links.len()
}

// Tick delivers one frame at the current time.
func (c *ManualClock) Tick() {
	c.links.fire(c.Now())
}

// Step advances the clock by d and delivers a frame.
func (c *ManualClock) Step(d time.Duration) {
	c.Advance(d)
	c.Tick()
}

// Run steps the clock by interval until nothing is registered or limit frames
// have been delivered. It returns the number of frames delivered.
func (c *ManualClock) Run(interval time.Duration, limit int) int {
	frames := 0
	for frames < limit && c.Registered() > 0 {
		c.Step(interval)
		frames++
	}
	return frames
}
