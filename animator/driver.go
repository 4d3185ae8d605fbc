// Package animator drives a value from a start to a target over a fixed
// duration, one update per frame of a FrameClock.
package animator

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/matt-g-everett/countup/easing"
)

var (
	// ErrNoClock is returned by Start when no clock is supplied.
	ErrNoClock = errors.New("animator: no frame clock")
	// ErrNoUpdate is returned by Start when OnUpdate is nil.
	ErrNoUpdate = errors.New("animator: no update callback")
	// ErrNonFinite is returned by Start when From or To is NaN or infinite.
	ErrNonFinite = errors.New("animator: start and target must be finite")
)

// An Animation describes one run of the driver.
type Animation struct {
	From     float64
	To       float64
	Duration time.Duration

	// Easing shapes progress over time. nil selects ease-in-out.
	Easing easing.Func

	// OnUpdate receives the interpolated value every frame. The first call
	// is made from Start with From; the last call receives exactly To.
	OnUpdate func(value float64)

	// OnComplete, if set, is called once after the final update. It is not
	// called for a cancelled animation.
	OnComplete func()
}

type state int

const (
	running state = iota
	completed
	cancelled
)

// A Handle controls an animation started by Start.
type Handle struct {
	anim Animation
	ease easing.Func

	mu          sync.Mutex
	link        Link
	state       state
	dispatching bool
	elapsed     time.Duration
	lastSample  time.Time
	done        chan struct{}
}

// Start validates a, calls a.OnUpdate(a.From) synchronously and attaches the
// animation to clock. Frames are delivered until the elapsed time exceeds
// a.Duration; a non-positive duration completes on the first frame.
func Start(clock FrameClock, a Animation) (*Handle, error) {
	if clock == nil {
		return nil, ErrNoClock
	}
	if a.OnUpdate == nil {
		return nil, ErrNoUpdate
	}
	if !finite(a.From) || !finite(a.To) {
		return nil, ErrNonFinite
	}

	h := new(Handle)
	h.anim = a
	h.ease = a.Easing
	if h.ease == nil {
		h.ease = easing.EaseInOut.Func()
	}
	h.done = make(chan struct{})

	a.OnUpdate(a.From)

	h.lastSample = clock.Now()
	// Register may deliver a first frame before it returns.
	link := clock.Register(h.tick)

	h.mu.Lock()
	h.link = link
	stopped := h.state != running
	h.mu.Unlock()
	if stopped {
		link.Invalidate()
	}

	return h, nil
}

func (h *Handle) tick(now time.Time) {
	h.mu.Lock()
	if h.state != running {
		h.mu.Unlock()
		return
	}

	if delta := now.Sub(h.lastSample); delta > 0 {
		h.elapsed += delta
	}
	h.lastSample = now

	if h.anim.Duration <= 0 || h.elapsed > h.anim.Duration {
		h.state = completed
		h.mu.Unlock()
		h.finish()
		return
	}

	fraction := float64(h.elapsed) / float64(h.anim.Duration)
	h.dispatching = true
	h.mu.Unlock()

	h.anim.OnUpdate(h.anim.From + (h.anim.To-h.anim.From)*h.ease(fraction))

	h.mu.Lock()
	h.dispatching = false
	closeDone := h.state == cancelled
	h.mu.Unlock()
	if closeDone {
		close(h.done)
	}
}

func (h *Handle) finish() {
	h.anim.OnUpdate(h.anim.To)

	h.mu.Lock()
	link := h.link
	h.mu.Unlock()
	if link != nil {
		link.Invalidate()
	}

	if h.anim.OnComplete != nil {
		h.anim.OnComplete()
	}
	close(h.done)
}

// Cancel detaches the animation without calling OnComplete. It never blocks
// and has no effect once the animation has completed. If a frame is being
// delivered at the time, Done is closed when that update returns, so no
// callback runs after Done is closed.
func (h *Handle) Cancel() {
	h.mu.Lock()
	if h.state != running {
		h.mu.Unlock()
		return
	}
	h.state = cancelled
	link := h.link
	inFlight := h.dispatching
	h.mu.Unlock()

	if link != nil {
		link.Invalidate()
	}
	if !inFlight {
		close(h.done)
	}
}

// Done is closed when the animation completes or is cancelled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Active reports whether the animation is still receiving frames.
func (h *Handle) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == running
}

// Completed reports whether the animation ran to its target.
func (h *Handle) Completed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == completed
}

// Elapsed returns the animation time accumulated so far.
func (h *Handle) Elapsed() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.elapsed
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
