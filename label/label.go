// Package label animates the number shown by a text element.
package label

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/countup/animator"
	"github.com/matt-g-everett/countup/easing"
	"github.com/matt-g-everett/countup/format"
)

// DefaultDuration is the animation time used when none is given.
const DefaultDuration = time.Second

// Text is an element showing a string, such as a terminal line or a remote
// display.
type Text interface {
	Text() string
	SetText(s string)
}

// A Tinter is a Text that can also be coloured.
type Tinter interface {
	SetTint(c colorful.Color)
}

// A Gradient picks a colour for a progress value in [0,1].
type Gradient interface {
	Color(t float64) colorful.Color
}

var (
	clockMu      sync.Mutex
	defaultClock animator.FrameClock
	// started is the clock DefaultClock created itself, if any.
	started *animator.TickerClock
)

// SetDefaultClock sets the clock used by animations started without WithClock.
func SetDefaultClock(c animator.FrameClock) {
	clockMu.Lock()
	defer clockMu.Unlock()
	defaultClock = c
}

// DefaultClock returns the clock set by SetDefaultClock. If none was set a
// TickerClock at animator.MaxFPS is created on first use and run on its own
// goroutine until StopDefaultClock is called. Frames after the first are
// delivered on that goroutine, so elements animated on the default clock are
// written from it.
func DefaultClock() animator.FrameClock {
	clockMu.Lock()
	defer clockMu.Unlock()
	if defaultClock == nil {
		c := animator.NewTickerClock(0)
		go c.Run(context.Background())
		defaultClock = c
		started = c
	}
	return defaultClock
}

// StopDefaultClock stops the clock started by DefaultClock. Animations on it
// stop receiving frames and the next DefaultClock call starts a new clock. A
// clock set with SetDefaultClock is left to its owner.
func StopDefaultClock() {
	clockMu.Lock()
	defer clockMu.Unlock()
	if started == nil {
		return
	}
	started.Stop()
	if defaultClock == animator.FrameClock(started) {
		defaultClock = nil
	}
	started = nil
}

type settings struct {
	duration   time.Duration
	formatter  format.Formatter
	ease       easing.Func
	clock      animator.FrameClock
	gradient   Gradient
	onComplete func()
}

func newSettings(opts []Option) *settings {
	s := new(settings)
	s.duration = DefaultDuration
	s.ease = easing.EaseInOut.Func()
	for _, opt := range opts {
		opt(s)
	}
	if s.formatter == nil {
		s.formatter = format.Default()
	}
	if s.clock == nil {
		s.clock = DefaultClock()
	}
	return s
}

// An Option configures Animate.
type Option func(*settings)

// WithDuration sets the animation time. A non-positive duration jumps to the
// target on the first frame.
func WithDuration(d time.Duration) Option {
	return func(s *settings) { s.duration = d }
}

// WithFormatter sets the formatter used to read and write the element.
func WithFormatter(f format.Formatter) Option {
	return func(s *settings) { s.formatter = f }
}

// WithEasing selects a built-in curve.
func WithEasing(o easing.Option) Option {
	return func(s *settings) { s.ease = o.Func() }
}

// WithEasingFunc sets a custom curve. nil keeps the current one.
func WithEasingFunc(f easing.Func) Option {
	return func(s *settings) {
		if f != nil {
			s.ease = f
		}
	}
}

// WithClock drives the animation from c instead of the default clock.
func WithClock(c animator.FrameClock) Option {
	return func(s *settings) { s.clock = c }
}

// WithGradient tints elements implementing Tinter by progress.
func WithGradient(g Gradient) Option {
	return func(s *settings) { s.gradient = g }
}

// OnComplete sets a function to call once the target is shown.
func OnComplete(fn func()) Option {
	return func(s *settings) { s.onComplete = fn }
}

// Animate moves the number shown by el to the value to. The start value is
// read from el; empty or unparseable text starts from 0. The first frame is
// written before Animate returns; later frames are written from the clock's
// goroutine.
func Animate(el Text, to float64, opts ...Option) (*animator.Handle, error) {
	s := newSettings(opts)
	return s.start(el, func() (Text, bool) { return el, true }, to, nil)
}

// start runs an animation from the value shown by el. Every frame writes to
// the element returned by resolve; when resolve reports it gone the write is
// skipped and gone is called with the handle.
func (s *settings) start(el Text, resolve func() (Text, bool), to float64, gone func(h *animator.Handle)) (*animator.Handle, error) {
	from := format.ParseOr(s.formatter, el.Text(), 0)
	span := to - from

	// Frames may arrive on the clock goroutine before Start returns.
	var handle atomic.Pointer[animator.Handle]
	write := func(v float64, text string) {
		el, ok := resolve()
		if !ok {
			if h := handle.Load(); h != nil && gone != nil {
				gone(h)
			}
			return
		}
		if s.gradient != nil {
			if t, ok := el.(Tinter); ok {
				progress := 1.0
				if span != 0 {
					progress = (v - from) / span
				}
				t.SetTint(s.gradient.Color(progress))
			}
		}
		el.SetText(text)
	}

	var completed func()
	if s.onComplete != nil {
		completed = func() {
			if _, ok := resolve(); ok {
				s.onComplete()
			}
		}
	}

	h, err := animator.Start(s.clock, animator.Animation{
		From:     from,
		To:       to,
		Duration: s.duration,
		Easing:   s.ease,
		OnUpdate: func(v float64) {
			write(v, s.formatter.Format(v))
		},
		OnComplete: completed,
	})
	if err != nil {
		return nil, err
	}
	handle.Store(h)
	return h, nil
}
