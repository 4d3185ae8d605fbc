package label

import (
	"errors"
	"sync"

	"github.com/matt-g-everett/countup/animator"
)

// ErrDisposed is returned when animating an element that has been disposed.
var ErrDisposed = errors.New("label: element disposed")

// ID identifies an element in a Registry.
type ID uint64

// Overlap decides what happens when an element that is already animating is
// asked to animate again.
type Overlap int

const (
	// Replace cancels the running animation before starting the new one.
	Replace Overlap = iota
	// Race lets both run; whichever writes last in a frame is shown.
	Race
)

type entry struct {
	el      Text
	current *animator.Handle
	// gen counts Animate calls; under Replace only the latest may write.
	gen uint64
}

// Registry owns text elements and hands out IDs for them. Animations started
// through a Registry hold only the ID, so disposing an element stops its
// animations at their next frame without any further writes. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.Mutex
	next    ID
	entries map[ID]*entry
	overlap Overlap
}

// NewRegistry creates an empty Registry using the Replace policy.
func NewRegistry() *Registry {
	r := new(Registry)
	r.entries = make(map[ID]*entry)
	r.overlap = Replace
	return r
}

// SetOverlap sets the policy for animations started after the call.
func (r *Registry) SetOverlap(o Overlap) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlap = o
}

// Add registers el and returns its ID.
func (r *Registry) Add(el Text) ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.entries[r.next] = &entry{el: el}
	return r.next
}

// Dispose forgets the element. Running animations notice on their next frame.
func (r *Registry) Dispose(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Lookup returns the element for id, if it has not been disposed.
func (r *Registry) Lookup(id ID) (Text, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.el, true
}

// Len returns the number of live elements.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// resolve returns the element for an animation of generation gen. Under
// Replace an animation that has been superseded no longer resolves.
func (r *Registry) resolve(id ID, gen uint64, replace bool) (Text, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || (replace && e.gen != gen) {
		return nil, false
	}
	return e.el, true
}

// Animate animates the element with the given id. See the package Animate.
// Under Replace the previous animation is cancelled and any frame it still
// has in flight is not written.
func (r *Registry) Animate(id ID, to float64, opts ...Option) (*animator.Handle, error) {
	s := newSettings(opts)

	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return nil, ErrDisposed
	}
	el := e.el
	replace := r.overlap == Replace
	e.gen++
	gen := e.gen
	var prev *animator.Handle
	if replace {
		prev = e.current
		e.current = nil
	}
	r.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	resolve := func() (Text, bool) { return r.resolve(id, gen, replace) }
	h, err := s.start(el, resolve, to, func(h *animator.Handle) { h.Cancel() })
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	superseded := false
	if e, ok := r.entries[id]; ok {
		if replace && e.gen != gen {
			superseded = true
		} else {
			e.current = h
		}
	}
	r.mu.Unlock()

	if superseded {
		h.Cancel()
	}
	return h, nil
}
