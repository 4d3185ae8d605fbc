// Package easing maps a normalized time fraction onto animation progress.
package easing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// ErrUnknownCurve is returned when a curve name is not recognised.
var ErrUnknownCurve = errors.New("unknown easing curve")

// A Func maps a time fraction in [0,1] to a progress value. Callers are
// expected to clamp the input; see Clamp.
type Func func(t float64) float64

// Option selects one of the built-in quadratic curves.
type Option int

const (
	// EaseInOut accelerates over the first half and decelerates over the second.
	EaseInOut Option = iota
	// Linear progresses at a constant rate.
	Linear
	// EaseIn starts slow.
	EaseIn
	// EaseOut starts fast.
	EaseOut
)

var optionNames = map[Option]string{
	Linear:    "linear",
	EaseIn:    "ease-in",
	EaseOut:   "ease-out",
	EaseInOut: "ease-in-out",
}

// Func returns the curve for the option. Unknown options fall back to EaseInOut.
func (o Option) Func() Func {
	switch o {
	case Linear:
		return ease.Linear
	case EaseIn:
		return ease.InQuad
	case EaseOut:
		return ease.OutQuad
	default:
		return ease.InOutQuad
	}
}

// Ease applies the option's curve to t.
func (o Option) Ease(t float64) float64 {
	return o.Func()(t)
}

func (o Option) String() string {
	if name, ok := optionNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Option(%d)", int(o))
}

// UnmarshalText lets an Option be read straight from config files and flags.
func (o *Option) UnmarshalText(text []byte) error {
	parsed, err := ParseOption(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (o Option) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ParseOption resolves one of the four built-in names. Matching ignores case
// and separators, so "easeInOut", "ease_in_out" and "EASE-IN-OUT" are all
// accepted.
func ParseOption(name string) (Option, error) {
	key := normalise(name)
	for o, n := range optionNames {
		if normalise(n) == key {
			return o, nil
		}
	}
	return EaseInOut, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
}

// The wider catalogue of named curves. Several of these overshoot [0,1].
var catalogue = map[string]Func{
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-quart":       ease.InQuart,
	"out-quart":      ease.OutQuart,
	"in-out-quart":   ease.InOutQuart,
	"in-quint":       ease.InQuint,
	"out-quint":      ease.OutQuint,
	"in-out-quint":   ease.InOutQuint,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"in-expo":        ease.InExpo,
	"out-expo":       ease.OutExpo,
	"in-out-expo":    ease.InOutExpo,
	"in-circ":        ease.InCirc,
	"out-circ":       ease.OutCirc,
	"in-out-circ":    ease.InOutCirc,
	"in-back":        ease.InBack,
	"out-back":       ease.OutBack,
	"in-out-back":    ease.InOutBack,
	"in-bounce":      ease.InBounce,
	"out-bounce":     ease.OutBounce,
	"in-out-bounce":  ease.InOutBounce,
	"in-elastic":     ease.InElastic,
	"out-elastic":    ease.OutElastic,
	"in-out-elastic": ease.InOutElastic,
}

// Lookup resolves a built-in option name or a catalogue curve name.
func Lookup(name string) (Func, error) {
	if o, err := ParseOption(name); err == nil {
		return o.Func(), nil
	}
	key := normalise(name)
	for n, f := range catalogue {
		if normalise(n) == key {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
}

// Names lists every name accepted by Lookup.
func Names() []string {
	names := make([]string, 0, len(optionNames)+len(catalogue))
	for _, n := range optionNames {
		names = append(names, n)
	}
	for n := range catalogue {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clamp wraps f so that its input is saturated into [0,1].
func Clamp(f Func) Func {
	return func(t float64) float64 {
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		return f(t)
	}
}

func normalise(name string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(name)))
}
