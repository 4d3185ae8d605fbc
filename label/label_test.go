package label

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/countup/animator"
	"github.com/matt-g-everett/countup/easing"
	"github.com/matt-g-everett/countup/format"
)

var epoch = time.Date(2016, 11, 23, 0, 0, 0, 0, time.UTC)

const frame = time.Second / 60

type element struct {
	text   string
	writes []string
	tints  []colorful.Color
}

func (e *element) Text() string { return e.text }

func (e *element) SetText(s string) {
	e.text = s
	e.writes = append(e.writes, s)
}

type tintedElement struct {
	element
}

func (e *tintedElement) SetTint(c colorful.Color) {
	e.tints = append(e.tints, c)
}

type gradientFunc func(t float64) colorful.Color

func (g gradientFunc) Color(t float64) colorful.Color { return g(t) }

func values(t *testing.T, writes []string) []float64 {
	t.Helper()
	out := make([]float64, len(writes))
	for i, w := range writes {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			t.Fatalf("write %d %q: %v", i, w, err)
		}
		out[i] = v
	}
	return out
}

func TestAnimateToTarget(t *testing.T) {
	clock := animator.NewManualClock(epoch)
	el := &element{text: "0.00"}
	completes := 0
	writesAtCompletion := 0

	h, err := Animate(el, 42.5,
		WithDuration(time.Second),
		WithEasing(easing.Linear),
		WithClock(clock),
		OnComplete(func() {
			completes++
			writesAtCompletion = len(el.writes)
		}))
	if err != nil {
		t.Fatal(err)
	}
	if len(el.writes) != 1 || el.writes[0] != "0.00" {
		t.Fatalf("writes after Animate = %v", el.writes)
	}

	clock.Run(frame, 1000)

	vs := values(t, el.writes)
	for i := 1; i < len(vs); i++ {
		if vs[i] < vs[i-1] {
			t.Fatalf("value fell at write %d: %v -> %v", i, vs[i-1], vs[i])
		}
	}
	if el.text != "42.50" {
		t.Fatalf("final text = %q, want 42.50", el.text)
	}
	if completes != 1 || writesAtCompletion != len(el.writes) {
		t.Fatalf("completes = %d, writes at completion %d of %d", completes, writesAtCompletion, len(el.writes))
	}
	if !h.Completed() {
		t.Fatal("handle not completed")
	}
}

func TestStartValueFallback(t *testing.T) {
	for _, text := range []string{"", "n/a"} {
		clock := animator.NewManualClock(epoch)
		el := &element{text: text}
		if _, err := Animate(el, 10, WithClock(clock)); err != nil {
			t.Fatal(err)
		}
		if el.writes[0] != "0.00" {
			t.Errorf("text %q: first write = %q, want 0.00", text, el.writes[0])
		}
	}
}

func TestStartsFromDisplayedValue(t *testing.T) {
	clock := animator.NewManualClock(epoch)
	el := &element{text: "12.25"}
	if _, err := Animate(el, 2, WithClock(clock), WithEasing(easing.EaseIn)); err != nil {
		t.Fatal(err)
	}
	clock.Run(frame, 1000)
	vs := values(t, el.writes)
	if vs[0] != 12.25 || vs[len(vs)-1] != 2 {
		t.Fatalf("first %v last %v", vs[0], vs[len(vs)-1])
	}
	for i := 1; i < len(vs); i++ {
		if vs[i] > vs[i-1] {
			t.Fatalf("value rose at write %d", i)
		}
	}
}

func TestCustomFormatter(t *testing.T) {
	f, err := format.New(format.Options{Locale: "en", MaxFractionDigits: 0, Grouping: true, Prefix: "$"})
	if err != nil {
		t.Fatal(err)
	}
	clock := animator.NewManualClock(epoch)
	el := &element{text: "$1,000"}
	if _, err := Animate(el, 2500, WithClock(clock), WithFormatter(f)); err != nil {
		t.Fatal(err)
	}
	clock.Run(frame, 1000)
	if el.writes[0] != "$1,000" || el.text != "$2,500" {
		t.Fatalf("first %q final %q", el.writes[0], el.text)
	}
}

func TestZeroDuration(t *testing.T) {
	clock := animator.NewManualClock(epoch)
	el := &element{text: "5.00"}
	if _, err := Animate(el, 9, WithClock(clock), WithDuration(0)); err != nil {
		t.Fatal(err)
	}
	clock.Tick()
	if len(el.writes) != 2 || el.writes[1] != "9.00" {
		t.Fatalf("writes = %v", el.writes)
	}
}

func TestCustomEasingFunc(t *testing.T) {
	clock := animator.NewManualClock(epoch)
	el := &element{}
	step := func(t float64) float64 {
		if t < 0.5 {
			return 0
		}
		return 1
	}
	if _, err := Animate(el, 1, WithClock(clock), WithEasingFunc(step), WithEasingFunc(nil)); err != nil {
		t.Fatal(err)
	}
	clock.Step(400 * time.Millisecond)
	if el.text != "0.00" {
		t.Fatalf("at 0.4s text = %q", el.text)
	}
	clock.Step(200 * time.Millisecond)
	if el.text != "1.00" {
		t.Fatalf("at 0.6s text = %q", el.text)
	}
}

func TestGradientTint(t *testing.T) {
	clock := animator.NewManualClock(epoch)
	el := new(tintedElement)
	var seen []float64
	g := gradientFunc(func(p float64) colorful.Color {
		seen = append(seen, p)
		return colorful.Color{R: p, G: 0, B: 1 - p}
	})
	if _, err := Animate(el, 20, WithClock(clock), WithGradient(g), WithEasing(easing.Linear)); err != nil {
		t.Fatal(err)
	}
	clock.Run(frame, 1000)

	if len(el.tints) != len(el.writes) {
		t.Fatalf("%d tints for %d writes", len(el.tints), len(el.writes))
	}
	if seen[0] != 0 || seen[len(seen)-1] != 1 {
		t.Fatalf("progress from %v to %v", seen[0], seen[len(seen)-1])
	}
	if el.tints[len(el.tints)-1].R != 1 {
		t.Fatalf("final tint %v", el.tints[len(el.tints)-1])
	}

	// Elements without SetTint are left alone.
	plain := new(element)
	if _, err := Animate(plain, 1, WithClock(clock), WithGradient(g)); err != nil {
		t.Fatal(err)
	}
	if len(plain.tints) != 0 {
		t.Fatal("plain element tinted")
	}
}

func TestNoMovement(t *testing.T) {
	clock := animator.NewManualClock(epoch)
	el := &tintedElement{element{text: "3.00"}}
	if _, err := Animate(el, 3, WithClock(clock), WithGradient(gradientFunc(func(p float64) colorful.Color {
		if math.IsNaN(p) {
			t.Fatal("NaN progress")
		}
		return colorful.Color{}
	}))); err != nil {
		t.Fatal(err)
	}
	clock.Run(frame, 1000)
	if el.text != "3.00" {
		t.Fatalf("text = %q", el.text)
	}
}

func TestAnimateRejectsNonFinite(t *testing.T) {
	clock := animator.NewManualClock(epoch)
	el := &element{text: "1.00"}
	if _, err := Animate(el, math.Inf(1), WithClock(clock)); !errors.Is(err, animator.ErrNonFinite) {
		t.Fatalf("err = %v", err)
	}
	if len(el.writes) != 0 {
		t.Fatalf("writes = %v", el.writes)
	}
}

func TestDefaultClock(t *testing.T) {
	clock := animator.NewManualClock(epoch)
	SetDefaultClock(clock)
	defer SetDefaultClock(nil)

	el := new(element)
	if _, err := Animate(el, 1); err != nil {
		t.Fatal(err)
	}
	if clock.Registered() != 1 {
		t.Fatalf("default clock has %d callbacks", clock.Registered())
	}
	clock.Run(frame, 1000)
	if el.text != "1.00" {
		t.Fatalf("text = %q", el.text)
	}
}

func TestStopDefaultClock(t *testing.T) {
	SetDefaultClock(nil)
	StopDefaultClock()

	first, ok := DefaultClock().(*animator.TickerClock)
	if !ok {
		t.Fatalf("default clock = %T", DefaultClock())
	}
	el := &lockedElement{element: element{text: "0.00"}}
	h, err := Animate(el, 3, WithDuration(0))
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("default clock delivered no frames")
	}
	if text, _ := el.snapshot(); text != "3.00" {
		t.Fatalf("text = %q", text)
	}

	StopDefaultClock()
	if DefaultClock() == animator.FrameClock(first) {
		t.Fatal("stopped clock still the default")
	}
	defer StopDefaultClock()

	h, err = Animate(el, 4, WithDuration(0), WithClock(first))
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-h.Done():
		t.Fatal("stopped clock delivered a frame")
	case <-time.After(100 * time.Millisecond):
	}
	h.Cancel()

	// A clock set by the caller is not stopped.
	manual := animator.NewManualClock(epoch)
	SetDefaultClock(manual)
	StopDefaultClock()
	if DefaultClock() != animator.FrameClock(manual) {
		t.Fatal("StopDefaultClock replaced a clock set by the caller")
	}
	SetDefaultClock(nil)
}
