// Package format converts between numbers and the text shown on a display.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrUnparseable is returned when display text does not hold a number.
var ErrUnparseable = errors.New("format: text is not a number")

// A Formatter renders numbers for display and reads them back.
type Formatter interface {
	Format(v float64) string
	Parse(s string) (float64, error)
}

// Options configures a Number formatter.
type Options struct {
	// Locale is a BCP 47 tag such as "en" or "de-CH". Empty means English.
	Locale            string `yaml:"locale"`
	MinFractionDigits int    `yaml:"minFractionDigits"`
	MaxFractionDigits int    `yaml:"maxFractionDigits"`
	// Grouping enables the locale's thousands separator.
	Grouping bool   `yaml:"grouping"`
	Prefix   string `yaml:"prefix"`
	Suffix   string `yaml:"suffix"`
}

// DefaultOptions are the options of Default: two fraction digits, no grouping.
func DefaultOptions() Options {
	return Options{
		Locale:            "en",
		MinFractionDigits: 2,
		MaxFractionDigits: 2,
	}
}

// Number is a locale-aware decimal Formatter.
type Number struct {
	opts    Options
	printer *message.Printer
	decimal string
	group   string
}

// New creates a Number formatter. Negative digit counts are treated as 0 and
// a maximum below the minimum is raised to it.
func New(opts Options) (*Number, error) {
	tag := language.English
	if opts.Locale != "" {
		t, err := language.Parse(opts.Locale)
		if err != nil {
			return nil, fmt.Errorf("format: locale %q: %w", opts.Locale, err)
		}
		tag = t
	}
	if opts.MinFractionDigits < 0 {
		opts.MinFractionDigits = 0
	}
	if opts.MaxFractionDigits < opts.MinFractionDigits {
		opts.MaxFractionDigits = opts.MinFractionDigits
	}

	n := new(Number)
	n.opts = opts
	n.printer = message.NewPrinter(tag)
	n.decimal, n.group = n.symbols()
	return n, nil
}

// Default returns the formatter used when none is supplied.
func Default() *Number {
	n, err := New(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return n
}

// Options returns the effective options.
func (n *Number) Options() Options {
	return n.opts
}

// Precision is the largest difference between a value and the parse of its
// formatted text.
func (n *Number) Precision() float64 {
	return 0.5 * math.Pow10(-n.opts.MaxFractionDigits)
}

// Format renders v with the configured digits, separators and affixes.
func (n *Number) Format(v float64) string {
	return n.opts.Prefix + n.printer.Sprint(n.decimalFormatter(v, n.opts.Grouping)) + n.opts.Suffix
}

func (n *Number) decimalFormatter(v float64, grouping bool) number.Formatter {
	opts := []number.Option{
		number.MinFractionDigits(n.opts.MinFractionDigits),
		number.MaxFractionDigits(n.opts.MaxFractionDigits),
	}
	if !grouping {
		opts = append(opts, number.NoSeparator())
	}
	return number.Decimal(v, opts...)
}

// symbols reads the decimal and grouping symbols off a sample rendering.
func (n *Number) symbols() (decimal, group string) {
	sample := n.printer.Sprint(number.Decimal(1234.5,
		number.MinFractionDigits(1), number.MaxFractionDigits(1)))
	runes := []rune(sample)

	var digits []int
	for i, r := range runes {
		if unicode.IsDigit(r) {
			digits = append(digits, i)
		}
	}
	if len(digits) != 5 {
		return ".", ","
	}
	group = string(runes[digits[0]+1 : digits[1]])
	decimal = string(runes[digits[3]+1 : digits[4]])
	if decimal == "" {
		decimal = "."
	}
	return decimal, group
}

// Parse reads a number from display text. Affixes, whitespace and grouping
// symbols are ignored.
func (n *Number) Parse(s string) (float64, error) {
	text := strings.TrimSpace(s)
	text = strings.TrimSpace(strings.TrimPrefix(text, n.opts.Prefix))
	text = strings.TrimSpace(strings.TrimSuffix(text, n.opts.Suffix))
	if n.group != "" {
		text = strings.ReplaceAll(text, n.group, "")
	}
	text = strings.ReplaceAll(text, n.decimal, ".")
	text = strings.ReplaceAll(text, "−", "-")
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	return v, nil
}

// ParseOr parses s with f, returning fallback for empty or unparseable text.
func ParseOr(f Formatter, s string, fallback float64) float64 {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	v, err := f.Parse(s)
	if err != nil {
		return fallback
	}
	return v
}
