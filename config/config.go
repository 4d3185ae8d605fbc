// Package config reads the countup YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/countup/display"
	"github.com/matt-g-everett/countup/easing"
	"github.com/matt-g-everett/countup/format"
	"gopkg.in/yaml.v2"
)

// Display kinds.
const (
	Terminal = "terminal"
	MQTT     = "mqtt"
)

// Animation holds the defaults for animations.
type Animation struct {
	Duration time.Duration `yaml:"duration"`
	Easing   string        `yaml:"easing"`
	FPS      int           `yaml:"fps"`
}

// Display selects where numbers are shown and how they are coloured.
type Display struct {
	Kind     string                `yaml:"kind"`
	Gradient display.GradientTable `yaml:"gradient"`
	Colours  struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"colours"`
}

// Mqtt holds the broker connection used by the MQTT display.
type Mqtt struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	ClientID string `yaml:"clientID"`
	Topics   struct {
		Display  string `yaml:"display"`
		Commands string `yaml:"commands"`
	} `yaml:"topics"`
}

// Config is the complete configuration.
type Config struct {
	Animation Animation      `yaml:"animation"`
	Format    format.Options `yaml:"format"`
	Display   Display        `yaml:"display"`
	Mqtt      Mqtt           `yaml:"mqtt"`
}

// Default returns the configuration used for anything a file leaves out.
func Default() Config {
	var c Config
	c.Animation.Duration = time.Second
	c.Animation.Easing = easing.EaseInOut.String()
	c.Animation.FPS = 60
	c.Format = format.DefaultOptions()
	c.Display.Kind = Terminal
	c.Mqtt.URL = "tcp://localhost:1883"
	c.Mqtt.ClientID = "countup"
	c.Mqtt.Topics.Display = "countup/display"
	c.Mqtt.Topics.Commands = "countup/set"
	return c
}

// Decode reads YAML from r over the defaults. An empty document gives the
// defaults.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Load reads the YAML file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Animation.Duration < 0 {
		return fmt.Errorf("config: negative duration %v", c.Animation.Duration)
	}
	if _, err := easing.Lookup(c.Animation.Easing); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := format.New(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Display.Kind {
	case Terminal:
	case MQTT:
		if c.Mqtt.URL == "" || c.Mqtt.Topics.Display == "" {
			return errors.New("config: mqtt display needs url and topics.display")
		}
	default:
		return fmt.Errorf("config: unknown display kind %q", c.Display.Kind)
	}
	if (c.Display.Colours.From == "") != (c.Display.Colours.To == "") {
		return errors.New("config: colours needs both from and to")
	}
	if c.Display.Colours.From != "" {
		if _, err := display.NewBlend(c.Display.Colours.From, c.Display.Colours.To); err != nil {
			return fmt.Errorf("config: colours: %w", err)
		}
	}
	return nil
}

// A Tint colours a display by animation progress.
type Tint interface {
	Color(t float64) colorful.Color
}

// Tint returns the configured tint, or nil when none is set. Colours take
// precedence over a gradient table.
func (d Display) Tint() (Tint, error) {
	if d.Colours.From != "" {
		return display.NewBlend(d.Colours.From, d.Colours.To)
	}
	if len(d.Gradient) > 0 {
		return d.Gradient, nil
	}
	return nil, nil
}
