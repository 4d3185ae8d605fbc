package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matt-g-everett/countup/display"
)

const sample = `
animation:
  duration: 1.5s
  easing: linear
  fps: 30
format:
  locale: de
  minFractionDigits: 1
  maxFractionDigits: 3
  grouping: true
  suffix: " €"
display:
  kind: mqtt
  gradient:
    - {hue: 0, pos: 0}
    - {hue: 120, pos: 1}
mqtt:
  url: tcp://broker:1883
  username: tree
  password: secret
  topics:
    display: home/scoreboard
    commands: home/scoreboard/set
`

func TestDecode(t *testing.T) {
	c, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if c.Animation.Duration != 1500*time.Millisecond || c.Animation.Easing != "linear" || c.Animation.FPS != 30 {
		t.Errorf("animation = %+v", c.Animation)
	}
	if c.Format.Locale != "de" || c.Format.MaxFractionDigits != 3 || !c.Format.Grouping || c.Format.Suffix != " €" {
		t.Errorf("format = %+v", c.Format)
	}
	if c.Display.Kind != MQTT || len(c.Display.Gradient) != 2 || c.Display.Gradient[1].Hue != 120 {
		t.Errorf("display = %+v", c.Display)
	}
	if c.Mqtt.URL != "tcp://broker:1883" || c.Mqtt.Topics.Commands != "home/scoreboard/set" {
		t.Errorf("mqtt = %+v", c.Mqtt)
	}
	// left out of the file
	if c.Mqtt.ClientID != "countup" {
		t.Errorf("clientID = %q", c.Mqtt.ClientID)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}

	tint, err := c.Display.Tint()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tint.(display.GradientTable); !ok {
		t.Fatalf("tint = %T", tint)
	}
}

func TestDecodeEmpty(t *testing.T) {
	c, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if c.Animation.Duration != time.Second || c.Display.Kind != Terminal || c.Format.MinFractionDigits != 2 {
		t.Fatalf("defaults = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if tint, err := c.Display.Tint(); err != nil || tint != nil {
		t.Fatalf("tint = %v, %v", tint, err)
	}
}

func TestDecodeBadYAML(t *testing.T) {
	if _, err := Decode(strings.NewReader("animation: [")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("animation:\n  easing: ease-out\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Animation.Easing != "ease-out" {
		t.Fatalf("easing = %q", c.Animation.Easing)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative duration", func(c *Config) { c.Animation.Duration = -time.Second }},
		{"unknown easing", func(c *Config) { c.Animation.Easing = "wobble" }},
		{"bad locale", func(c *Config) { c.Format.Locale = "!!" }},
		{"unknown display", func(c *Config) { c.Display.Kind = "hologram" }},
		{"mqtt without topic", func(c *Config) { c.Display.Kind = MQTT; c.Mqtt.Topics.Display = "" }},
		{"half colours", func(c *Config) { c.Display.Colours.From = "#ff0000" }},
		{"bad colours", func(c *Config) { c.Display.Colours.From = "red"; c.Display.Colours.To = "blue" }},
	}
	for _, tt := range tests {
		c := Default()
		tt.mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestColoursTint(t *testing.T) {
	c := Default()
	c.Display.Colours.From = "#000000"
	c.Display.Colours.To = "#ffffff"
	c.Display.Gradient = display.GradientTable{{Hue: 0, Pos: 0}}
	tint, err := c.Display.Tint()
	if err != nil {
		t.Fatal(err)
	}
	if got := tint.Color(1).Hex(); got != "#ffffff" {
		t.Fatalf("tint(1) = %s", got)
	}
}
