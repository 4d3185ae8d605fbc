// Package display provides text elements that numbers can be animated on: a
// terminal line and a remote MQTT display.
package display

import (
	"encoding/json"

	"github.com/lucasb-eyer/go-colorful"
)

// Frame is the state of a display at one point of an animation.
type Frame struct {
	Text   string
	Colour colorful.Color
	Tinted bool
}

type wireFrame struct {
	Text   string `json:"text"`
	Colour string `json:"colour,omitempty"`
}

// MarshalJSON encodes the frame as {"text": ..., "colour": "#rrggbb"}. The
// colour is left out for untinted frames.
func (f Frame) MarshalJSON() ([]byte, error) {
	w := wireFrame{Text: f.Text}
	if f.Tinted {
		w.Colour = f.Colour.Clamped().Hex()
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a frame produced by MarshalJSON.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var w wireFrame
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	f.Text = w.Text
	f.Tinted = false
	f.Colour = colorful.Color{}
	if w.Colour != "" {
		c, err := colorful.Hex(w.Colour)
		if err != nil {
			return err
		}
		f.Colour = c
		f.Tinted = true
	}
	return nil
}
