package display

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Chroma and luminance used by GradientTable.Color.
const (
	DefaultChroma    = 0.6
	DefaultLuminance = 0.7
)

// A Keypoint pins a hue to a position on a gradient.
type Keypoint struct {
	Hue float64 `yaml:"hue"`
	Pos float64 `yaml:"pos"`
}

// GradientTable stores a look-up table of colours interpolated by hue.
// Keypoints must be sorted by Pos.
type GradientTable []Keypoint

// GetColor gets a colour at the specified point on the look-up table.
func (g GradientTable) GetColor(t, c, l float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Hcl(0, 0, l)
	}
	if t <= g[0].Pos {
		return colorful.Hcl(g[0].Hue, c, l)
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			if c2.Pos == c1.Pos {
				return colorful.Hcl(c2.Hue, c, l)
			}
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return colorful.Hcl(h, c, l)
		}
	}

	// Past the last keypoint.
	return colorful.Hcl(g[len(g)-1].Hue, c, l)
}

// Color gets a colour at t using DefaultChroma and DefaultLuminance.
func (g GradientTable) Color(t float64) colorful.Color {
	return g.GetColor(t, DefaultChroma, DefaultLuminance).Clamped()
}

// Blend is a two-colour gradient blended in HCL space.
type Blend struct {
	From colorful.Color
	To   colorful.Color
}

// NewBlend parses two hex colours into a Blend.
func NewBlend(from, to string) (Blend, error) {
	f, err := colorful.Hex(from)
	if err != nil {
		return Blend{}, err
	}
	t, err := colorful.Hex(to)
	if err != nil {
		return Blend{}, err
	}
	return Blend{From: f, To: t}, nil
}

// Color blends From towards To by t.
func (b Blend) Color(t float64) colorful.Color {
	if t <= 0 {
		return b.From
	}
	if t >= 1 {
		return b.To
	}
	return b.From.BlendHcl(b.To, t).Clamped()
}
