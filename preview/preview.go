// Package preview draws converted palettes as terminal gradient bars.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/lixenwraith/palettegen/encode"
	"github.com/lixenwraith/palettegen/palette"
)

const (
	DefaultWidth = 48
	labelWidth   = 24
)

// Options controls swatch rendering
type Options struct {
	Width int  // cells per bar, DefaultWidth when <= 0
	Color bool // false prints stop colors as text
}

// StopColor converts a stop to a colorful.Color
func StopColor(s palette.Stop) colorful.Color {
	return colorful.Color{R: float64(s.R) / 255.0, G: float64(s.G) / 255.0, B: float64(s.B) / 255.0}
}

// Sample returns the gradient color at t in [0,1]
// Positions outside the first and last stop clamp to their colors
func Sample(stops []palette.Stop, t float64) colorful.Color {
	if len(stops) == 0 {
		return colorful.Color{}
	}
	pos := t * 255.0

	if pos <= float64(stops[0].Position) {
		return StopColor(stops[0])
	}
	for i := 1; i < len(stops); i++ {
		lo, hi := stops[i-1], stops[i]
		if pos > float64(hi.Position) {
			continue
		}
		span := float64(hi.Position) - float64(lo.Position)
		if span <= 0 {
			return StopColor(hi)
		}
		frac := (pos - float64(lo.Position)) / span
		return StopColor(lo).BlendRgb(StopColor(hi), frac).Clamped()
	}
	return StopColor(stops[len(stops)-1])
}

// Render writes one labeled bar per palette
func Render(w io.Writer, palettes []encode.Encoded, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	r := lipgloss.NewRenderer(w)
	if opts.Color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	label := r.NewStyle().Width(labelWidth).Bold(true)

	for _, enc := range palettes {
		var line strings.Builder
		line.WriteString(label.Render(truncate(enc.Definition.DisplayName, labelWidth-1)))

		if opts.Color {
			for i := 0; i < width; i++ {
				t := 0.0
				if width > 1 {
					t = float64(i) / float64(width-1)
				}
				c := Sample(enc.Definition.Stops, t)
				line.WriteString(r.NewStyle().Background(lipgloss.Color(c.Hex())).Render(" "))
			}
		} else {
			parts := make([]string, 0, len(enc.Definition.Stops))
			for _, s := range enc.Definition.Stops {
				parts = append(parts, fmt.Sprintf("%d:%s", s.Position, StopColor(s).Hex()))
			}
			line.WriteString(strings.Join(parts, " "))
		}

		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "~"
}
