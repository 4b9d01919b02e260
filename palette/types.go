package palette

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stop is one gradient sample on the 0-255 position axis
type Stop struct {
	Position uint8
	R, G, B  uint8
}

func (s Stop) String() string {
	return fmt.Sprintf("pos=%d rgb(%d,%d,%d)", s.Position, s.R, s.G, s.B)
}

// Definition is one palette declaration lifted from the source table
// DisplayName and Comment are empty when absent
type Definition struct {
	RawIdentifier string
	DisplayName   string
	Stops         []Stop
	Comment       string
	Line          int // 1-based line of the declaration
}

// Key returns the canonical join key of the definition
func (d Definition) Key() string {
	return CanonicalIdentifier(d.RawIdentifier)
}

// Resolved reports whether the definition carries a display name and may be emitted
func (d Definition) Resolved() bool {
	return d.DisplayName != ""
}

// StopsFromValues groups a flat value sequence into stops
// Count must be a multiple of 4 and every value must fit in a byte
func StopsFromValues(values []int) ([]Stop, error) {
	if len(values)%4 != 0 {
		return nil, errors.Errorf("value count %d is not a multiple of 4", len(values))
	}
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, errors.Errorf("value %d at offset %d outside 0-255", v, i)
		}
	}

	stops := make([]Stop, 0, len(values)/4)
	for i := 0; i < len(values); i += 4 {
		stops = append(stops, Stop{
			Position: uint8(values[i]),
			R:        uint8(values[i+1]),
			G:        uint8(values[i+2]),
			B:        uint8(values[i+3]),
		})
	}
	return stops, nil
}
