// Package encode turns a resolved palette into its two textual encodings.
//
// The packed-token encoding writes each stop as 8 hex digits, VVRRGGBB, where VV is
// the position byte. The tuple encoding writes each stop as (position, 0xRRGGBB).
// Both are built from the same stop slice in one pass, and both can be decoded
// back to stops so their agreement can be checked before anything is written.
package encode

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/palettegen/palette"
)

// Packed is the packed-token encoding of one palette
type Packed struct {
	Identifier string   // PALETTE_JUL_
	Tokens     []string // "00E2060C", ...
}

// TupleEntry is one (position, color) pair plus its annotation
type TupleEntry struct {
	Position uint8
	Color    int32        // 0xRRGGBB
	Percent  string       // position as percent of 255, one decimal
	Marker   string       // "start", "end" or empty
	Stop     palette.Stop // source stop, annotation only
}

// Tuples is the structured tuple encoding of one palette
type Tuples struct {
	Identifier string // JUL
	Entries    []TupleEntry
}

// Encoded pairs a resolved definition with both encodings
type Encoded struct {
	Definition palette.Definition
	Packed     Packed
	Tuples     Tuples
}

// Encode builds both encodings from def.Stops
func Encode(def palette.Definition, naming palette.Naming) Encoded {
	enc := Encoded{
		Definition: def,
		Packed: Packed{
			Identifier: naming.Packed(def.DisplayName),
			Tokens:     make([]string, 0, len(def.Stops)),
		},
		Tuples: Tuples{
			Identifier: naming.Tuple(def.DisplayName),
			Entries:    make([]TupleEntry, 0, len(def.Stops)),
		},
	}

	last := len(def.Stops) - 1
	for i, stop := range def.Stops {
		enc.Packed.Tokens = append(enc.Packed.Tokens, PackToken(stop))

		marker := ""
		switch {
		case i == 0:
			marker = "start"
		case i == last:
			marker = "end"
		}
		enc.Tuples.Entries = append(enc.Tuples.Entries, TupleEntry{
			Position: stop.Position,
			Color:    ColorHex(stop),
			Percent:  Percent(stop.Position),
			Marker:   marker,
			Stop:     stop,
		})
	}

	return enc
}

// PackToken encodes a stop as VVRRGGBB
func PackToken(s palette.Stop) string {
	return fmt.Sprintf("%02X%02X%02X%02X", s.Position, s.R, s.G, s.B)
}

// DecodeToken reverses PackToken
func DecodeToken(token string) (palette.Stop, error) {
	if len(token) != 8 {
		return palette.Stop{}, errors.Errorf("token %q: want 8 hex digits, got %d", token, len(token))
	}
	b, err := hex.DecodeString(token)
	if err != nil {
		return palette.Stop{}, errors.Wrapf(err, "token %q", token)
	}
	return palette.Stop{Position: b[0], R: b[1], G: b[2], B: b[3]}, nil
}

// ColorHex returns r*65536 + g*256 + b
func ColorHex(s palette.Stop) int32 {
	return tcell.NewRGBColor(int32(s.R), int32(s.G), int32(s.B)).Hex()
}

// DecodeTuple recovers the stop from the position and color value alone
func DecodeTuple(e TupleEntry) palette.Stop {
	r, g, b := tcell.NewHexColor(e.Color).RGB()
	return palette.Stop{Position: e.Position, R: uint8(r), G: uint8(g), B: uint8(b)}
}

// Percent formats position/255*100 with one decimal
func Percent(position uint8) string {
	return fmt.Sprintf("%.1f", float64(position)/255.0*100.0)
}

// FormatColor renders a tuple color as 0xRRGGBB
func FormatColor(c int32) string {
	return fmt.Sprintf("0x%06X", c)
}

// Verify decodes both encodings and checks them against the source stops
func Verify(enc Encoded) error {
	stops := enc.Definition.Stops
	if len(enc.Packed.Tokens) != len(stops) || len(enc.Tuples.Entries) != len(stops) {
		return errors.Errorf("%s: stop count mismatch: source %d, packed %d, tuples %d",
			enc.Packed.Identifier, len(stops), len(enc.Packed.Tokens), len(enc.Tuples.Entries))
	}

	var mismatches []string
	for i, want := range stops {
		packed, err := DecodeToken(enc.Packed.Tokens[i])
		if err != nil {
			return errors.Wrapf(err, "%s stop %d", enc.Packed.Identifier, i)
		}
		tuple := DecodeTuple(enc.Tuples.Entries[i])
		if packed != want || tuple != want {
			mismatches = append(mismatches, fmt.Sprintf("stop %d: source %v, packed %v, tuple %v", i, want, packed, tuple))
		}
	}
	if len(mismatches) > 0 {
		return errors.Errorf("%s: %s", enc.Packed.Identifier, strings.Join(mismatches, "; "))
	}
	return nil
}
