package emit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lixenwraith/palettegen/encode"
)

// PackedBuilder accumulates the packed-token (Berry) artifact for one run
type PackedBuilder struct {
	Source     string // shown in the header
	ClassName  string // class holding the name lookup map
	ModuleName string // key of the returned module map

	palettes []encode.Encoded
}

// NewPackedBuilder creates a builder with WLED naming
func NewPackedBuilder(source string) *PackedBuilder {
	return &PackedBuilder{
		Source:     source,
		ClassName:  "WLED_Palettes",
		ModuleName: "wled_palettes",
	}
}

// Add appends a palette; artifact order is Add order
func (b *PackedBuilder) Add(enc encode.Encoded) {
	b.palettes = append(b.palettes, enc)
}

func (b *PackedBuilder) Len() int {
	return len(b.palettes)
}

// Bytes renders the artifact
func (b *PackedBuilder) Bytes() []byte {
	var buf bytes.Buffer

	buf.WriteString("# WLED Palettes converted to Berry format\n")
	fmt.Fprintf(&buf, "# Auto-generated from %s\n", b.Source)
	fmt.Fprintf(&buf, "# Total palettes: %d\n", len(b.palettes))
	buf.WriteString("#\n")
	buf.WriteString("# Format: VRGB (Value/Position, Red, Green, Blue) as hex bytes\n")
	buf.WriteString("\n")

	for i, enc := range b.palettes {
		if i > 0 {
			buf.WriteString("\n")
		}
		writeComment(&buf, enc.Definition.Comment)
		fmt.Fprintf(&buf, "var %s = bytes(\n", enc.Packed.Identifier)
		for j, token := range enc.Packed.Tokens {
			fmt.Fprintf(&buf, "  %q  # %s\n", token, enc.Definition.Stops[j])
		}
		buf.WriteString(")\n")
	}

	// Lookup table follows index order, same as the declarations above
	buf.WriteString("\n")
	buf.WriteString("# Palette map for easy access by name\n")
	fmt.Fprintf(&buf, "class %s\n", b.ClassName)
	buf.WriteString("  static map = {\n")
	for i, enc := range b.palettes {
		comma := ","
		if i == len(b.palettes)-1 {
			comma = ""
		}
		fmt.Fprintf(&buf, "    \"%s\": %s%s\n", quoteEscaper.Replace(enc.Definition.DisplayName), enc.Packed.Identifier, comma)
	}
	buf.WriteString("  }\n")
	buf.WriteString("end\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "return {\"%s\": %s}\n", b.ModuleName, b.ClassName)

	return buf.Bytes()
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// writeComment emits a source comment as a single # line
func writeComment(buf *bytes.Buffer, comment string) {
	if comment == "" {
		return
	}
	fmt.Fprintf(buf, "# %s\n", strings.Join(strings.Fields(comment), " "))
}
