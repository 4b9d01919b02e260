package emit

import (
	"bytes"
	"fmt"

	"github.com/lixenwraith/palettegen/encode"
)

// TupleBuilder accumulates the structured-tuple (DSL) artifact for one run
type TupleBuilder struct {
	Source string

	palettes []encode.Encoded
}

func NewTupleBuilder(source string) *TupleBuilder {
	return &TupleBuilder{Source: source}
}

func (b *TupleBuilder) Add(enc encode.Encoded) {
	b.palettes = append(b.palettes, enc)
}

func (b *TupleBuilder) Len() int {
	return len(b.palettes)
}

func (b *TupleBuilder) Bytes() []byte {
	var buf bytes.Buffer

	buf.WriteString("# WLED Palettes converted to DSL format\n")
	fmt.Fprintf(&buf, "# Auto-generated from %s\n", b.Source)
	fmt.Fprintf(&buf, "# Total palettes: %d\n", len(b.palettes))
	buf.WriteString("\n")

	for i, enc := range b.palettes {
		if i > 0 {
			buf.WriteString("\n")
		}
		writeComment(&buf, enc.Definition.Comment)
		fmt.Fprintf(&buf, "palette %s = [\n", enc.Tuples.Identifier)
		for _, e := range enc.Tuples.Entries {
			marker := ""
			if e.Marker != "" {
				marker = " (" + e.Marker + ")"
			}
			fmt.Fprintf(&buf, "  (%d, %s)    # %s%% rgb(%d,%d,%d)%s\n",
				e.Position, encode.FormatColor(e.Color), e.Percent, e.Stop.R, e.Stop.G, e.Stop.B, marker)
		}
		buf.WriteString("]\n")
	}

	return buf.Bytes()
}
