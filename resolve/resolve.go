package resolve

import (
	"fmt"
	"log"

	"github.com/lixenwraith/palettegen/palette"
)

// RejectReason explains why a definition with an index entry was still not emitted
type RejectReason int

const (
	RejectDuplicate RejectReason = iota // a definition with the same key came first
	RejectEmptyName                     // display name normalizes to nothing
	RejectCollision                     // generated identifier already taken
)

// Rejected is a definition that matched an index entry but cannot be emitted
type Rejected struct {
	Definition palette.Definition
	Reason     RejectReason
	Detail     string
}

// Result is the outcome of joining definitions with the name index
// Every input definition ends up in exactly one of Matched, Unmatched or Rejected
type Result struct {
	Matched   []palette.Definition // named definitions, index order
	Unmatched []palette.Definition // no index entry, source order
	Unused    []string             // index keys without a definition, index order
	Rejected  []Rejected           // source order
}

// Join resolves display names for defs by canonical key
// Output order follows the index, not the source layout
func Join(defs []palette.Definition, index *palette.Index, naming palette.Naming) Result {
	var result Result

	byKey := make(map[string]palette.Definition, len(defs))
	for _, def := range defs {
		key := def.Key()
		if _, seen := byKey[key]; seen {
			result.Rejected = append(result.Rejected, Rejected{
				Definition: def,
				Reason:     RejectDuplicate,
				Detail:     fmt.Sprintf("key %q already declared", key),
			})
			continue
		}
		if _, indexed := index.Lookup(key); !indexed {
			result.Unmatched = append(result.Unmatched, def)
			continue
		}
		byKey[key] = def
	}

	taken := make(map[string]string)
	for _, key := range index.Keys() {
		def, ok := byKey[key]
		if !ok {
			result.Unused = append(result.Unused, key)
			continue
		}

		name, _ := index.Lookup(key)
		def.DisplayName = name

		if naming.Core(name) == "" {
			result.Rejected = append(result.Rejected, Rejected{
				Definition: def,
				Reason:     RejectEmptyName,
				Detail:     fmt.Sprintf("display name %q yields an empty identifier", name),
			})
			continue
		}

		ident := naming.Packed(name)
		if owner, clash := taken[ident]; clash {
			result.Rejected = append(result.Rejected, Rejected{
				Definition: def,
				Reason:     RejectCollision,
				Detail:     fmt.Sprintf("identifier %s already generated for %q", ident, owner),
			})
			continue
		}
		taken[ident] = name

		result.Matched = append(result.Matched, def)
	}

	log.Printf("Resolved %d palettes: %d unmatched, %d unused index entries, %d rejected",
		len(result.Matched), len(result.Unmatched), len(result.Unused), len(result.Rejected))
	return result
}

// Warnings derives one warning per unmatched, unused or rejected entry
func (r Result) Warnings() []palette.Warning {
	var warnings []palette.Warning

	for _, def := range r.Unmatched {
		warnings = append(warnings, palette.Warning{
			Kind:       palette.WarnUnresolved,
			Identifier: def.RawIdentifier,
			Line:       def.Line,
			Message:    "no display name in the index table",
		})
	}

	for _, key := range r.Unused {
		warnings = append(warnings, palette.Warning{
			Kind:       palette.WarnUnusedIndexEntry,
			Identifier: key + palette.SourceSuffix,
			Message:    "indexed but no valid declaration found",
		})
	}

	for _, rej := range r.Rejected {
		kind := palette.WarnDuplicateDefinition
		switch rej.Reason {
		case RejectEmptyName:
			kind = palette.WarnInvalidName
		case RejectCollision:
			kind = palette.WarnIdentifierCollision
		}
		warnings = append(warnings, palette.Warning{
			Kind:       kind,
			Identifier: rej.Definition.RawIdentifier,
			Line:       rej.Definition.Line,
			Message:    rej.Detail,
		})
	}

	return warnings
}
