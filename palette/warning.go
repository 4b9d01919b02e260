package palette

import "fmt"

// WarningKind classifies a non-fatal condition met during a run
type WarningKind int

const (
	WarnMissingIndexTable WarningKind = iota
	WarnMalformedLength
	WarnUnterminated
	WarnEmptyBlock
	WarnValueOutOfRange
	WarnDuplicateIndexEntry
	WarnDuplicateDefinition
	WarnUnresolved
	WarnUnusedIndexEntry
	WarnInvalidName
	WarnIdentifierCollision
	WarnInconsistent
)

var warningKindNames = [...]string{
	WarnMissingIndexTable:   "missing-index-table",
	WarnMalformedLength:     "malformed-length",
	WarnUnterminated:        "unterminated",
	WarnEmptyBlock:          "empty-block",
	WarnValueOutOfRange:     "value-out-of-range",
	WarnDuplicateIndexEntry: "duplicate-index-entry",
	WarnDuplicateDefinition: "duplicate-definition",
	WarnUnresolved:          "unresolved",
	WarnUnusedIndexEntry:    "unused-index-entry",
	WarnInvalidName:         "invalid-name",
	WarnIdentifierCollision: "identifier-collision",
	WarnInconsistent:        "inconsistent-encoding",
}

func (k WarningKind) String() string {
	if int(k) < len(warningKindNames) {
		return warningKindNames[k]
	}
	return fmt.Sprintf("warning(%d)", int(k))
}

// Warning describes one skipped entry
type Warning struct {
	Kind       WarningKind
	Identifier string // raw identifier when known
	Line       int    // 1-based source line, 0 when not tied to a line
	Message    string
}

func (w Warning) String() string {
	switch {
	case w.Identifier != "" && w.Line > 0:
		return fmt.Sprintf("%s: %s (line %d): %s", w.Kind, w.Identifier, w.Line, w.Message)
	case w.Identifier != "":
		return fmt.Sprintf("%s: %s: %s", w.Kind, w.Identifier, w.Message)
	case w.Line > 0:
		return fmt.Sprintf("%s: line %d: %s", w.Kind, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
