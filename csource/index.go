package csource

import (
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/lixenwraith/palettegen/palette"
)

// ParseIndex locates the index table and reads `name_gp, //NN-MM Display Name` entries
// A missing table yields an empty index and a warning, never an error
func ParseIndex(src string, d Dialect) (*palette.Index, []palette.Warning) {
	lines := splitLines(src)

	for i := range lines {
		h, ok := d.MatchIndexTable(lines, i)
		if !ok {
			continue
		}
		index, warnings := parseIndexBody(lines, h)
		log.Printf("Index table %s at line %d: %d entries", h.Name, i+1, index.Len())
		return index, warnings
	}

	name := d.IndexTable
	if name == "" {
		name = "pointer table"
	}
	log.Printf("Index table %s not found", name)
	return palette.NewIndex(), []palette.Warning{{
		Kind:    palette.WarnMissingIndexTable,
		Message: fmt.Sprintf("index table %s not found, no palette can be named", name),
	}}
}

func parseIndexBody(lines []string, h Header) (*palette.Index, []palette.Warning) {
	index := palette.NewIndex()
	var warnings []palette.Warning

	for i := h.BraceLine; i < len(lines); i++ {
		segment := lines[i]
		if i == h.BraceLine {
			segment = segment[h.Offset:]
		}

		segment, closed := cutAtClosingBrace(segment)
		if w, ok := parseIndexEntry(index, segment, i+1); !ok {
			warnings = append(warnings, w)
		}
		if closed {
			return index, warnings
		}
	}

	warnings = append(warnings, palette.Warning{
		Kind:       palette.WarnUnterminated,
		Identifier: h.Name,
		Line:       h.Line + 1,
		Message:    "index table has no closing brace; entries read up to end of file",
	})
	return index, warnings
}

// parseIndexEntry adds one entry line to the index
// Blank and comment-only lines are accepted silently
func parseIndexEntry(index *palette.Index, segment string, line int) (palette.Warning, bool) {
	trimmed := strings.TrimSpace(segment)
	if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") {
		return palette.Warning{}, true
	}

	tokens := Tokenize(trimmed)
	if len(tokens) == 0 || tokens[0].Type != TokenIdent {
		return palette.Warning{
			Kind:    palette.WarnInvalidName,
			Line:    line,
			Message: fmt.Sprintf("unrecognized index entry %q", trimmed),
		}, false
	}
	ident := tokens[0].Literal

	// Trailing comma is optional: the last entry has none
	rest := tokens[1:]
	if len(rest) > 0 && rest[0].Type == TokenComma {
		rest = rest[1:]
	}
	if len(rest) == 0 || rest[0].Type != TokenComment {
		return palette.Warning{
			Kind:       palette.WarnInvalidName,
			Identifier: ident,
			Line:       line,
			Message:    "index entry has no display name comment",
		}, false
	}

	name := displayName(rest[0].Literal)
	if name == "" {
		return palette.Warning{
			Kind:       palette.WarnInvalidName,
			Identifier: ident,
			Line:       line,
			Message:    fmt.Sprintf("comment %q carries no display name", rest[0].Literal),
		}, false
	}

	if !index.Add(ident, name) {
		return palette.Warning{
			Kind:       palette.WarnDuplicateIndexEntry,
			Identifier: ident,
			Line:       line,
			Message:    fmt.Sprintf("already indexed; %q ignored", name),
		}, false
	}
	return palette.Warning{}, true
}

// displayName drops the leading `NN-MM` field of an index comment
func displayName(comment string) string {
	comment = strings.TrimSpace(comment)
	sep := strings.IndexFunc(comment, unicode.IsSpace)
	if sep < 0 {
		return ""
	}
	return strings.TrimSpace(comment[sep:])
}

// cutAtClosingBrace truncates a segment at the first } outside a comment
func cutAtClosingBrace(segment string) (string, bool) {
	for _, tok := range Tokenize(segment) {
		if tok.Type == TokenRBrace {
			return segment[:tok.Offset], true
		}
	}
	return segment, false
}

func splitLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
