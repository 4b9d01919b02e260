package csource

import (
	"fmt"
	"log"
	"strings"

	"github.com/lixenwraith/palettegen/palette"
)

// Scan holds the palette declarations found in one source text
type Scan struct {
	Definitions  []palette.Definition // valid declarations in source order
	Warnings     []palette.Warning    // one per discarded declaration
	Declarations int                  // every declaration matched, valid or not
}

// ParseDefinitions extracts every palette declaration of the dialect
// Invalid declarations are discarded with a warning; scanning continues
func ParseDefinitions(src string, d Dialect) Scan {
	lines := splitLines(src)
	var scan Scan

	for i := 0; i < len(lines); i++ {
		h, ok := d.MatchDeclaration(lines, i)
		if !ok {
			continue
		}
		name := h.Name
		scan.Declarations++

		body, next, closed := collectBody(lines, h, d)
		if !closed {
			scan.Warnings = append(scan.Warnings, palette.Warning{
				Kind:       palette.WarnUnterminated,
				Identifier: name,
				Line:       i + 1,
				Message:    "no closing brace before the next declaration or end of file",
			})
			log.Printf("Discarding %s: unterminated block at line %d", name, i+1)
			i = next - 1
			continue
		}

		def, warning, ok := buildDefinition(name, body, i+1)
		if !ok {
			scan.Warnings = append(scan.Warnings, warning)
			log.Printf("Discarding %s: %s", name, warning.Message)
		} else {
			def.Comment = precedingComment(lines, i)
			scan.Definitions = append(scan.Definitions, def)
		}
		i = next - 1
	}

	log.Printf("Matched %d palette declarations, %d valid", scan.Declarations, len(scan.Definitions))
	return scan
}

// collectBody gathers the comment-free text between the opening and closing brace
// of a declaration. next is the line where scanning resumes; an unterminated block
// stops at the next declaration so that one bad block cannot swallow the rest of the file.
// Block comments may span lines and never contribute values or braces.
func collectBody(lines []string, h Header, d Dialect) (body []string, next int, closed bool) {
	inBlock := false
	for i := h.BraceLine; i < len(lines); i++ {
		segment := lines[i]
		if i == h.BraceLine {
			segment = segment[h.Offset:]
		} else if !inBlock && isHeader(lines, i, d) {
			return body, i, false
		}

		segment, inBlock = stripComments(segment, inBlock)
		segment, closed = cutAtClosingBrace(segment)
		body = append(body, segment)
		if closed {
			return body, i + 1, true
		}
	}
	return body, len(lines), false
}

func isHeader(lines []string, at int, d Dialect) bool {
	if _, ok := d.MatchDeclaration(lines, at); ok {
		return true
	}
	_, ok := d.MatchIndexTable(lines, at)
	return ok
}

func buildDefinition(name string, body []string, line int) (palette.Definition, palette.Warning, bool) {
	values := ExtractValues(body)
	warning := palette.Warning{Identifier: name, Line: line}

	if len(values) == 0 {
		warning.Kind = palette.WarnEmptyBlock
		warning.Message = "declaration holds no numeric values"
		return palette.Definition{}, warning, false
	}
	if len(values)%4 != 0 {
		warning.Kind = palette.WarnMalformedLength
		warning.Message = fmt.Sprintf("%d values is not a multiple of 4", len(values))
		return palette.Definition{}, warning, false
	}

	stops, err := palette.StopsFromValues(values)
	if err != nil {
		warning.Kind = palette.WarnValueOutOfRange
		warning.Message = err.Error()
		return palette.Definition{}, warning, false
	}

	return palette.Definition{
		RawIdentifier: name,
		Stops:         stops,
		Line:          line,
	}, palette.Warning{}, true
}

// precedingComment joins the full-line // comments directly above a declaration
func precedingComment(lines []string, header int) string {
	var parts []string
	for j := header - 1; j >= 0; j-- {
		trimmed := strings.TrimSpace(lines[j])
		if !strings.HasPrefix(trimmed, "//") {
			break
		}
		if text := strings.TrimSpace(strings.TrimPrefix(trimmed, "//")); text != "" {
			parts = append(parts, text)
		}
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, " ")
}
