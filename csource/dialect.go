package csource

import "strings"

// Dialect describes the narrow declaration shapes recognized in the source table
type Dialect struct {
	// ElementTypes lists accepted element type spellings, multi-word types space separated
	ElementTypes []string
	// StorageClass is the marker expected after the array brackets; empty accepts none
	StorageClass string
	// IndexTable names the pointer table carrying display names; empty accepts the first one
	IndexTable string
}

// DefaultDialect matches WLED's wled_palettes.h
func DefaultDialect() Dialect {
	return Dialect{
		ElementTypes: []string{"uint8_t", "byte", "uint8", "unsigned char"},
		StorageClass: "PROGMEM",
		IndexTable:   "gGradientPalettes",
	}
}

// matchType matches one of the element types at tokens[i:]
// Returns the index of the first token after the type
func (d Dialect) matchType(tokens []Token, i int) (int, bool) {
	for _, spelling := range d.ElementTypes {
		words := strings.Fields(spelling)
		if len(words) == 0 || i+len(words) > len(tokens) {
			continue
		}
		ok := true
		for j, w := range words {
			if !tokens[i+j].Is(w) {
				ok = false
				break
			}
		}
		if ok {
			return i + len(words), true
		}
	}
	return i, false
}

// matchArrayTail matches `<name> [ ] <storage>` at tokens[i:]
// Returns the name and the index of the first token after the storage class
func (d Dialect) matchArrayTail(tokens []Token, i int) (string, int, bool) {
	if i >= len(tokens) || tokens[i].Type != TokenIdent {
		return "", 0, false
	}
	name := tokens[i].Literal
	i++

	if i+1 >= len(tokens) || tokens[i].Type != TokenLBracket || tokens[i+1].Type != TokenRBracket {
		return "", 0, false
	}
	i += 2

	if d.StorageClass != "" {
		if i >= len(tokens) || !tokens[i].Is(d.StorageClass) {
			return "", 0, false
		}
		i++
	}
	return name, i, true
}

// openingBrace matches `= {` from tokens[i] of lines[at] onward
// The header may break before `=` or before `{`; blank and comment-only lines in
// between are skipped. Returns the line holding the brace and the offset just past it.
func openingBrace(lines []string, at int, tokens []Token, i int) (int, int, bool) {
	want := TokenEqual
	for {
		for ; i < len(tokens); i++ {
			if tokens[i].Type != want {
				return 0, 0, false
			}
			if want == TokenLBrace {
				return at, tokens[i].Offset + 1, true
			}
			want = TokenLBrace
		}

		for at++; at < len(lines); at++ {
			if tokens = Code(lines[at]); len(tokens) > 0 {
				break
			}
		}
		if at >= len(lines) {
			return 0, 0, false
		}
		i = 0
	}
}

// skipQualifiers moves past a leading `static` and the mandatory `const`
func skipQualifiers(tokens []Token) (int, bool) {
	i := 0
	if i < len(tokens) && tokens[i].Is("static") {
		i++
	}
	if i >= len(tokens) || !tokens[i].Is("const") {
		return 0, false
	}
	return i + 1, true
}

// Header locates a recognized declaration
type Header struct {
	Name      string
	Line      int // index of the line holding the name
	BraceLine int // index of the line holding the opening brace
	Offset    int // byte offset just past the opening brace on BraceLine
}

// MatchDeclaration recognizes `const <elemtype> <name>[] <storage> = {` starting at lines[at]
func (d Dialect) MatchDeclaration(lines []string, at int) (Header, bool) {
	tokens := Code(lines[at])
	i, ok := skipQualifiers(tokens)
	if !ok {
		return Header{}, false
	}
	if i, ok = d.matchType(tokens, i); !ok {
		return Header{}, false
	}
	return d.matchHeader(lines, at, tokens, i)
}

// MatchIndexTable recognizes `const <elemtype>* const <table>[] <storage> = {` starting at lines[at]
func (d Dialect) MatchIndexTable(lines []string, at int) (Header, bool) {
	tokens := Code(lines[at])
	i, ok := skipQualifiers(tokens)
	if !ok {
		return Header{}, false
	}
	if i, ok = d.matchType(tokens, i); !ok {
		return Header{}, false
	}
	if i+1 >= len(tokens) || tokens[i].Type != TokenStar || !tokens[i+1].Is("const") {
		return Header{}, false
	}
	h, ok := d.matchHeader(lines, at, tokens, i+2)
	if !ok || (d.IndexTable != "" && h.Name != d.IndexTable) {
		return Header{}, false
	}
	return h, true
}

func (d Dialect) matchHeader(lines []string, at int, tokens []Token, i int) (Header, bool) {
	name, i, ok := d.matchArrayTail(tokens, i)
	if !ok {
		return Header{}, false
	}
	braceLine, offset, ok := openingBrace(lines, at, tokens, i)
	if !ok {
		return Header{}, false
	}
	return Header{Name: name, Line: at, BraceLine: braceLine, Offset: offset}, true
}
