package csource

import (
	"math"
	"strings"
)

// Data rows are reduced to numbers in three stages, in this order:
//   StripComment -> StripPunctuation -> DigitRuns
// Comments go first because they carry digit groups of their own
// ("//gc from 47, 61,126") that must never reach the value stream.

// StripComment removes a trailing // comment and any same-line /* */ comments
// An unclosed /* cuts the line at the marker
func StripComment(line string) string {
	code, _ := stripComments(line, false)
	return code
}

// stripComments removes comments from line, which starts inside a block comment when
// inBlock is set. It reports whether the line ends inside an unclosed block comment.
func stripComments(line string, inBlock bool) (string, bool) {
	var b strings.Builder
	i := 0
	if inBlock {
		end := strings.Index(line, "*/")
		if end < 0 {
			return "", true
		}
		b.WriteByte(' ')
		i = end + 2
	}

	for ; i < len(line); i++ {
		if line[i] == '/' && i+1 < len(line) {
			switch line[i+1] {
			case '/':
				return b.String(), false
			case '*':
				end := strings.Index(line[i+2:], "*/")
				if end < 0 {
					return b.String(), true
				}
				// Keep tokens on either side of the comment apart
				b.WriteByte(' ')
				i += 2 + end + 1
				continue
			}
		}
		b.WriteByte(line[i])
	}
	return b.String(), false
}

// StripPunctuation replaces braces and statement terminators with spaces
func StripPunctuation(line string) string {
	return punctuationReplacer.Replace(line)
}

var punctuationReplacer = strings.NewReplacer("{", " ", "}", " ", ";", " ")

// DigitRuns returns every maximal run of decimal digits as an integer, left to right
// Runs too large for an int saturate at math.MaxInt
func DigitRuns(line string) []int {
	var values []int
	inRun := false
	value := 0
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if isDigit(ch) {
			d := int(ch - '0')
			if !inRun {
				inRun = true
				value = 0
			}
			if value > (math.MaxInt-d)/10 {
				value = math.MaxInt
			} else {
				value = value*10 + d
			}
			continue
		}
		if inRun {
			values = append(values, value)
			inRun = false
		}
	}
	if inRun {
		values = append(values, value)
	}
	return values
}

// ExtractValues runs all stages over each line and concatenates the results in source order
// A block comment opened on one line hides the following lines up to its closing marker
func ExtractValues(lines []string) []int {
	var values []int
	inBlock := false
	for _, line := range lines {
		var code string
		code, inBlock = stripComments(line, inBlock)
		values = append(values, DigitRuns(StripPunctuation(code))...)
	}
	return values
}
