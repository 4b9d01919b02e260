package palette

import "strings"

const (
	// SourceSuffix marks gradient palette arrays in the source table
	SourceSuffix = "_gp"

	DefaultPrefix = "PALETTE_"
	// DefaultSuffix keeps generated names clear of reserved words in the consuming language
	DefaultSuffix = "_"
)

// CanonicalIdentifier strips one trailing SourceSuffix
func CanonicalIdentifier(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), SourceSuffix)
}

// Normalize uppercases name, collapses runs of characters outside [A-Z0-9] into a
// single underscore and trims underscores at both ends. Normalize is idempotent.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// Naming derives generated identifiers from display names
type Naming struct {
	Prefix string
	Suffix string
}

// DefaultNaming produces PALETTE_<NAME>_ identifiers
func DefaultNaming() Naming {
	return Naming{Prefix: DefaultPrefix, Suffix: DefaultSuffix}
}

// Core returns Normalize(displayName). A name that already is a generated packed
// identifier yields the core it was built from, which makes Packed a fixed point on
// its own output without touching names that merely start with the prefix word.
func (n Naming) Core(displayName string) string {
	if core, ok := n.unpack(displayName); ok {
		return core
	}
	return Normalize(displayName)
}

// unpack reports whether s has the exact form Prefix + core + Suffix with a normalized core
func (n Naming) unpack(s string) (string, bool) {
	if n.Prefix == "" && n.Suffix == "" {
		return "", false
	}
	if len(s) <= len(n.Prefix)+len(n.Suffix) || !strings.HasPrefix(s, n.Prefix) || !strings.HasSuffix(s, n.Suffix) {
		return "", false
	}
	core := s[len(n.Prefix) : len(s)-len(n.Suffix)]
	if Normalize(core) != core {
		return "", false
	}
	return core, true
}

// Packed returns the identifier of the packed-token declaration
func (n Naming) Packed(displayName string) string {
	return n.Prefix + n.Core(displayName) + n.Suffix
}

// Tuple returns the identifier of the tuple declaration
func (n Naming) Tuple(displayName string) string {
	return n.Core(displayName)
}
