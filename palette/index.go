package palette

// Index maps canonical identifiers to display names in declaration order
// Declaration order is the enumeration order of every generated artifact
type Index struct {
	keys  []string
	names map[string]string
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		keys:  []string{},
		names: make(map[string]string),
	}
}

// Add inserts an entry keyed by the canonical form of rawIdentifier
// Returns false when the key is already present; the first entry is kept
func (ix *Index) Add(rawIdentifier, displayName string) bool {
	key := CanonicalIdentifier(rawIdentifier)
	if _, exists := ix.names[key]; exists {
		return false
	}
	ix.keys = append(ix.keys, key)
	ix.names[key] = displayName
	return true
}

// Lookup returns the display name for a canonical key
func (ix *Index) Lookup(key string) (string, bool) {
	name, ok := ix.names[key]
	return name, ok
}

// Keys returns canonical keys in declaration order
func (ix *Index) Keys() []string {
	out := make([]string, len(ix.keys))
	copy(out, ix.keys)
	return out
}

func (ix *Index) Len() int {
	return len(ix.keys)
}
