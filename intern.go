package mcc

// Interner canonicalizes identifier spellings so that equality of two
// identifiers reduces to equality of their handles. One interner lives
// in each Context and is additive for the lifetime of that translation
// unit: entries are
// never reclaimed, matching the original compiler's intern() (a
// linked list of IDENT nodes, scanned linearly on every lookup;
// original_source/scanner.c).
type Interner struct {
	strings []string
	ids     map[string]int
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]int)}
}

// Intern returns the canonical handle for s, allocating a new one if s
// has not been seen before.
func (in *Interner) Intern(s string) int {
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := len(in.strings)
	in.strings = append(in.strings, s)
	in.ids[s] = id
	return id
}

// String returns the spelling behind a handle.
func (in *Interner) String(id int) string {
	return in.strings[id]
}

// Len reports how many distinct spellings have been interned.
func (in *Interner) Len() int {
	return len(in.strings)
}
