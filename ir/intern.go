package ir

// Symbol is an interned string
type Symbol uint32

// Interner deduplicates the strings used by name-bearing nodes.  The empty
// string is always interned as the zero symbol.
type Interner struct {
	index map[string]Symbol
	strs  []string
}

// NewInterner creates a new interner
func NewInterner() *Interner {
	return &Interner{
		index: map[string]Symbol{"": 0},
		strs:  []string{""},
	}
}

// Intern returns the symbol for `s`, adding it if it has not been seen
func (in *Interner) Intern(s string) Symbol {
	if sym, ok := in.index[s]; ok {
		return sym
	}

	sym := Symbol(len(in.strs))
	in.index[s] = sym
	in.strs = append(in.strs, s)
	return sym
}

// Lookup returns the string for a symbol.  Unknown symbols yield the empty
// string.
func (in *Interner) Lookup(sym Symbol) string {
	if int(sym) < len(in.strs) {
		return in.strs[sym]
	}

	return ""
}

// Len returns the number of distinct interned strings (including the empty
// string)
func (in *Interner) Len() int {
	return len(in.strs)
}
