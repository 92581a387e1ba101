package expr

import "strings"

// Symbol names a variable or the parameter bound by an abstraction.
// The zero value is the empty symbol used by placeholder nodes.
type Symbol string

// Empty is the canonical placeholder symbol.
const Empty Symbol = ""

func (s Symbol) IsEmpty() bool { return s == Empty }

func (s Symbol) String() string { return string(s) }

// Compare orders symbols by their content.
func (s Symbol) Compare(other Symbol) int {
	return strings.Compare(string(s), string(other))
}

// Primed returns s with one more trailing underscore, the spelling used when a
// bound parameter has to be renamed.
func (s Symbol) Primed() Symbol {
	return s + "_"
}
