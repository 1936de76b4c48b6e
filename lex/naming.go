package lex

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Returns the local name of a reference: everything after the last '#', or the whole string if there is no '#'.
//
// "com.example.foo#bar" -> "bar", "#bar" -> "bar", "com.example.foo" -> "com.example.foo"
func RefTail(ref string) string {
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

var identReplacer = strings.NewReplacer("-", "_", ".", "_")

// Rewrites a property name in to an identifier, replacing each '-' and '.' with '_'.
//
// The second return value reports whether the identifier differs from the original (wire) name, in which
// case the wire name must be attached to the generated field.
func SanitizeIdent(name string) (string, bool) {
	ident := identReplacer.Replace(name)
	return ident, ident != name
}

// Synthesizes the type name for an inline object: the enclosing name followed by the property name with its
// first character (grapheme cluster) upper-cased. ("Profile", "address") -> "ProfileAddress"
func NestedTypeName(parent, prop string) string {
	return parent + upperFirst(prop)
}

func upperFirst(s string) string {
	g := uniseg.NewGraphemes(s)
	if !g.Next() {
		return s
	}
	first := g.Str()
	// a Caser is stateful, so not shared
	return cases.Upper(language.Und).String(first) + s[len(first):]
}
