package run

import (
	"unicode/utf8"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/inkwell/core/markup"
)

// Atom is a value view over one indivisible content unit inside a run.
// The closed kind set is resolved once through the markup lookup table;
// elements outside the vocabulary are zero-length KindOther atoms and are
// carried through edits untouched.
type Atom struct {
	Node *xmlquery.Node
	Kind markup.Kind
}

// atomOf classifies a run child as an atom. Properties elements are not
// atoms; everything else inside a run is.
func atomOf(n *xmlquery.Node) (Atom, bool) {
	if n == nil || n.Type != xmlquery.ElementNode {
		return Atom{}, false
	}
	kind := markup.KindOf(n)
	if kind == markup.KindProperties {
		return Atom{}, false
	}
	return Atom{Node: n, Kind: kind}, true
}

// Length returns the character length of the atom. Text carries its rune
// count; tabs and breaks count as one character; placeholders (drawings,
// comment references, field markers, unknown elements) are zero-length.
func (a Atom) Length() int {
	switch a.Kind {
	case markup.KindText, markup.KindDeletedText:
		return utf8.RuneCountInString(markup.InnerString(a.Node))
	case markup.KindTab, markup.KindBreak:
		return 1
	default:
		return 0
	}
}

// Text returns the atom's contribution to run text: the string for text
// atoms, "\t" for tabs, "\n" for breaks, empty for placeholders.
func (a Atom) Text() string {
	switch a.Kind {
	case markup.KindText, markup.KindDeletedText:
		return markup.InnerString(a.Node)
	case markup.KindTab:
		return "\t"
	case markup.KindBreak:
		return "\n"
	default:
		return ""
	}
}

// IsText reports whether the atom is a (visible or deleted) text fragment.
func (a Atom) IsText() bool {
	return a.Kind == markup.KindText || a.Kind == markup.KindDeletedText
}
