package run

import (
	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/inkwell/core/markup"
)

// Formatting is an opaque run formatting descriptor. The editing core never
// interprets its contents; it only clones, compares, and attaches it.
//
// Formatting has value semantics at the API boundary: every way of obtaining
// or attaching one deep-copies the underlying properties subtree, so no two
// runs ever share a properties node and mutating one owner cannot leak into
// another.
type Formatting struct {
	node *xmlquery.Node
}

// NewFormatting builds a descriptor from a properties element. The element
// is cloned; the caller keeps ownership of the original.
func NewFormatting(props *xmlquery.Node) *Formatting {
	if props == nil {
		return nil
	}
	return &Formatting{node: markup.Clone(props)}
}

// Clone returns an independent copy of the descriptor. Cloning nil is nil.
func (f *Formatting) Clone() *Formatting {
	if f == nil {
		return nil
	}
	return &Formatting{node: markup.Clone(f.node)}
}

// Equal compares two descriptors by canonical serialization. Two absent
// descriptors are equal; absent never equals present.
func (f *Formatting) Equal(other *Formatting) bool {
	if f == nil || other == nil {
		return f == nil && other == nil
	}
	return f.node.OutputXML(true) == other.node.OutputXML(true)
}

// detachedNode returns a fresh copy of the properties element for attaching
// to a run. Never hands out the internal node.
func (f *Formatting) detachedNode() *xmlquery.Node {
	if f == nil {
		return nil
	}
	return markup.Clone(f.node)
}
