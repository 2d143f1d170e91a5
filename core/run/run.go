// Package run implements the formatted run layer of the editing core: the
// atom tagged union, the opaque formatting descriptor, and the run splitter.
//
// A run is a maximal grouping of content atoms sharing one formatting
// descriptor. Offsets handed to this package are document offsets; each Run
// carries the start offset assigned to it by the locate walk.
package run

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/inkwell/core/errors"
	"github.com/FocuswithJustin/inkwell/core/markup"
)

// Run wraps a run element together with its start offset in the containing
// paragraph's character space.
type Run struct {
	node  *xmlquery.Node
	start int
}

// Wrap makes a Run view over a run element with start offset zero.
func Wrap(n *xmlquery.Node) (*Run, error) {
	return WrapAt(n, 0)
}

// WrapAt makes a Run view over a run element at the given start offset.
func WrapAt(n *xmlquery.Node, start int) (*Run, error) {
	if markup.KindOf(n) != markup.KindRun {
		return nil, errors.NewArgument("node", "not a run element")
	}
	return &Run{node: n, start: start}, nil
}

// Node returns the underlying run element.
func (r *Run) Node() *xmlquery.Node {
	return r.node
}

// StartOffset returns the document offset of the run's first character.
func (r *Run) StartOffset() int {
	return r.start
}

// EndOffset returns the document offset just past the run's last character.
func (r *Run) EndOffset() int {
	return r.start + r.Length()
}

// Atoms returns the run's content atoms in document order.
func (r *Run) Atoms() []Atom {
	var out []Atom
	for _, c := range markup.ElementChildren(r.node) {
		if a, ok := atomOf(c); ok {
			out = append(out, a)
		}
	}
	return out
}

// Text returns the run's text: atom contributions concatenated in order.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, a := range r.Atoms() {
		sb.WriteString(a.Text())
	}
	return sb.String()
}

// Length returns the run's character length.
func (r *Run) Length() int {
	total := 0
	for _, a := range r.Atoms() {
		total += a.Length()
	}
	return total
}

// Formatting returns a copy of the run's formatting descriptor, or nil if
// the run has none.
func (r *Run) Formatting() *Formatting {
	props := r.propsNode()
	if props == nil {
		return nil
	}
	return NewFormatting(props)
}

// SetFormatting replaces the run's formatting with a copy of f. Passing nil
// removes the formatting.
func (r *Run) SetFormatting(f *Formatting) {
	if old := r.propsNode(); old != nil {
		markup.Remove(old)
	}
	if node := f.detachedNode(); node != nil {
		markup.PrependChild(r.node, node)
	}
}

func (r *Run) propsNode() *xmlquery.Node {
	for _, c := range markup.ElementChildren(r.node) {
		if markup.KindOf(c) == markup.KindProperties {
			return c
		}
	}
	return nil
}

// Split cuts the run at a document offset into detached left and right
// fragments, each carrying a copy of the run's formatting. The boundary
// rules are:
//
//   - an atom whose trailing boundary lies at or before the offset stays on
//     the left (zero-length atoms sitting exactly on the split point stay
//     left);
//   - a text atom strictly containing the offset is sliced, with each
//     non-empty half keeping the original whitespace-preservation flag;
//   - non-text atoms are never divided.
//
// A side that ends up with no atoms collapses to nil. For every valid
// offset, text(left) + text(right) == text(run).
func (r *Run) Split(offset int) (left, right *Run, err error) {
	local := offset - r.start
	length := r.Length()
	if local < 0 || local > length {
		return nil, nil, errors.NewIndex("split", offset, length)
	}

	leftNode := markup.NewElement(markup.TagRun)
	rightNode := markup.NewElement(markup.TagRun)
	if props := r.propsNode(); props != nil {
		markup.AppendChild(leftNode, markup.Clone(props))
		markup.AppendChild(rightNode, markup.Clone(props))
	}

	leftEmpty, rightEmpty := true, true
	cum := 0
	for _, a := range r.Atoms() {
		alen := a.Length()
		switch {
		case cum+alen <= local:
			markup.AppendChild(leftNode, markup.Clone(a.Node))
			leftEmpty = false
		case local <= cum:
			markup.AppendChild(rightNode, markup.Clone(a.Node))
			rightEmpty = false
		default:
			// Strictly inside a multi-character text atom: slice it.
			text := []rune(markup.InnerString(a.Node))
			at := local - cum
			if half := string(text[:at]); half != "" {
				markup.AppendChild(leftNode, sliceTextAtom(a.Node, half))
				leftEmpty = false
			}
			if half := string(text[at:]); half != "" {
				markup.AppendChild(rightNode, sliceTextAtom(a.Node, half))
				rightEmpty = false
			}
		}
		cum += alen
	}

	if !leftEmpty {
		lr, _ := WrapAt(leftNode, r.start)
		left = lr
	}
	if !rightEmpty {
		rr, _ := WrapAt(rightNode, offset)
		right = rr
	}
	return left, right, nil
}

// sliceTextAtom clones a text atom with new content, keeping its attributes
// and marking space preservation when the slice gains boundary whitespace.
func sliceTextAtom(orig *xmlquery.Node, text string) *xmlquery.Node {
	n := markup.Clone(orig)
	markup.SetInnerString(n, text)
	if text != strings.TrimSpace(text) && !markup.HasAttr(n, "xml:space") {
		markup.SetAttr(n, "xml:space", "preserve")
	}
	return n
}
