// Package paragraph implements the paragraph layer of the editing core: the
// offset index mapping linear character offsets onto the run tree, and the
// editor orchestrating insert, remove, find/replace, run optimization, and
// paragraph splitting over it.
//
// A paragraph's visible text is the concatenation of its atoms in document
// order, excluding content inside deletion wrappers. Offsets are zero-based
// rune indexes into that text; delete-mode operations address the wider walk
// space that includes deletion-wrapped content.
package paragraph

import (
	"encoding/hex"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/inkwell/core/errors"
	"github.com/FocuswithJustin/inkwell/core/markup"
	"github.com/FocuswithJustin/inkwell/core/run"
)

// Paragraph wraps a paragraph element of the backing markup tree.
type Paragraph struct {
	node *xmlquery.Node
}

// Wrap makes a Paragraph view over a paragraph element.
func Wrap(n *xmlquery.Node) (*Paragraph, error) {
	if markup.KindOf(n) != markup.KindParagraph {
		return nil, errors.NewArgument("node", "not a paragraph element")
	}
	return &Paragraph{node: n}, nil
}

// New creates a detached empty paragraph.
func New() *Paragraph {
	return &Paragraph{node: markup.NewElement(markup.TagParagraph)}
}

// Node returns the underlying paragraph element.
func (p *Paragraph) Node() *xmlquery.Node {
	return p.node
}

// runRef is one run encountered by the paragraph walk, with its position in
// both offset spaces.
type runRef struct {
	node       *xmlquery.Node
	inDeletion bool
	visStart   int // start offset in visible (insert-mode) space
	walkStart  int // start offset in walk (delete-mode) space
	visLen     int
	walkLen    int
}

// walkRuns traverses the paragraph's run tree in document order using an
// explicit stack, assigning each run its offsets in both spaces. Wrappers
// (insertions, deletions, simple fields) are descended into; markers and
// properties contribute nothing.
func (p *Paragraph) walkRuns() []runRef {
	type frame struct {
		node       *xmlquery.Node
		inDeletion bool
	}

	var out []runRef
	vis, walk := 0, 0

	var stack []frame
	children := markup.ElementChildren(p.node)
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, frame{children[i], false})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch kind := markup.KindOf(f.node); {
		case kind == markup.KindRun:
			r, err := run.Wrap(f.node)
			if err != nil {
				continue
			}
			ref := runRef{
				node:       f.node,
				inDeletion: f.inDeletion,
				visStart:   vis,
				walkStart:  walk,
			}
			for _, a := range r.Atoms() {
				alen := a.Length()
				ref.walkLen += alen
				if !f.inDeletion && a.Kind != markup.KindDeletedText {
					ref.visLen += alen
				}
			}
			vis += ref.visLen
			walk += ref.walkLen
			out = append(out, ref)

		case kind.IsTrackedWrapper() || kind == markup.KindSimpleField:
			inDel := f.inDeletion || kind == markup.KindDeletion
			inner := markup.ElementChildren(f.node)
			for i := len(inner) - 1; i >= 0; i-- {
				stack = append(stack, frame{inner[i], inDel})
			}
		}
	}
	return out
}

// Text returns the paragraph's visible text: atom contributions in document
// order, excluding deletion-wrapped content.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, ref := range p.walkRuns() {
		if ref.inDeletion {
			continue
		}
		r, _ := run.Wrap(ref.node)
		for _, a := range r.Atoms() {
			if a.Kind == markup.KindDeletedText {
				continue
			}
			sb.WriteString(a.Text())
		}
	}
	return sb.String()
}

// Length returns the visible character length of the paragraph.
func (p *Paragraph) Length() int {
	total := 0
	for _, ref := range p.walkRuns() {
		total += ref.visLen
	}
	return total
}

// WalkLength returns the delete-mode character length: visible content plus
// content inside deletion wrappers.
func (p *Paragraph) WalkLength() int {
	total := 0
	for _, ref := range p.walkRuns() {
		total += ref.walkLen
	}
	return total
}

// Runs returns the paragraph's runs in document order, each carrying its
// visible start offset.
func (p *Paragraph) Runs() []*run.Run {
	var out []*run.Run
	for _, ref := range p.walkRuns() {
		r, err := run.WrapAt(ref.node, ref.visStart)
		if err == nil {
			out = append(out, r)
		}
	}
	return out
}

// IsEmpty reports whether the paragraph holds no content in either offset
// space. An empty paragraph is eligible for pruning by its container (the
// sole paragraph of a table cell is the container's exception, not ours).
func (p *Paragraph) IsEmpty() bool {
	for _, ref := range p.walkRuns() {
		if ref.walkLen > 0 {
			return false
		}
		r, _ := run.Wrap(ref.node)
		if len(r.Atoms()) > 0 {
			return false
		}
	}
	return true
}

// Fingerprint returns the BLAKE3-256 hex digest of the visible text.
func (p *Paragraph) Fingerprint() string {
	sum := blake3.Sum256([]byte(p.Text()))
	return hex.EncodeToString(sum[:])
}

// FieldInstructions returns the raw field instruction strings present in
// the paragraph, in document order: simple field instr attributes and
// instruction text atoms.
func (p *Paragraph) FieldInstructions() []string {
	var out []string
	markup.Descend(p.node, func(n *xmlquery.Node) bool {
		switch markup.KindOf(n) {
		case markup.KindSimpleField:
			if instr := markup.Attr(n, "w:instr"); instr != "" {
				out = append(out, instr)
			}
		case markup.KindInstrText:
			if instr := markup.InnerString(n); strings.TrimSpace(instr) != "" {
				out = append(out, instr)
			}
		}
		return true
	})
	return out
}
