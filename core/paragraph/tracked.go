package paragraph

import (
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/inkwell/core/markup"
	"github.com/FocuswithJustin/inkwell/core/run"
)

// tracked.go - Tracked-change handling: locating revision wrappers, the
// two-level split across wrapper boundaries, and authoring new revisions.

// wrapperOf returns the nearest tracked-change wrapper between n and the
// paragraph, or nil when n is a direct paragraph child.
func (p *Paragraph) wrapperOf(n *xmlquery.Node) *xmlquery.Node {
	for cur := n.Parent; cur != nil && cur != p.node; cur = cur.Parent {
		if markup.KindOf(cur).IsTrackedWrapper() {
			return cur
		}
	}
	return nil
}

// inDeletionWrapper reports whether n sits inside a deletion wrapper.
func (p *Paragraph) inDeletionWrapper(n *xmlquery.Node) bool {
	for cur := n.Parent; cur != nil && cur != p.node; cur = cur.Parent {
		if markup.KindOf(cur) == markup.KindDeletion {
			return true
		}
	}
	return false
}

// cutAt splits the tree at a character offset so that the edit point lies
// between two sibling content nodes, and returns the nodes immediately left
// and right of the cut (either may be nil at the paragraph's edges).
//
// When the located run is nested inside a revision wrapper the split is
// two-level: the run splits first, then the wrapper splits into left and
// right copies carrying identical revision attributes, each holding its
// half of the target run plus the wrapper's sibling runs falling entirely
// on its side.
func (e *Editor) cutAt(p *Paragraph, index int, mode Mode) (before, after *xmlquery.Node, err error) {
	r, err := p.Locate(index, mode)
	if err != nil {
		return nil, nil, err
	}
	left, right, err := r.Split(index)
	if err != nil {
		return nil, nil, err
	}

	wrapper := p.wrapperOf(r.Node())
	if wrapper == nil {
		prev, next := r.Node().PrevSibling, r.Node().NextSibling
		var repl []*xmlquery.Node
		if left != nil {
			repl = append(repl, left.Node())
		}
		if right != nil {
			repl = append(repl, right.Node())
		}
		markup.Replace(r.Node(), repl...)

		before, after = prev, next
		if left != nil {
			before = left.Node()
		}
		if right != nil {
			after = right.Node()
		}
		return before, after, nil
	}

	// Two-level split: both halves keep the wrapper's revision provenance.
	wLeft := markup.CloneShallow(wrapper)
	wRight := markup.CloneShallow(wrapper)
	crossed := false
	for _, c := range markup.Children(wrapper) {
		if c == r.Node() {
			crossed = true
			markup.Remove(c)
			if left != nil {
				markup.AppendChild(wLeft, left.Node())
			}
			if right != nil {
				markup.AppendChild(wRight, right.Node())
			}
			continue
		}
		markup.Remove(c)
		if !crossed {
			markup.AppendChild(wLeft, c)
		} else {
			markup.AppendChild(wRight, c)
		}
	}

	prev, next := wrapper.PrevSibling, wrapper.NextSibling
	var repl []*xmlquery.Node
	if wLeft.FirstChild == nil {
		wLeft = nil
	} else {
		repl = append(repl, wLeft)
	}
	if wRight.FirstChild == nil {
		wRight = nil
	} else {
		repl = append(repl, wRight)
	}
	markup.Replace(wrapper, repl...)

	before, after = prev, next
	if wLeft != nil {
		before = wLeft
	}
	if wRight != nil {
		after = wRight
	}
	return before, after, nil
}

// wrapInsertion wraps freshly built runs in an insertion wrapper carrying a
// new revision id, the editor's author, and the current UTC time.
func (e *Editor) wrapInsertion(nodes []*xmlquery.Node) *xmlquery.Node {
	ins := markup.NewElement(markup.TagInsertion)
	e.stampRevision(ins)
	for _, n := range nodes {
		markup.AppendChild(ins, n)
	}
	return ins
}

// makeDeletion turns a removed run fragment into a deletion wrapper: its
// visible text atoms become deleted-text atoms and the wrapper is stamped
// with fresh revision provenance.
func (e *Editor) makeDeletion(mid *run.Run) *xmlquery.Node {
	for _, a := range mid.Atoms() {
		if a.Kind == markup.KindText {
			a.Node.Data = markup.TagDeletedText
		}
	}
	del := markup.NewElement(markup.TagDeletion)
	e.stampRevision(del)
	markup.AppendChild(del, mid.Node())
	return del
}

func (e *Editor) stampRevision(wrapper *xmlquery.Node) {
	markup.SetAttr(wrapper, "w:id", uuid.NewString())
	if e.opts.Author != "" {
		markup.SetAttr(wrapper, "w:author", e.opts.Author)
	}
	markup.SetAttr(wrapper, "w:date", e.now().Format(time.RFC3339))
}

func (e *Editor) now() time.Time {
	if e.clock != nil {
		return e.clock()
	}
	return time.Now().UTC()
}
