// Package anchor manages named positions bound to runs: bookmarks and
// comment ranges. An anchor is a pair of zero-length marker elements
// spliced around its target runs; markers contribute nothing to offset
// arithmetic, so anchors survive splits and merges without bookkeeping.
package anchor

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/inkwell/core/errors"
	"github.com/FocuswithJustin/inkwell/core/markup"
	"github.com/FocuswithJustin/inkwell/core/run"
)

// Registry resolves and mutates anchors within one scope of the markup
// tree, typically a paragraph or a document body.
type Registry struct {
	root *xmlquery.Node
}

// New returns a registry scoped to the given subtree root.
func New(root *xmlquery.Node) *Registry {
	return &Registry{root: root}
}

// Bookmark is a named range between two markers.
type Bookmark struct {
	Name  string
	ID    string
	Start *xmlquery.Node
	End   *xmlquery.Node
}

// SetBookmark brackets the runs from start through end with bookmark
// markers under the given name. The name must be unused in the scope, both
// runs must be attached under it, and start must not come after end.
func (g *Registry) SetBookmark(name string, start, end *run.Run) error {
	if name == "" {
		return errors.NewArgument("name", "must not be empty")
	}
	if g.bookmarkStart(name) != nil {
		return errors.NewDuplicateName(name)
	}
	if err := g.checkAttached(start, end, name); err != nil {
		return err
	}

	id := uuid.NewString()
	s := markup.NewElement(markup.TagBookmarkStart)
	markup.SetAttr(s, "w:id", id)
	markup.SetAttr(s, "w:name", name)
	e := markup.NewElement(markup.TagBookmarkEnd)
	markup.SetAttr(e, "w:id", id)

	markup.InsertBefore(start.Node(), s)
	markup.InsertAfter(end.Node(), e)
	return nil
}

// BookmarkText returns the visible text strictly between the bookmark's
// markers.
func (g *Registry) BookmarkText(name string) (string, error) {
	s := g.bookmarkStart(name)
	if s == nil {
		return "", errors.NewNotFound("bookmark", name)
	}
	e := g.matchingEnd(markup.TagBookmarkEnd, markup.Attr(s, "w:id"))
	return g.textBetween(s, e), nil
}

// RemoveBookmark deletes the bookmark's markers. The bracketed content is
// untouched.
func (g *Registry) RemoveBookmark(name string) error {
	s := g.bookmarkStart(name)
	if s == nil {
		return errors.NewNotFound("bookmark", name)
	}
	if e := g.matchingEnd(markup.TagBookmarkEnd, markup.Attr(s, "w:id")); e != nil {
		markup.Remove(e)
	}
	markup.Remove(s)
	return nil
}

// Bookmarks lists the scope's bookmarks in document order.
func (g *Registry) Bookmarks() []Bookmark {
	var out []Bookmark
	markup.Descend(g.root, func(n *xmlquery.Node) bool {
		if markup.KindOf(n) == markup.KindBookmarkStart {
			id := markup.Attr(n, "w:id")
			out = append(out, Bookmark{
				Name:  markup.Attr(n, "w:name"),
				ID:    id,
				Start: n,
				End:   g.matchingEnd(markup.TagBookmarkEnd, id),
			})
		}
		return true
	})
	return out
}

// SetCommentRange brackets the runs from start through end with comment
// range markers and returns the generated comment id. A reference run
// pointing at the comment is appended after the end marker; resolving the
// id to comment content is the document layer's concern.
func (g *Registry) SetCommentRange(start, end *run.Run) (string, error) {
	if err := g.checkAttached(start, end, ""); err != nil {
		return "", err
	}

	id := uuid.NewString()
	s := markup.NewElement(markup.TagCommentRangeStart)
	markup.SetAttr(s, "w:id", id)
	e := markup.NewElement(markup.TagCommentRangeEnd)
	markup.SetAttr(e, "w:id", id)

	ref := markup.NewElement(markup.TagRun)
	refMark := markup.NewElement(markup.TagCommentRef)
	markup.SetAttr(refMark, "w:id", id)
	markup.AppendChild(ref, refMark)

	markup.InsertBefore(start.Node(), s)
	markup.InsertAfter(end.Node(), e)
	markup.InsertAfter(e, ref)
	return id, nil
}

// CommentText returns the visible text strictly between the comment
// range's markers.
func (g *Registry) CommentText(id string) (string, error) {
	s := g.commentStart(id)
	if s == nil {
		return "", errors.NewNotFound("comment range", id)
	}
	e := g.matchingEnd(markup.TagCommentRangeEnd, id)
	return g.textBetween(s, e), nil
}

// RemoveCommentRange deletes the comment range's markers and its reference
// run.
func (g *Registry) RemoveCommentRange(id string) error {
	s := g.commentStart(id)
	if s == nil {
		return errors.NewNotFound("comment range", id)
	}
	if e := g.matchingEnd(markup.TagCommentRangeEnd, id); e != nil {
		markup.Remove(e)
	}
	markup.Remove(s)

	var ref *xmlquery.Node
	markup.Descend(g.root, func(n *xmlquery.Node) bool {
		if markup.KindOf(n) == markup.KindCommentRef && markup.Attr(n, "w:id") == id {
			ref = n
			return false
		}
		return true
	})
	if ref != nil {
		if parent := ref.Parent; parent != nil && markup.KindOf(parent) == markup.KindRun {
			markup.Remove(parent)
		} else {
			markup.Remove(ref)
		}
	}
	return nil
}

// CommentRanges lists the ids of the scope's comment ranges in document
// order.
func (g *Registry) CommentRanges() []string {
	var out []string
	markup.Descend(g.root, func(n *xmlquery.Node) bool {
		if markup.KindOf(n) == markup.KindCommentRangeStart {
			out = append(out, markup.Attr(n, "w:id"))
		}
		return true
	})
	return out
}

// checkAttached validates the run pair of a new anchor: both attached
// under the scope and start not after end.
func (g *Registry) checkAttached(start, end *run.Run, name string) error {
	if start == nil || end == nil {
		return errors.NewArgument("run", "must not be nil")
	}
	if !g.contains(start.Node()) {
		return errors.NewOrphan("run", name)
	}
	if !g.contains(end.Node()) {
		return errors.NewOrphan("run", name)
	}
	if start.Node() != end.Node() && !markup.DocumentOrder(g.root, start.Node(), end.Node()) {
		return errors.NewArgument("start", "must precede end in document order")
	}
	return nil
}

func (g *Registry) contains(n *xmlquery.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == g.root {
			return true
		}
	}
	return false
}

func (g *Registry) bookmarkStart(name string) *xmlquery.Node {
	var found *xmlquery.Node
	markup.Descend(g.root, func(n *xmlquery.Node) bool {
		if markup.KindOf(n) == markup.KindBookmarkStart && markup.Attr(n, "w:name") == name {
			found = n
			return false
		}
		return true
	})
	return found
}

func (g *Registry) commentStart(id string) *xmlquery.Node {
	var found *xmlquery.Node
	markup.Descend(g.root, func(n *xmlquery.Node) bool {
		if markup.KindOf(n) == markup.KindCommentRangeStart && markup.Attr(n, "w:id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// matchingEnd finds the end marker of the given tag carrying the id.
func (g *Registry) matchingEnd(tag, id string) *xmlquery.Node {
	var found *xmlquery.Node
	markup.Descend(g.root, func(n *xmlquery.Node) bool {
		if n.Data == tag && markup.Attr(n, "w:id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// textBetween collects visible atom text strictly between the two markers
// in document order, skipping deletion-wrapped and deleted-text content. A
// nil end marker reads to the end of the scope.
func (g *Registry) textBetween(start, end *xmlquery.Node) string {
	var sb strings.Builder
	active := false
	markup.Descend(g.root, func(n *xmlquery.Node) bool {
		switch {
		case n == start:
			active = true
			return true
		case n == end:
			return false
		case !active:
			return true
		}
		switch markup.KindOf(n) {
		case markup.KindText:
			if !g.inDeletion(n) {
				sb.WriteString(markup.InnerString(n))
			}
		case markup.KindTab:
			if !g.inDeletion(n) {
				sb.WriteString("\t")
			}
		case markup.KindBreak:
			if !g.inDeletion(n) {
				sb.WriteString("\n")
			}
		}
		return true
	})
	return sb.String()
}

func (g *Registry) inDeletion(n *xmlquery.Node) bool {
	for cur := n.Parent; cur != nil && cur != g.root; cur = cur.Parent {
		if markup.KindOf(cur) == markup.KindDeletion {
			return true
		}
	}
	return false
}
