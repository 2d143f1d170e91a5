package paragraph

import (
	"time"
	"unicode"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/inkwell/core/errors"
	"github.com/FocuswithJustin/inkwell/core/markup"
	"github.com/FocuswithJustin/inkwell/core/run"
)

// Comparison selects how FindReplace matches text.
type Comparison int

const (
	// MatchExact compares characters exactly.
	MatchExact Comparison = iota
	// MatchIgnoreCase compares characters case-insensitively.
	MatchIgnoreCase
)

// Options configures an Editor.
type Options struct {
	// TrackChanges makes edits author revisions instead of mutating
	// content destructively: insertions are wrapped in insertion markers
	// and removals become deletion wrappers.
	TrackChanges bool
	// Author is recorded on authored revisions.
	Author string
}

// Editor applies text edits to paragraphs. The zero value edits without
// revision tracking.
type Editor struct {
	opts  Options
	clock func() time.Time // test hook
}

// NewEditor returns an editor with the given options.
func NewEditor(opts Options) *Editor {
	return &Editor{opts: opts}
}

// InsertText inserts text at a visible character offset. The text is cut at
// special-character boundaries, one run per piece: plain text, tabs, and
// line breaks never share a run. Every piece carries a copy of the given
// formatting (nil for unformatted). Valid offsets are [0, Length()].
func (e *Editor) InsertText(p *Paragraph, index int, text string, f *run.Formatting) error {
	total := p.Length()
	if index < 0 || index > total {
		return errors.NewIndex("insert", index, total)
	}
	if text == "" {
		return nil
	}

	nodes := buildRuns(text, f)
	if e.opts.TrackChanges {
		nodes = []*xmlquery.Node{e.wrapInsertion(nodes)}
	}

	if total == 0 {
		// Nothing visible to split: new content goes at the content start,
		// ahead of any deletion-wrapped remains.
		e.insertAtContentStart(p, nodes)
		return nil
	}

	before, after, err := e.cutAt(p, index, ModeInsert)
	if err != nil {
		return err
	}
	switch {
	case before != nil:
		ref := before
		for _, n := range nodes {
			markup.InsertAfter(ref, n)
			ref = n
		}
	case after != nil:
		for _, n := range nodes {
			markup.InsertBefore(after, n)
		}
	default:
		for _, n := range nodes {
			markup.AppendChild(p.node, n)
		}
	}
	return nil
}

// insertAtContentStart splices nodes after the paragraph properties (if
// any), before all content.
func (e *Editor) insertAtContentStart(p *Paragraph, nodes []*xmlquery.Node) {
	var props *xmlquery.Node
	if cs := markup.ElementChildren(p.node); len(cs) > 0 && markup.KindOf(cs[0]) == markup.KindProperties {
		props = cs[0]
	}
	ref := props
	for _, n := range nodes {
		if ref == nil {
			markup.PrependChild(p.node, n)
		} else {
			markup.InsertAfter(ref, n)
		}
		ref = n
	}
}

// RemoveText removes count characters starting at a delete-mode offset.
// Valid ranges satisfy index >= 0 and index+count <= WalkLength(). Removal
// proceeds run by run: locate, split at the range edges, drop the middle
// fragment, repeat until the count is consumed. With TrackChanges the
// middle fragments become deletion wrappers instead of being discarded.
// Emptied structural parents are pruned afterwards.
func (e *Editor) RemoveText(p *Paragraph, index, count int) error {
	total := p.WalkLength()
	if index < 0 || count < 0 || index+count > total {
		return errors.NewIndex("remove", index, total)
	}

	cur := index
	remaining := count
	for remaining > 0 {
		r, err := p.Locate(cur, ModeDelete)
		if err != nil {
			return err
		}
		end := min(cur+remaining, r.EndOffset())
		removed := end - cur

		alreadyDeleted := p.inDeletionWrapper(r.Node())
		if e.opts.TrackChanges && alreadyDeleted {
			// The span is deleted content already; authoring a second
			// deletion over it would be meaningless.
			cur = end
			remaining -= removed
			continue
		}

		left, rest, err := r.Split(cur)
		if err != nil {
			return err
		}
		var mid, right *run.Run
		if rest != nil {
			if mid, right, err = rest.Split(end); err != nil {
				return err
			}
		}

		var repl []*xmlquery.Node
		if left != nil {
			repl = append(repl, left.Node())
		}
		if e.opts.TrackChanges && mid != nil {
			repl = append(repl, e.makeDeletion(mid))
		}
		if right != nil {
			repl = append(repl, right.Node())
		}
		markup.Replace(r.Node(), repl...)

		if e.opts.TrackChanges {
			// The span still occupies delete-mode offsets; step past it.
			cur = end
		}
		remaining -= removed
	}

	e.prune(p)
	return nil
}

// FindReplace replaces every non-overlapping occurrence of find with
// replace, scanning visible text left to right with a live re-scan after
// each replacement. Each match keeps the formatting of the first run it
// touched. Reports whether any replacement happened.
func (e *Editor) FindReplace(p *Paragraph, find, replace string, cmp Comparison) (bool, error) {
	if find == "" {
		return false, errors.NewArgument("find", "must not be empty")
	}

	findRunes := []rune(find)
	replaceLen := len([]rune(replace))
	replaced := false
	from := 0
	for {
		text := []rune(p.Text())
		idx := searchRunes(text, findRunes, from, cmp == MatchIgnoreCase)
		if idx < 0 {
			break
		}

		f := e.formattingAt(p, idx)
		if err := e.removeVisible(p, idx, len(findRunes)); err != nil {
			return replaced, err
		}
		if err := e.InsertText(p, idx, replace, f); err != nil {
			return replaced, err
		}
		replaced = true
		from = idx + replaceLen
	}
	return replaced, nil
}

// formattingAt returns the formatting of the run at a visible offset, or
// nil when there is none.
func (e *Editor) formattingAt(p *Paragraph, index int) *run.Formatting {
	r, err := p.Locate(index, ModeInsert)
	if err != nil {
		return nil
	}
	return r.Formatting()
}

// removeVisible removes n visible characters starting at a visible offset,
// segment by segment, skipping over content that is already deleted.
func (e *Editor) removeVisible(p *Paragraph, index, n int) error {
	remaining := n
	for remaining > 0 {
		seg, ok := p.segmentAt(index)
		if !ok {
			return errors.NewIndex("remove", index, p.Length())
		}
		into := index - seg.visStart
		count := min(remaining, seg.length-into)
		if err := e.RemoveText(p, seg.walkStart+into, count); err != nil {
			return err
		}
		remaining -= count
	}
	return nil
}

// segment is a maximal span of visible characters that is also contiguous
// in the delete-mode walk space.
type segment struct {
	visStart  int
	walkStart int
	length    int
}

// segmentAt returns the visible segment containing the given visible
// offset.
func (p *Paragraph) segmentAt(index int) (segment, bool) {
	var segs []segment
	vis, walk := 0, 0
	for _, ref := range p.walkRuns() {
		r, err := run.Wrap(ref.node)
		if err != nil {
			continue
		}
		for _, a := range r.Atoms() {
			alen := a.Length()
			if alen == 0 {
				continue
			}
			visible := !ref.inDeletion && a.Kind != markup.KindDeletedText
			if visible {
				if n := len(segs); n > 0 && segs[n-1].walkStart+segs[n-1].length == walk {
					segs[n-1].length += alen
				} else {
					segs = append(segs, segment{visStart: vis, walkStart: walk, length: alen})
				}
				vis += alen
			}
			walk += alen
		}
	}
	for _, s := range segs {
		if s.visStart <= index && index < s.visStart+s.length {
			return s, true
		}
	}
	return segment{}, false
}

// searchRunes finds the first occurrence of needle in hay at or after from.
func searchRunes(hay, needle []rune, from int, fold bool) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			a, b := hay[i+j], needle[j]
			if fold {
				a, b = unicode.ToLower(a), unicode.ToLower(b)
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// OptimizeRuns merges adjacent sibling runs holding only text atoms with
// equal (or both-absent) formatting, at the paragraph level and inside each
// wrapper. Any non-text atom, marker, or wrapper boundary terminates the
// current merge group. Applying it twice yields the same run sequence as
// once.
func (e *Editor) OptimizeRuns(p *Paragraph) {
	containers := []*xmlquery.Node{p.node}
	markup.Descend(p.node, func(n *xmlquery.Node) bool {
		if k := markup.KindOf(n); k.IsTrackedWrapper() || k == markup.KindSimpleField {
			containers = append(containers, n)
		}
		return true
	})
	for _, c := range containers {
		mergeAdjacentRuns(c)
	}
}

func mergeAdjacentRuns(container *xmlquery.Node) {
	var prev *run.Run
	for _, c := range markup.ElementChildren(container) {
		if markup.KindOf(c) != markup.KindRun {
			prev = nil
			continue
		}
		r, err := run.Wrap(c)
		if err != nil || !textOnly(r) {
			prev = nil
			continue
		}
		if prev != nil && prev.Formatting().Equal(r.Formatting()) {
			for _, a := range r.Atoms() {
				markup.Remove(a.Node)
				markup.AppendChild(prev.Node(), a.Node)
			}
			markup.Remove(c)
			coalesceTextAtoms(prev.Node())
			continue
		}
		prev = r
	}
}

func textOnly(r *run.Run) bool {
	atoms := r.Atoms()
	if len(atoms) == 0 {
		return false
	}
	for _, a := range atoms {
		if !a.IsText() {
			return false
		}
	}
	return true
}

// coalesceTextAtoms folds consecutive text atoms of the same tag into one,
// keeping space preservation when either side needs it.
func coalesceTextAtoms(runNode *xmlquery.Node) {
	var prev *xmlquery.Node
	for _, c := range markup.ElementChildren(runNode) {
		kind := markup.KindOf(c)
		if kind != markup.KindText && kind != markup.KindDeletedText {
			prev = nil
			continue
		}
		if prev != nil && prev.Data == c.Data {
			markup.SetInnerString(prev, markup.InnerString(prev)+markup.InnerString(c))
			if markup.Attr(c, "xml:space") == "preserve" {
				markup.SetAttr(prev, "xml:space", "preserve")
			}
			markup.Remove(c)
			continue
		}
		prev = c
	}
}

// Split divides the paragraph at a visible offset into detached left and
// right fragments, partitioning the sibling content nodes around the cut;
// both fragments receive a copy of the paragraph properties. A side without
// content collapses to nil. The source paragraph is consumed: its content
// moves into the fragments and the caller (the document layer) replaces it.
func (e *Editor) Split(p *Paragraph, index int) (*Paragraph, *Paragraph, error) {
	total := p.Length()
	if index < 0 || index > total {
		return nil, nil, errors.NewIndex("split", index, total)
	}

	var before *xmlquery.Node
	if total > 0 {
		b, _, err := e.cutAt(p, index, ModeInsert)
		if err != nil {
			return nil, nil, err
		}
		before = b
	}

	left, right := New(), New()
	var props *xmlquery.Node
	// A cut at the very front reports the properties element (or nothing)
	// as its left neighbor; all content belongs to the right fragment then.
	crossed := before == nil || markup.KindOf(before) == markup.KindProperties
	for _, c := range markup.Children(p.node) {
		if markup.KindOf(c) == markup.KindProperties {
			props = c
			continue
		}
		markup.Remove(c)
		if crossed {
			markup.AppendChild(right.node, c)
		} else {
			markup.AppendChild(left.node, c)
			if c == before {
				crossed = true
			}
		}
	}
	if props != nil {
		markup.PrependChild(left.node, markup.Clone(props))
		markup.PrependChild(right.node, markup.Clone(props))
	}

	if !hasContent(left) {
		left = nil
	}
	if !hasContent(right) {
		right = nil
	}
	return left, right, nil
}

func hasContent(p *Paragraph) bool {
	for _, c := range markup.ElementChildren(p.node) {
		if markup.KindOf(c) != markup.KindProperties {
			return true
		}
	}
	return false
}

// prune removes structural parents that an edit emptied: runs with no atoms
// and wrappers with no atoms left, unless the wrapper is the sole remaining
// content of the paragraph.
func (e *Editor) prune(p *Paragraph) {
	content := func() []*xmlquery.Node {
		var out []*xmlquery.Node
		for _, c := range markup.ElementChildren(p.node) {
			if markup.KindOf(c) != markup.KindProperties {
				out = append(out, c)
			}
		}
		return out
	}

	for _, c := range content() {
		kind := markup.KindOf(c)
		switch {
		case kind == markup.KindRun:
			if r, err := run.Wrap(c); err == nil && len(r.Atoms()) == 0 {
				markup.Remove(c)
			}
		case kind.IsTrackedWrapper() || kind == markup.KindSimpleField:
			for _, inner := range markup.ElementChildren(c) {
				if r, err := run.Wrap(inner); err == nil && len(r.Atoms()) == 0 {
					markup.Remove(inner)
				}
			}
			if c.FirstChild == nil && len(content()) > 1 {
				markup.Remove(c)
			}
		}
	}
}

// buildRuns cuts text at special-character boundaries and builds one
// detached run per piece, each carrying a copy of the formatting.
func buildRuns(text string, f *run.Formatting) []*xmlquery.Node {
	var nodes []*xmlquery.Node

	newRun := func(atom *xmlquery.Node) {
		node := markup.NewElement(markup.TagRun)
		markup.AppendChild(node, atom)
		if f != nil {
			if r, err := run.Wrap(node); err == nil {
				r.SetFormatting(f)
			}
		}
		nodes = append(nodes, node)
	}

	var plain []rune
	flush := func() {
		if len(plain) == 0 {
			return
		}
		s := string(plain)
		atom := markup.NewTextElement(markup.TagText, s)
		if s != trimSpace(s) {
			markup.SetAttr(atom, "xml:space", "preserve")
		}
		newRun(atom)
		plain = plain[:0]
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\t':
			flush()
			newRun(markup.NewElement(markup.TagTab))
		case '\n':
			flush()
			newRun(markup.NewElement(markup.TagBreak))
		case '\r':
			flush()
			newRun(markup.NewElement(markup.TagBreak))
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
		default:
			plain = append(plain, runes[i])
		}
	}
	flush()
	return nodes
}

func trimSpace(s string) string {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	end := len(s)
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}
