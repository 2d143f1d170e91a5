package paragraph

import (
	"github.com/FocuswithJustin/inkwell/core/errors"
	"github.com/FocuswithJustin/inkwell/core/run"
)

// Mode selects the offset space an edit addresses.
type Mode int

const (
	// ModeInsert addresses visible text. Valid offsets are [0, Length()];
	// content inside deletion wrappers contributes nothing and is never a
	// target, so an offset at a deleted span resolves to the point before
	// the wrapper.
	ModeInsert Mode = iota

	// ModeDelete addresses the walk space. Valid offsets are
	// [0, WalkLength()); deletion-wrapped content counts and is
	// addressable.
	ModeDelete
)

func (m Mode) String() string {
	if m == ModeDelete {
		return "delete"
	}
	return "insert"
}

// Locate resolves a character offset to the run containing it, with the
// run's start offset in the mode's space. The index is recomputed on every
// call by walking the tree in document order; no persistent index exists.
//
// Insert mode returns the run containing the offset, with insert-before-
// this-atom semantics: an offset on a run boundary resolves to the run the
// next character belongs to. An offset equal to the total length resolves
// to the last visible run (the append point). Delete mode requires a
// character to exist at the offset. Locate fails with an index error when
// no run qualifies.
func (p *Paragraph) Locate(index int, mode Mode) (*run.Run, error) {
	refs := p.walkRuns()

	if mode == ModeDelete {
		total := 0
		for _, ref := range refs {
			total += ref.walkLen
		}
		if index < 0 || index >= total {
			return nil, errors.NewIndex(mode.String(), index, total)
		}
		for _, ref := range refs {
			if ref.walkLen == 0 {
				continue
			}
			if ref.walkStart+ref.walkLen > index {
				return run.WrapAt(ref.node, ref.walkStart)
			}
		}
		return nil, errors.NewIndex(mode.String(), index, total)
	}

	total := 0
	for _, ref := range refs {
		total += ref.visLen
	}
	if index < 0 || index > total {
		return nil, errors.NewIndex(mode.String(), index, total)
	}
	if index == total {
		// Append point: the last visible run, regardless of its length.
		for i := len(refs) - 1; i >= 0; i-- {
			if !refs[i].inDeletion {
				return run.WrapAt(refs[i].node, refs[i].visStart)
			}
		}
		return nil, errors.NewIndex(mode.String(), index, total)
	}
	for _, ref := range refs {
		if ref.inDeletion || ref.visLen == 0 {
			continue
		}
		if ref.visStart <= index && index < ref.visStart+ref.visLen {
			return run.WrapAt(ref.node, ref.visStart)
		}
	}
	return nil, errors.NewIndex(mode.String(), index, total)
}
