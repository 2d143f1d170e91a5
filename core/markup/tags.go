package markup

import "github.com/antchfx/xmlquery"

// NamespaceW is the namespace URI for the wordprocessing vocabulary.
const NamespaceW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Prefix is the canonical namespace prefix for created elements.
const Prefix = "w"

// Element local names in the wordprocessing vocabulary.
const (
	TagParagraph         = "p"
	TagRun               = "r"
	TagRunProperties     = "rPr"
	TagParaProperties    = "pPr"
	TagText              = "t"
	TagDeletedText       = "delText"
	TagTab               = "tab"
	TagBreak             = "br"
	TagCarriageReturn    = "cr"
	TagDrawing           = "drawing"
	TagCommentRef        = "commentReference"
	TagInsertion         = "ins"
	TagDeletion          = "del"
	TagBookmarkStart     = "bookmarkStart"
	TagBookmarkEnd       = "bookmarkEnd"
	TagCommentRangeStart = "commentRangeStart"
	TagCommentRangeEnd   = "commentRangeEnd"
	TagSimpleField       = "fldSimple"
	TagFieldChar         = "fldChar"
	TagInstrText         = "instrText"
)

// Kind classifies a markup element into the closed set of node kinds the
// editing core understands. Unknown elements map to KindOther, which has
// zero length and is carried through edits untouched.
type Kind int

const (
	// KindOther is any element outside the closed vocabulary.
	KindOther Kind = iota

	// Atom kinds (content units inside a run).

	// KindText is a visible text fragment.
	KindText
	// KindDeletedText is a text fragment inside a deletion wrapper.
	KindDeletedText
	// KindTab is a horizontal tab (one character).
	KindTab
	// KindBreak is a line break (one character).
	KindBreak
	// KindDrawing is an embedded drawing reference (zero length).
	KindDrawing
	// KindCommentRef is a comment reference marker (zero length).
	KindCommentRef
	// KindFieldChar is a complex field boundary marker (zero length).
	KindFieldChar
	// KindInstrText is a field instruction fragment (zero length).
	KindInstrText

	// Structural kinds (paragraph-level or run-level containers).

	// KindRun is a formatted run of atoms.
	KindRun
	// KindInsertion is a tracked-change wrapper for inserted content.
	KindInsertion
	// KindDeletion is a tracked-change wrapper for deleted content.
	KindDeletion
	// KindProperties is a run or paragraph properties element.
	KindProperties
	// KindBookmarkStart is a bookmark range opening marker.
	KindBookmarkStart
	// KindBookmarkEnd is a bookmark range closing marker.
	KindBookmarkEnd
	// KindCommentRangeStart is a comment range opening marker.
	KindCommentRangeStart
	// KindCommentRangeEnd is a comment range closing marker.
	KindCommentRangeEnd
	// KindSimpleField is a self-contained field placeholder (zero length).
	KindSimpleField
	// KindParagraph is a paragraph element.
	KindParagraph
)

var kindNames = map[Kind]string{
	KindOther:             "other",
	KindText:              "text",
	KindDeletedText:       "delText",
	KindTab:               "tab",
	KindBreak:             "break",
	KindDrawing:           "drawing",
	KindCommentRef:        "commentRef",
	KindFieldChar:         "fieldChar",
	KindInstrText:         "instrText",
	KindRun:               "run",
	KindInsertion:         "insertion",
	KindDeletion:          "deletion",
	KindProperties:        "properties",
	KindBookmarkStart:     "bookmarkStart",
	KindBookmarkEnd:       "bookmarkEnd",
	KindCommentRangeStart: "commentRangeStart",
	KindCommentRangeEnd:   "commentRangeEnd",
	KindSimpleField:       "simpleField",
	KindParagraph:         "paragraph",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "other"
}

// IsAtom reports whether the kind is a run-level content unit.
func (k Kind) IsAtom() bool {
	switch k {
	case KindText, KindDeletedText, KindTab, KindBreak, KindDrawing,
		KindCommentRef, KindFieldChar, KindInstrText:
		return true
	}
	return false
}

// IsTrackedWrapper reports whether the kind is a revision wrapper.
func (k Kind) IsTrackedWrapper() bool {
	return k == KindInsertion || k == KindDeletion
}

// IsMarker reports whether the kind is a zero-length anchor marker that
// appears between runs rather than inside them.
func (k Kind) IsMarker() bool {
	switch k {
	case KindBookmarkStart, KindBookmarkEnd, KindCommentRangeStart, KindCommentRangeEnd:
		return true
	}
	return false
}

// elementKinds is the static tag lookup table. Classification happens once
// per node here instead of tag-name switches scattered through the editors.
var elementKinds = map[string]Kind{
	TagParagraph:         KindParagraph,
	TagRun:               KindRun,
	TagRunProperties:     KindProperties,
	TagParaProperties:    KindProperties,
	TagText:              KindText,
	TagDeletedText:       KindDeletedText,
	TagTab:               KindTab,
	TagBreak:             KindBreak,
	TagCarriageReturn:    KindBreak,
	TagDrawing:           KindDrawing,
	TagCommentRef:        KindCommentRef,
	TagInsertion:         KindInsertion,
	TagDeletion:          KindDeletion,
	TagBookmarkStart:     KindBookmarkStart,
	TagBookmarkEnd:       KindBookmarkEnd,
	TagCommentRangeStart: KindCommentRangeStart,
	TagCommentRangeEnd:   KindCommentRangeEnd,
	TagSimpleField:       KindSimpleField,
	TagFieldChar:         KindFieldChar,
	TagInstrText:         KindInstrText,
}

// KindOf resolves a node to its Kind. Non-element nodes and elements outside
// the closed vocabulary resolve to KindOther.
func KindOf(n *xmlquery.Node) Kind {
	if n == nil || n.Type != xmlquery.ElementNode {
		return KindOther
	}
	if k, ok := elementKinds[n.Data]; ok {
		return k
	}
	return KindOther
}
