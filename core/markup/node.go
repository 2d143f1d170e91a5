package markup

import (
	"encoding/xml"
	"strings"

	"github.com/antchfx/xmlquery"
)

// node.go - Low-level tree construction and splice helpers.
//
// All structural mutation in the editing core funnels through these
// functions. Callers that mutate while traversing must iterate over a
// Children snapshot, never the live sibling chain.

// NewElement creates a detached element node in the wordprocessing namespace.
func NewElement(tag string) *xmlquery.Node {
	return &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         tag,
		Prefix:       Prefix,
		NamespaceURI: NamespaceW,
	}
}

// NewTextElement creates a detached element with a single text child,
// e.g. a w:t or w:instrText holding the given string.
func NewTextElement(tag, text string) *xmlquery.Node {
	el := NewElement(tag)
	if text != "" {
		AppendChild(el, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	}
	return el
}

// Children returns a materialized snapshot of a node's child list.
func Children(n *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// ElementChildren returns a snapshot of the element children only.
func ElementChildren(n *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// AppendChild attaches n as the last child of parent.
func AppendChild(parent, n *xmlquery.Node) {
	n.Parent = parent
	n.NextSibling = nil
	if parent.FirstChild == nil {
		parent.FirstChild = n
		n.PrevSibling = nil
	} else {
		last := parent.LastChild
		last.NextSibling = n
		n.PrevSibling = last
	}
	parent.LastChild = n
}

// PrependChild attaches n as the first child of parent.
func PrependChild(parent, n *xmlquery.Node) {
	n.Parent = parent
	n.PrevSibling = nil
	n.NextSibling = parent.FirstChild
	if parent.FirstChild != nil {
		parent.FirstChild.PrevSibling = n
	} else {
		parent.LastChild = n
	}
	parent.FirstChild = n
}

// InsertBefore attaches n as the immediately preceding sibling of ref.
func InsertBefore(ref, n *xmlquery.Node) {
	parent := ref.Parent
	n.Parent = parent
	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else if parent != nil {
		parent.FirstChild = n
	}
	ref.PrevSibling = n
}

// InsertAfter attaches n as the immediately following sibling of ref.
func InsertAfter(ref, n *xmlquery.Node) {
	parent := ref.Parent
	n.Parent = parent
	n.PrevSibling = ref
	n.NextSibling = ref.NextSibling
	if ref.NextSibling != nil {
		ref.NextSibling.PrevSibling = n
	} else if parent != nil {
		parent.LastChild = n
	}
	ref.NextSibling = n
}

// Remove detaches n from its parent. Detached nodes keep their own subtree.
func Remove(n *xmlquery.Node) {
	parent := n.Parent
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	} else if parent != nil {
		parent.FirstChild = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	} else if parent != nil {
		parent.LastChild = n.PrevSibling
	}
	n.Parent = nil
	n.PrevSibling = nil
	n.NextSibling = nil
}

// Replace swaps old for the given replacement nodes, in order. Passing no
// replacements removes old.
func Replace(old *xmlquery.Node, replacements ...*xmlquery.Node) {
	ref := old
	for _, n := range replacements {
		InsertAfter(ref, n)
		ref = n
	}
	Remove(old)
}

// Clone returns a deep copy of n. The copy is detached: parent and sibling
// links point outside the copied subtree are nil.
func Clone(n *xmlquery.Node) *xmlquery.Node {
	if n == nil {
		return nil
	}
	out := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
	}
	if len(n.Attr) > 0 {
		out.Attr = make([]xmlquery.Attr, len(n.Attr))
		copy(out.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		AppendChild(out, Clone(c))
	}
	return out
}

// CloneShallow copies a node without its children: tag, prefix, namespace,
// and attributes only.
func CloneShallow(n *xmlquery.Node) *xmlquery.Node {
	if n == nil {
		return nil
	}
	out := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
	}
	if len(n.Attr) > 0 {
		out.Attr = make([]xmlquery.Attr, len(n.Attr))
		copy(out.Attr, n.Attr)
	}
	return out
}

// InnerString returns the concatenated text-node content of n.
func InnerString(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.TextNode || c.Type == xmlquery.CharDataNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// SetInnerString replaces the text content of n with s.
func SetInnerString(n *xmlquery.Node, s string) {
	for _, c := range Children(n) {
		if c.Type == xmlquery.TextNode || c.Type == xmlquery.CharDataNode {
			Remove(c)
		}
	}
	if s != "" {
		AppendChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: s})
	}
}

// Attr returns the value of the attribute with the given name. The name may
// carry a prefix ("w:val"); matching is by local name, which is unambiguous
// in this vocabulary.
func Attr(n *xmlquery.Node, name string) string {
	local := localName(name)
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the attribute with the given name is present.
func HasAttr(n *xmlquery.Node, name string) bool {
	local := localName(name)
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return true
		}
	}
	return false
}

// SetAttr sets an attribute, replacing an existing value with the same
// local name. A "prefix:local" name keeps its prefix on creation.
func SetAttr(n *xmlquery.Node, name, value string) {
	prefix, local := splitName(name)
	for i, a := range n.Attr {
		if a.Name.Local == local {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xmlquery.Attr{
		Name:  xml.Name{Space: prefix, Local: local},
		Value: value,
	})
}

// RemoveAttr deletes the attribute with the given name, if present.
func RemoveAttr(n *xmlquery.Node, name string) {
	local := localName(name)
	for i, a := range n.Attr {
		if a.Name.Local == local {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func splitName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// Descend walks the subtree under n in document order (pre-order),
// using an explicit stack rather than recursion, and calls visit for each
// element node. Returning false stops the walk.
func Descend(n *xmlquery.Node, visit func(*xmlquery.Node) bool) {
	var stack []*xmlquery.Node
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		stack = append(stack, c)
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == xmlquery.ElementNode {
			if !visit(cur) {
				return
			}
		}
		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
}

// DocumentOrder reports whether a precedes b in document order within the
// same tree. Two identical nodes are not ordered. The comparison walks from
// a forward; bounded by subtree size.
func DocumentOrder(root, a, b *xmlquery.Node) bool {
	if a == b {
		return false
	}
	found := false
	var stack []*xmlquery.Node
	stack = append(stack, root)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == a {
			found = true
		}
		if cur == b {
			return found
		}
		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return false
}
