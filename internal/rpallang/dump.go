package rpallang

// file dump.go renders an AST or standard tree in the dotted post-order
// form spec.md 6 defines for the -ast/-st CLI flags: one node per line,
// indentation depth expressed as leading '.' characters.
//
// This output is a byte-exact external interface contract, so it is built
// with strings.Builder rather than github.com/dekarrin/rosed's wrapping/
// table layout (used elsewhere in this module for human-facing text) --
// reflowing would corrupt the format a consumer parses or diffs against.

import "strings"

// Dump renders root in the dotted post-order form used by -ast and -st.
func Dump(root *Node) string {
	var sb strings.Builder
	dumpNode(&sb, root, 0)
	return sb.String()
}

func dumpNode(sb *strings.Builder, n *Node, depth int) {
	sb.WriteString(strings.Repeat(".", depth))
	sb.WriteString(nodeLabel(n))
	sb.WriteByte('\n')
	for _, c := range n.Children {
		dumpNode(sb, c, depth+1)
	}
}

func nodeLabel(n *Node) string {
	switch n.Kind {
	case NKId:
		return "<ID:" + n.Value + ">"
	case NKInt:
		return "<INT:" + n.Value + ">"
	case NKStr:
		return "<STR:" + n.Value + ">"
	case NKCompare:
		return n.Value
	default:
		return n.Kind.String()
	}
}
