package parser

import (
	"strings"

	"github.com/Lalufu/wisent"
)

// Node is a parse tree node. Leaves carry the input token they were shifted
// from; inner nodes carry the head symbol of the rule they were reduced by,
// and their children.
//
// Inner nodes for transparent non-terminals never appear in a finished tree:
// they are spliced into their parent at reduce time.
type Node struct {
	Sym      string       // symbol name: rule head for inner nodes, terminal name for leaves
	Token    wisent.Token // non-nil iff this is a leaf
	Children []*Node      // nil for leaves
}

// IsLeaf is true for terminal nodes.
func (n *Node) IsLeaf() bool {
	return n.Token != nil
}

// Leaves returns the terminal frontier of the tree, left to right.
func (n *Node) Leaves() []wisent.Token {
	if n.IsLeaf() {
		return []wisent.Token{n.Token}
	}
	var leaves []wisent.Token
	for _, c := range n.Children {
		leaves = append(leaves, c.Leaves()...)
	}
	return leaves
}

// String renders the tree as a nested list, e.g.
//
//    (expr (term (term num) * (factor num)))
func (n *Node) String() string {
	if n.IsLeaf() {
		return n.Sym
	}
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(n.Sym)
	for _, c := range n.Children {
		sb.WriteString(" ")
		sb.WriteString(c.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Sprint renders the tree with one node per line, indented by depth. The
// interactive mode of the command line tool uses this.
func Sprint(n *Node) string {
	var sb strings.Builder
	sprint(&sb, n, 0)
	return sb.String()
}

func sprint(sb *strings.Builder, n *Node, level int) {
	for i := 0; i < level; i++ {
		sb.WriteString(". ")
	}
	sb.WriteString(n.Sym)
	if n.IsLeaf() && n.Token.Lexeme() != "" && n.Token.Lexeme() != n.Sym {
		sb.WriteString(" ")
		sb.WriteString(n.Token.Lexeme())
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		sprint(sb, c, level+1)
	}
}
