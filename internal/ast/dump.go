package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented outline of the tree, one node per line:
//
//	FuncDefine f
//	  Terminal int
func (t *Tree) Dump(w io.Writer) error {
	var err error
	t.Walk(t.Root, func(id NodeID, depth int) bool {
		if err != nil {
			return false
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), t.describe(id))
		return true
	})
	return err
}

func (t *Tree) String() string {
	var sb strings.Builder
	_ = t.Dump(&sb)
	return sb.String()
}

func (t *Tree) describe(id NodeID) string {
	n := t.Node(id)
	switch {
	case n.Tok != nil:
		return fmt.Sprintf("%s %s", n.Kind, n.Tok.Text)
	case n.Symbol != "":
		return fmt.Sprintf("%s %s", n.Kind, n.Symbol)
	default:
		return n.Kind.String()
	}
}
