package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"minicc/internal/ast"
	"minicc/internal/source"
)

// CheckSpanInvariants runs span sanity checks over a parsed tree:
// 1) every span belongs to sf and lies within its content
// 2) the root span is non-empty unless the file is blank
// 3) every node span covers the spans of its children
func CheckSpanInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	root := tree.Span(tree.Root)
	if root.End <= root.Start && len(tree.Children(tree.Root)) > 0 {
		return fmt.Errorf("root span is empty: %v", root)
	}

	var failure error
	tree.Walk(tree.Root, func(id ast.NodeID, _ int) bool {
		sp := tree.Span(id)
		if sp.File != sf.ID {
			failure = fmt.Errorf("node %d (%s) span file mismatch: got=%d want=%d", id, tree.Kind(id), sp.File, sf.ID)
			return false
		}
		if sp.End < sp.Start || sp.End > lenContent {
			failure = fmt.Errorf("node %d (%s) span %v outside content [0,%d)", id, tree.Kind(id), sp, lenContent)
			return false
		}
		for _, ch := range tree.Children(id) {
			csp := tree.Span(ch)
			if csp.Start < sp.Start || csp.End > sp.End {
				failure = fmt.Errorf("node %d (%s) span %v does not cover child %d (%s) span %v",
					id, tree.Kind(id), sp, ch, tree.Kind(ch), csp)
				return false
			}
		}
		return true
	})
	return failure
}
