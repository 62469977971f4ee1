package configs

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// refNode is one level of the synthetic variable tree handed to the
// expression evaluator.
type refNode struct {
	children map[string]*refNode
	ref      string
}

func (n *refNode) value() cty.Value {
	if len(n.children) == 0 {
		return cty.StringVal(n.ref)
	}
	attrs := make(map[string]cty.Value, len(n.children))
	for name, child := range n.children {
		attrs[name] = child.value()
	}
	return cty.ObjectVal(attrs)
}

// referenceValues builds the variable scope for evaluating a resource
// block body. There are no real variables in this language: every
// traversal mentioned in the configuration evaluates to its own
// interpolation string, so aws_vpc.main.id simply becomes the opaque
// placeholder "${aws_vpc.main.id}" and flows through as an ordinary
// string value.
func referenceValues(vars []hcl.Traversal) map[string]cty.Value {
	roots := make(map[string]*refNode)

	for _, traversal := range vars {
		root, ok := traversal[0].(hcl.TraverseRoot)
		if !ok {
			continue
		}
		node := roots[root.Name]
		if node == nil {
			node = &refNode{children: make(map[string]*refNode)}
			roots[root.Name] = node
		}

		parts := []string{root.Name}
		for _, step := range traversal[1:] {
			attr, ok := step.(hcl.TraverseAttr)
			if !ok {
				break
			}
			parts = append(parts, attr.Name)
			child := node.children[attr.Name]
			if child == nil {
				child = &refNode{children: make(map[string]*refNode)}
				node.children[attr.Name] = child
			}
			node = child
		}
		node.ref = fmt.Sprintf("${%s}", strings.Join(parts, "."))
	}

	out := make(map[string]cty.Value, len(roots))
	for name, node := range roots {
		out[name] = node.value()
	}
	return out
}
