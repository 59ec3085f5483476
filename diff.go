package vcedit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/net/html"
)

// Diff calculates the operations needed to transform the subtree under
// 'before' into the one under 'after'. The two roots are taken to be the same
// node; only their attributes and descendants are compared.
//
// Paths in the result refer to the tree as it is when the operation before
// them has been applied, so operations must be replayed in order.
func Diff(before, after *html.Node) ([]Operation, error) {
	var ops []Operation
	ops = append(ops, diffAttributes(before, after, NodePath{})...)
	childOps, err := diffChildren(before, after, NodePath{})
	if err != nil {
		return nil, err
	}
	return append(ops, childOps...), nil
}

// HashNode returns the sha256 of the rendering of n's children.
func HashNode(n *html.Node) (string, error) {
	s, err := InnerHTML(n)
	if err != nil {
		return "", err
	}
	return hashString(s), nil
}

func hashString(s string) string {
	h := sha256.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// diffNodes compares two nodes at the same path.
func diffNodes(oldNode, newNode *html.Node, path NodePath) ([]Operation, error) {
	// Different type, tag or comment text: the whole node is replaced.
	if oldNode.Type != newNode.Type || (oldNode.Type != html.TextNode && oldNode.Data != newNode.Data) {
		nodeHTML, err := RenderNode(newNode)
		if err != nil {
			return nil, fmt.Errorf("failed to render node at %v: %w", path, err)
		}
		return []Operation{{
			Type:     OpReplaceNode,
			Path:     path,
			NodeData: nodeHTML,
		}}, nil
	}

	var ops []Operation
	switch oldNode.Type {
	case html.ElementNode:
		ops = append(ops, diffAttributes(oldNode, newNode, path)...)
	case html.TextNode:
		if oldNode.Data != newNode.Data {
			ops = append(ops, Operation{
				Type:     OpUpdateText,
				Path:     path,
				OldValue: oldNode.Data,
				NewValue: newNode.Data,
			})
		}
	}

	childOps, err := diffChildren(oldNode, newNode, path)
	if err != nil {
		return nil, err
	}
	return append(ops, childOps...), nil
}

// diffAttributes emits updates for changed or added attributes and removals
// for missing ones. Attribute order follows the new node so the result is
// deterministic.
func diffAttributes(oldNode, newNode *html.Node, path NodePath) []Operation {
	var ops []Operation
	oldAttrs := make(map[string]string)
	for _, a := range oldNode.Attr {
		oldAttrs[a.Key] = a.Val
	}
	newAttrs := make(map[string]string)
	for _, a := range newNode.Attr {
		newAttrs[a.Key] = a.Val
	}

	for _, a := range oldNode.Attr {
		if _, exists := newAttrs[a.Key]; !exists {
			ops = append(ops, Operation{
				Type:     OpRemoveAttr,
				Path:     path,
				Key:      a.Key,
				OldValue: a.Val,
			})
		}
	}
	for _, a := range newNode.Attr {
		vOld, exists := oldAttrs[a.Key]
		if exists && vOld == a.Val {
			continue
		}
		ops = append(ops, Operation{
			Type:     OpUpdateAttr,
			Path:     path,
			Key:      a.Key,
			OldValue: vOld,
			NewValue: a.Val,
		})
	}
	return ops
}

// diffChildren compares lists of children with a simple index-based
// comparison. Insertions in the middle show up as a run of changes followed
// by an append, which is correct if not minimal.
func diffChildren(oldNode, newNode *html.Node, parentPath NodePath) ([]Operation, error) {
	var ops []Operation

	oldChildren := getChildrenList(oldNode)
	newChildren := getChildrenList(newNode)
	commonLen := min(len(oldChildren), len(newChildren))

	for i := 0; i < commonLen; i++ {
		childPath := append(append(NodePath(nil), parentPath...), i)
		childOps, err := diffNodes(oldChildren[i], newChildren[i], childPath)
		if err != nil {
			return nil, err
		}
		ops = append(ops, childOps...)
	}

	// Delete from the end so earlier indices stay valid.
	for i := len(oldChildren) - 1; i >= commonLen; i-- {
		ops = append(ops, Operation{
			Type: OpDeleteNode,
			Path: append(append(NodePath(nil), parentPath...), i),
		})
	}

	for i := commonLen; i < len(newChildren); i++ {
		nodeHTML, err := RenderNode(newChildren[i])
		if err != nil {
			return nil, err
		}
		ops = append(ops, Operation{
			Type:     OpInsertNode,
			Path:     append(NodePath(nil), parentPath...),
			Position: i,
			NodeData: nodeHTML,
		})
	}

	return ops, nil
}

func getChildrenList(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	return children
}
