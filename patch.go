package vcedit

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ApplyDelta replays the changes in 'delta' onto the subtree under root,
// typically a mirror of the surface the delta was recorded on.
func ApplyDelta(root *html.Node, delta Delta) error {
	// 1. Verify Hash
	currentHash, err := HashNode(root)
	if err != nil {
		return fmt.Errorf("failed to hash base: %w", err)
	}
	if currentHash != delta.BaseHash {
		return fmt.Errorf("base hash mismatch: expected %s, got %s", delta.BaseHash, currentHash)
	}

	for i, op := range delta.Operations {
		if err := applyOp(root, op); err != nil {
			return fmt.Errorf("failed to apply op %d (%s): %w", i, op.Type, err)
		}
	}
	return nil
}

func applyOp(root *html.Node, op Operation) error {
	switch op.Type {
	case OpUpdateText:
		node, err := GetNode(root, op.Path)
		if err != nil {
			return err
		}
		if node.Type != html.TextNode {
			return fmt.Errorf("target node for UPDATE_TEXT is not a text node (type=%d)", node.Type)
		}
		if node.Data != op.OldValue {
			return fmt.Errorf("UPDATE_TEXT old value mismatch: want '%s', got '%s'", op.OldValue, node.Data)
		}
		node.Data = op.NewValue

	case OpUpdateAttr, OpRemoveAttr:
		node, err := GetNode(root, op.Path)
		if err != nil {
			return err
		}
		if node.Type != html.ElementNode {
			return fmt.Errorf("target node for %s is not an element node", op.Type)
		}
		if op.Type == OpRemoveAttr {
			removeAttr(node, op.Key)
		} else {
			setAttr(node, op.Key, op.NewValue)
		}

	case OpInsertNode:
		// Path is the parent
		parent, err := GetNode(root, op.Path)
		if err != nil {
			return err
		}
		newNode, err := parseOne(op.NodeData, parent)
		if err != nil || newNode == nil {
			return err
		}
		insertChildAt(parent, newNode, op.Position)

	case OpReplaceNode:
		node, err := GetNode(root, op.Path)
		if err != nil {
			return err
		}
		if node.Parent == nil {
			return errors.New("cannot replace root node or orphan")
		}
		newNode, err := parseOne(op.NodeData, node.Parent)
		if err != nil {
			return err
		}
		if newNode != nil {
			node.Parent.InsertBefore(newNode, node)
		}
		node.Parent.RemoveChild(node)

	case OpDeleteNode:
		node, err := GetNode(root, op.Path)
		if err != nil {
			return err
		}
		if node.Parent == nil {
			return errors.New("cannot delete root node or orphan")
		}
		node.Parent.RemoveChild(node)

	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return nil
}

// parseOne parses node data in the context of parent and returns the first
// resulting node, or nil when the data parses to nothing.
func parseOne(data string, parent *html.Node) (*html.Node, error) {
	context := parent
	if parent.Type != html.ElementNode {
		context = newElement("body")
	}
	nodes, err := html.ParseFragment(strings.NewReader(data), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse node data: %w", err)
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}
