package vcedit

import (
	"golang.org/x/net/html"
)

// Attributes that native formatting leaves behind as a side effect.
var disallowedAttrs = []string{"class", "style"}

// Generic and line-break wrappers that never survive cleanup.
var disallowedElements = map[string]bool{
	"br":   true,
	"span": true,
	"div":  true,
}

// ruleTag is meaningful while empty.
const ruleTag = "hr"

// Normalize repairs the subtree under root after a structural mutation:
//   - class and style attributes are stripped,
//   - denylisted wrappers and whitespace-only elements are unwrapped,
//   - list items without a list parent become paragraphs,
//   - adjacent text runs are merged.
//
// Root itself is left as is. Normalize never fails and reports whether it
// changed anything; running it on its own output is a no-op.
func Normalize(root *html.Node) bool {
	changed := false
	elements := collect(Elements(root))

	removing := make(map[*html.Node]bool)
	var remove, swap []*html.Node

	for _, el := range elements {
		if mergeTextRuns(el) {
			changed = true
		}
		for _, key := range disallowedAttrs {
			if removeAttr(el, key) {
				changed = true
			}
		}
		if (el.Data != ruleTag && isBlank(textContent(el))) || disallowedElements[el.Data] {
			remove = append(remove, el)
			removing[el] = true
		}
	}

	// Orphans are judged against the parent they will have once removals land.
	for _, el := range elements {
		if el.Data != "li" || removing[el] {
			continue
		}
		parent := el.Parent
		for parent != nil && parent != root && removing[parent] {
			parent = parent.Parent
		}
		if !isElement(parent, "ul", "ol") {
			swap = append(swap, el)
		}
	}

	for _, el := range remove {
		Unwrap(el)
	}
	for _, el := range swap {
		Swap(el, "p")
	}
	if len(remove) > 0 || len(swap) > 0 {
		changed = true
	}

	if mergeTextRuns(root) {
		changed = true
	}
	for _, el := range collect(Elements(root)) {
		if mergeTextRuns(el) {
			changed = true
		}
	}
	return changed
}
