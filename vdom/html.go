package vdom

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToHTML converts the VNode tree into an x/net/html node tree. Text always
// becomes a text node and attribute values stay attribute values, so nothing
// interpolated from state is ever parsed as markup.
func ToHTML(v *VNode) *html.Node {
	if v == nil {
		return nil
	}
	if v.Tag == TextTag {
		return &html.Node{Type: html.TextNode, Data: v.Content}
	}

	n := &html.Node{
		Type:     html.ElementNode,
		Data:     v.Tag,
		DataAtom: atom.Lookup([]byte(v.Tag)),
		Attr:     attributesOf(v),
	}

	switch v.Tag {
	case "input":
		// The value travels as an attribute; void elements have no children.
		if v.Content != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "value", Val: v.Content})
		}
		return n
	default:
		if v.Content != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: v.Content})
		}
	}

	for _, child := range v.Children {
		if c := ToHTML(child); c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

// attributesOf returns the attributes in sorted key order so identical trees
// serialize identically.
func attributesOf(v *VNode) []html.Attribute {
	if len(v.Attributes) == 0 {
		return nil
	}
	attrs := make([]html.Attribute, 0, len(v.Attributes))
	for _, key := range slices.Sorted(maps.Keys(v.Attributes)) {
		val, ok := AttributeString(v.Attributes[key])
		if !ok {
			continue
		}
		attrs = append(attrs, html.Attribute{Key: key, Val: val})
	}
	return attrs
}

// AttributeString renders an attribute value. Boolean attributes are present
// with an empty value when true and omitted when false; functions are never
// rendered.
func AttributeString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case bool:
		return "", v
	case string:
		return v, true
	case func():
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// RenderHTML writes the escaped HTML serialization of the tree to w.
func RenderHTML(w io.Writer, v *VNode) error {
	n := ToHTML(v)
	if n == nil {
		return nil
	}
	if err := html.Render(w, n); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// HTMLString is RenderHTML into a string. Rendering into memory cannot fail
// for trees produced by this package, so errors are folded into the output.
func HTMLString(v *VNode) string {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, v); err != nil {
		return "<!-- " + html.EscapeString(err.Error()) + " -->"
	}
	return buf.String()
}

// Escape is the escaping primitive used for text that is assembled outside a
// VNode tree, such as confirmation prompts mirrored into logs.
func Escape(text string) string {
	return html.EscapeString(text)
}
