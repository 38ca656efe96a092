package vdom

// VNode represents a virtual DOM node.
type VNode struct {
	Tag        string         // The HTML tag name, or "#text" for a bare text node
	Attributes map[string]any // The attributes of the node
	Children   []*VNode       // The child nodes
	Content    string         // Text content; the value for input and textarea
}

// TextTag marks a VNode that renders as a plain text node.
const TextTag = "#text"

// NewVNode creates a new VNode.
func NewVNode(tag string, attributes map[string]any, children []*VNode, content string) *VNode {
	return &VNode{
		Tag:        tag,
		Attributes: attributes,
		Children:   compact(children),
		Content:    content,
	}
}

// compact drops nil children so conditional helpers can return nil.
func compact(children []*VNode) []*VNode {
	out := children[:0:0]
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ID returns the node's id attribute, if any.
func (v *VNode) ID() string {
	if v == nil || v.Attributes == nil {
		return ""
	}
	id, _ := v.Attributes["id"].(string)
	return id
}

// Find returns the first node in the tree with the given id.
func (v *VNode) Find(id string) *VNode {
	if v == nil {
		return nil
	}
	if v.ID() == id {
		return v
	}
	for _, child := range v.Children {
		if found := child.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every node depth first until fn returns false.
func (v *VNode) Walk(fn func(*VNode) bool) bool {
	if v == nil {
		return true
	}
	if !fn(v) {
		return false
	}
	for _, child := range v.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Text creates a bare text node.
func Text(text string) *VNode {
	return &VNode{Tag: TextTag, Content: text}
}

// Paragraph creates a <p> VNode with the given text as its child and allows passing attributes.
func Paragraph(text string, attrs map[string]any) *VNode {
	return NewVNode("p", attrs, nil, text)
}

// Span creates a <span> VNode with the given text.
func Span(text string, attrs map[string]any) *VNode {
	return NewVNode("span", attrs, nil, text)
}

// Heading creates an <hN> VNode.
func Heading(level int, text string, attrs map[string]any) *VNode {
	if level < 1 || level > 6 {
		level = 2
	}
	return NewVNode("h"+string(rune('0'+level)), attrs, nil, text)
}

// Label creates a <label> bound to the control with id forID.
func Label(forID, text string) *VNode {
	return NewVNode("label", map[string]any{"for": forID}, nil, text)
}

// InputText returns a VNode representing an <input type="text"> element.
// Optionally accepts a map of attributes (e.g., {"placeholder": "Type here"}).
func InputText(value string, attrs map[string]any) *VNode {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	attrs["type"] = "text"
	return NewVNode("input", attrs, nil, value)
}

// InputNumber returns a VNode representing an <input type="number"> element.
func InputNumber(value string, attrs map[string]any) *VNode {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	attrs["type"] = "number"
	return NewVNode("input", attrs, nil, value)
}

// TextArea returns a <textarea> holding value.
func TextArea(value string, attrs map[string]any) *VNode {
	return NewVNode("textarea", attrs, nil, value)
}

// Div creates a <div> VNode with the given children and allows passing attributes.
func Div(attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("div", attrs, children, "")
}

// Section creates a <section> VNode.
func Section(attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("section", attrs, children, "")
}

// Form creates a <form> VNode.
func Form(attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("form", attrs, children, "")
}

// Button creates a <button> VNode with the given children and allows passing attributes.
// Buttons default to type="button" so they never submit an enclosing form by accident.
func Button(content string, attrs map[string]any, children ...*VNode) *VNode {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	if _, ok := attrs["type"]; !ok {
		attrs["type"] = "button"
	}
	return NewVNode("button", attrs, children, content)
}

// If returns n when cond holds and nil otherwise.
func If(cond bool, n *VNode) *VNode {
	if cond {
		return n
	}
	return nil
}
