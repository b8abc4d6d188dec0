package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <form>, etc.
	KindText                  // Escaped text
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a node of the tree.
type VNode struct {
	Kind     VKind
	Tag      string
	Props    Props
	Children []*VNode
	Key      string // Set by the "key" attribute, never rendered
	Text     string // For KindText and KindRaw
}

// Props holds element attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty reports whether the attribute has no key and should be skipped.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// ElementID returns the element's id attribute, or "" if it has none.
func (v *VNode) ElementID() string {
	if v == nil || v.Kind != KindElement {
		return ""
	}
	id, _ := v.Props["id"].(string)
	return id
}

// FindByID returns the first element in the subtree whose id is id.
func (v *VNode) FindByID(id string) *VNode {
	if v == nil || id == "" {
		return nil
	}
	if v.ElementID() == id {
		return v
	}
	for _, child := range v.Children {
		if found := child.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates the text of every text descendant.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	if v.Kind == KindText {
		return v.Text
	}
	var out string
	for _, child := range v.Children {
		out += child.TextContent()
	}
	return out
}
