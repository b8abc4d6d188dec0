package vdom

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetText     PatchOp = 0x01 // Replace an element's text content
	PatchSetAttr     PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchReplaceNode PatchOp = 0x07 // Replace element (outerHTML)
	PatchSetValue    PatchOp = 0x08 // Set input value property
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchReplaceNode:
		return "ReplaceNode"
	case PatchSetValue:
		return "SetValue"
	default:
		return "Unknown"
	}
}

// Patch is a single DOM operation. Target is the id of the element it
// applies to; an empty Target on a ReplaceNode means the mount root.
type Patch struct {
	Op     PatchOp
	Target string
	Key    string // Attribute name for SetAttr/RemoveAttr
	Value  string
	Node   *VNode // For ReplaceNode
}
