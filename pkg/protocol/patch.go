package protocol

import (
	"fmt"

	"github.com/wishlane/landing/pkg/render"
	"github.com/wishlane/landing/pkg/vdom"
)

// Patch op names on the wire.
const (
	OpText    = "text"
	OpAttr    = "attr"
	OpRemove  = "rmattr"
	OpReplace = "replace"
	OpValue   = "value"
)

// Patch is the wire form of a vdom.Patch. Replacements carry rendered HTML.
type Patch struct {
	Op     string `json:"op"`
	Target string `json:"id,omitempty"`
	Key    string `json:"k,omitempty"`
	Value  string `json:"v,omitempty"`
	HTML   string `json:"html,omitempty"`
}

// EncodePatches converts vdom patches to wire patches, rendering the nodes
// of ReplaceNode patches with r.
func EncodePatches(r *render.Renderer, patches []vdom.Patch) ([]Patch, error) {
	out := make([]Patch, 0, len(patches))
	for _, p := range patches {
		wp := Patch{Target: p.Target, Key: p.Key, Value: p.Value}
		switch p.Op {
		case vdom.PatchSetText:
			wp.Op = OpText
		case vdom.PatchSetAttr:
			wp.Op = OpAttr
		case vdom.PatchRemoveAttr:
			wp.Op = OpRemove
		case vdom.PatchSetValue:
			wp.Op = OpValue
		case vdom.PatchReplaceNode:
			wp.Op = OpReplace
			html, err := r.RenderToString(p.Node)
			if err != nil {
				return nil, fmt.Errorf("render replacement for %q: %w", p.Target, err)
			}
			wp.HTML = html
		default:
			return nil, fmt.Errorf("protocol: unsupported patch op %s", p.Op)
		}
		out = append(out, wp)
	}
	return out, nil
}
