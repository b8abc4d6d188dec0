package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Diff compares two trees and returns the patches that turn prev into next.
//
// Patches address elements by id. A change that cannot be expressed on an
// element with an id (added or removed children, a changed tag, attribute
// changes on an anonymous element) replaces the nearest ancestor that has
// one. When no ancestor has an id the whole tree is replaced with a single
// ReplaceNode patch whose Target is empty.
func Diff(prev, next *VNode) []Patch {
	if prev == nil && next == nil {
		return nil
	}
	var patches []Patch
	if diffNode(prev, next, &patches) {
		return []Patch{{Op: PatchReplaceNode, Node: next}}
	}
	return patches
}

// diffNode appends patches for prev→next and reports whether the change is
// structural and must be handled by an ancestor.
func diffNode(prev, next *VNode, patches *[]Patch) bool {
	if prev == nil && next == nil {
		return false
	}
	if prev == nil || next == nil || prev.Kind != next.Kind {
		return true
	}

	switch prev.Kind {
	case KindText, KindRaw:
		return prev.Text != next.Text
	case KindFragment:
		return diffChildren(prev, next, "", patches)
	case KindElement:
		return diffElement(prev, next, patches)
	}
	return false
}

func diffElement(prev, next *VNode, patches *[]Patch) bool {
	if prev.Tag != next.Tag {
		return true
	}
	id := prev.ElementID()
	if next.ElementID() != id {
		return true
	}

	var local []Patch
	structural := false

	attrPatches := diffProps(prev, next, id)
	if len(attrPatches) > 0 {
		if id == "" {
			structural = true
		} else {
			local = append(local, attrPatches...)
		}
	}

	if !structural && diffChildren(prev, next, id, &local) {
		structural = true
	}

	if !structural {
		*patches = append(*patches, local...)
		return false
	}
	if id == "" {
		return true
	}
	*patches = append(*patches, Patch{
		Op:     PatchReplaceNode,
		Target: id,
		Node:   next,
	})
	return false
}

// diffChildren compares children pairwise. A lone text child of an element
// with an id becomes a SetText patch.
func diffChildren(prev, next *VNode, id string, patches *[]Patch) bool {
	if len(prev.Children) != len(next.Children) {
		return true
	}
	if !keysMatch(prev.Children, next.Children) {
		return true
	}

	for i, pc := range prev.Children {
		nc := next.Children[i]
		if pc.Kind == KindText && nc.Kind == KindText {
			if pc.Text == nc.Text {
				continue
			}
			if id != "" && len(prev.Children) == 1 {
				*patches = append(*patches, Patch{
					Op:     PatchSetText,
					Target: id,
					Value:  nc.Text,
				})
				continue
			}
			return true
		}
		if diffNode(pc, nc, patches) {
			return true
		}
	}
	return false
}

func keysMatch(prev, next []*VNode) bool {
	for i := range prev {
		if prev[i].Key != next[i].Key {
			return false
		}
	}
	return true
}

// diffProps returns attribute patches in key order. A false boolean is the
// same as an absent attribute.
func diffProps(prev, next *VNode, id string) []Patch {
	keys := make(map[string]struct{}, len(prev.Props)+len(next.Props))
	for k := range prev.Props {
		keys[k] = struct{}{}
	}
	for k := range next.Props {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		if isEventHandler(k) {
			continue
		}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var patches []Patch
	for _, key := range sorted {
		pv, hadPrev := present(prev.Props, key)
		nv, hasNext := present(next.Props, key)

		switch {
		case hadPrev && !hasNext:
			patches = append(patches, Patch{Op: PatchRemoveAttr, Target: id, Key: key})
		case hasNext && (!hadPrev || !propsEqual(pv, nv)):
			op := PatchSetAttr
			if key == "value" && next.Tag == "input" {
				op = PatchSetValue
			}
			patches = append(patches, Patch{Op: op, Target: id, Key: key, Value: propToString(nv)})
		}
	}
	return patches
}

func present(props Props, key string) (any, bool) {
	v, ok := props[key]
	if !ok || v == nil {
		return nil, false
	}
	if b, isBool := v.(bool); isBool && !b {
		return nil, false
	}
	return v, true
}

func isEventHandler(key string) bool {
	return strings.HasPrefix(key, "on")
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	}
	return reflect.DeepEqual(a, b)
}

// propToString converts a prop value to its attribute text. Boolean true
// renders as the empty string, the HTML form of a present boolean attribute.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return ""
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
