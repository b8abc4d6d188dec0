// Package render turns vdom trees into HTML.
//
// Output is deterministic: attributes are written in key order, boolean
// attributes are written bare when true and omitted when false, and event
// handler props are never rendered. Text and attribute values are escaped.
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(node)
//
// RenderPage writes a full document with the HTML5 doctype.
package render
