// Package vdom is the in-memory node tree the landing page is built from.
//
// Sections are plain functions returning *VNode trees. The same tree is
// rendered to HTML by package render and, for live widgets, diffed against
// its previous version to produce patches for the browser.
//
// # Element API
//
// Elements are created with variadic constructors:
//
//	Div(Class("card"), ID("plan"),
//	    H2(Text("Plan")),
//	    P(Text("Everything you need")),
//	)
//
// Arguments may be attributes (Attr, []Attr), children (*VNode, []*VNode),
// plain strings (text children) or nil, which is ignored so that
// conditional children can be written inline with If.
//
// # Diffing
//
// Diff targets elements by their id attribute. Attribute and text changes
// on an element that carries an id become fine-grained patches; any other
// change is folded into a replacement of the nearest ancestor with an id.
package vdom
