package vdom

import "strings"

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Attribute creates an attribute with an arbitrary name.
func Attribute(key string, value any) Attr { return attr(key, value) }

// Key sets the reconciliation key. It is never rendered.
func Key(key string) Attr { return attr("key", key) }

func ID(id string) Attr { return attr("id", id) }

// Class joins classes with spaces. Empty strings are dropped.
func Class(classes ...string) Attr {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return attr("class", strings.Join(parts, " "))
}

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

func Role(role string) Attr       { return attr("role", role) }
func AriaLabel(label string) Attr { return attr("aria-label", label) }
func AriaLive(mode string) Attr   { return attr("aria-live", mode) }
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// Hidden sets the boolean hidden attribute when hide is true.
func Hidden(hide bool) Attr {
	if !hide {
		return Attr{}
	}
	return attr("hidden", true)
}

func TitleAttr(title string) Attr { return attr("title", title) }
func Lang(lang string) Attr       { return attr("lang", lang) }

// Links and media

func Href(url string) Attr      { return attr("href", url) }
func Rel(rel string) Attr       { return attr("rel", rel) }
func Target(target string) Attr { return attr("target", target) }
func Src(url string) Attr       { return attr("src", url) }
func Alt(text string) Attr      { return attr("alt", text) }
func Loading(mode string) Attr  { return attr("loading", mode) }
func Defer() Attr               { return attr("defer", true) }

// Meta

func Charset(charset string) Attr { return attr("charset", charset) }
func Content(content string) Attr { return attr("content", content) }

// Forms

func Action(url string) Attr         { return attr("action", url) }
func Method(method string) Attr      { return attr("method", method) }
func Name(name string) Attr          { return attr("name", name) }
func Value(value string) Attr        { return attr("value", value) }
func Type(t string) Attr             { return attr("type", t) }
func Placeholder(text string) Attr   { return attr("placeholder", text) }
func Required() Attr                 { return attr("required", true) }
func Disabled() Attr                 { return attr("disabled", true) }
func Autocomplete(value string) Attr { return attr("autocomplete", value) }
func For(id string) Attr             { return attr("for", id) }
