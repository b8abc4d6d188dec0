package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/wishlane/landing/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty indents block elements. Development only.
	Pretty bool

	// Indent is used per level in pretty mode. Defaults to two spaces.
	Indent string
}

// Renderer renders VNode trees to HTML. It holds no per-render state and
// is safe for concurrent use.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	ew := &errWriter{w: w}
	r.renderNode(ew, node, 0)
	return ew.err
}

// RenderPage writes the doctype followed by the tree.
func (r *Renderer) RenderPage(w io.Writer, node *vdom.VNode) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return r.RenderToWriter(w, node)
}

// errWriter remembers the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (r *Renderer) renderNode(w *errWriter, node *vdom.VNode, depth int) {
	if node == nil || w.err != nil {
		return
	}

	switch node.Kind {
	case vdom.KindElement:
		r.renderElement(w, node, depth)
	case vdom.KindText:
		w.write(escapeHTML(node.Text))
	case vdom.KindFragment:
		for _, child := range node.Children {
			r.renderNode(w, child, depth)
		}
	case vdom.KindRaw:
		w.write(node.Text)
	default:
		w.err = fmt.Errorf("render: unknown node kind %d", node.Kind)
	}
}

func (r *Renderer) renderElement(w *errWriter, node *vdom.VNode, depth int) {
	tag := node.Tag
	if tag == "" {
		w.err = fmt.Errorf("render: element without tag")
		return
	}

	if r.config.Pretty && depth > 0 && !isInlineElement(tag) {
		w.write(strings.Repeat(r.config.Indent, depth))
	}

	w.write("<" + tag)
	r.renderAttributes(w, node)
	w.write(">")

	if vdom.IsVoidElement(tag) {
		r.newline(w, tag)
		return
	}

	block := r.config.Pretty && hasBlockChild(node)
	if block {
		w.write("\n")
	}
	for _, child := range node.Children {
		r.renderNode(w, child, depth+1)
	}
	if block {
		w.write(strings.Repeat(r.config.Indent, depth))
	}

	w.write("</" + tag + ">")
	r.newline(w, tag)
}

func (r *Renderer) newline(w *errWriter, tag string) {
	if r.config.Pretty && !isInlineElement(tag) {
		w.write("\n")
	}
}

// renderAttributes writes attributes in key order.
func (r *Renderer) renderAttributes(w *errWriter, node *vdom.VNode) {
	if len(node.Props) == 0 {
		return
	}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		// Handlers live on the server; they are never attributes.
		if strings.HasPrefix(key, "on") || key == "key" {
			continue
		}

		switch v := node.Props[key].(type) {
		case nil:
			continue
		case bool:
			if v {
				w.write(" " + key)
			} else if strings.HasPrefix(key, "aria-") {
				w.write(" " + key + `="false"`)
			}
		case string:
			w.write(" " + key + `="` + escapeAttr(v) + `"`)
		case int:
			w.write(" " + key + `="` + strconv.Itoa(v) + `"`)
		case float64:
			w.write(" " + key + `="` + strconv.FormatFloat(v, 'f', -1, 64) + `"`)
		default:
			w.write(" " + key + `="` + escapeAttr(fmt.Sprint(v)) + `"`)
		}
	}
}

// hasBlockChild reports whether pretty mode should break lines inside node.
func hasBlockChild(node *vdom.VNode) bool {
	for _, child := range node.Children {
		if child.Kind == vdom.KindElement && !isInlineElement(child.Tag) {
			return true
		}
	}
	return false
}

var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "button": true, "code": true,
	"em": true, "i": true, "img": true, "input": true, "label": true,
	"small": true, "span": true, "strong": true, "title": true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}
