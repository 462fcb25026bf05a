// Package htmltree implements dom.Document over a parsed HTML page so the
// reconciler can run outside a browser.
package htmltree

import (
	"bytes"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/folio/app/dom"
	"golang.org/x/net/html"
)

var (
	_ dom.Document = (*Document)(nil)
	_ dom.Element  = (*Element)(nil)
)

type Document struct {
	doc *goquery.Document
}

func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

func (d *Document) QuerySelector(selector string) (dom.Element, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Element{sel: sel}, true
}

// Find exposes the underlying selection for read-only inspection.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

func (d *Document) Render(w io.Writer) error {
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
	}
	return nil
}

func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Element wraps a single node. Hidden elements carry the boolean hidden
// attribute.
type Element struct {
	sel *goquery.Selection
}

func (e *Element) Node() *html.Node {
	return e.sel.Get(0)
}

func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *Element) SetAttr(name, value string) {
	e.sel.SetAttr(name, value)
}

func (e *Element) SetHidden(hidden bool) {
	if hidden {
		e.sel.SetAttr("hidden", "")
		return
	}
	e.sel.RemoveAttr("hidden")
}

func (e *Element) Hidden() bool {
	_, ok := e.sel.Attr("hidden")
	return ok
}

func (e *Element) AppendChild(child dom.Element) {
	c, ok := child.(*Element)
	if !ok {
		return
	}

	n := c.Node()
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	e.Node().AppendChild(n)
}

func (e *Element) QuerySelectorAll(selector string) []dom.Element {
	found := e.sel.Find(selector)
	out := make([]dom.Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{sel: s})
	})
	return out
}
