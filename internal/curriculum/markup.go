package curriculum

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	unitClass  = "ramo"
	groupClass = "semestre"
)

// ParseMarkup reads unit declarations from HTML markup.
//
// A unit is any element with class "ramo" and a data-id attribute. Its
// data-unlocks attribute holds the successor IDs. The label is the element
// text. The group comes from the nearest ancestor with class "semestre":
// its first heading, or else its data-group attribute.
func ParseMarkup(r io.Reader) ([]Declaration, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	var decls []Declaration
	var walk func(n *html.Node, group string)
	walk = func(n *html.Node, group string) {
		if n.Type == html.ElementNode {
			if hasClass(n, groupClass) {
				group = groupTitle(n)
			}
			if hasClass(n, unitClass) {
				if id := strings.TrimSpace(attr(n, "data-id")); id != "" {
					decls = append(decls, Declaration{
						ID:      id,
						Label:   textContent(n),
						Group:   group,
						Unlocks: attr(n, "data-unlocks"),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, group)
		}
	}
	walk(doc, "")

	return decls, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(strings.Fields(attr(n, "class")), class)
}

// groupTitle returns the first heading text below n, or its data-group.
func groupTitle(n *html.Node) string {
	var heading *html.Node
	var find func(*html.Node)
	find = func(c *html.Node) {
		for ; c != nil && heading == nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				switch c.DataAtom {
				case atom.H1, atom.H2, atom.H3, atom.H4:
					heading = c
					return
				}
				if hasClass(c, unitClass) {
					continue
				}
				find(c.FirstChild)
			}
		}
	}
	find(n.FirstChild)

	if heading != nil {
		if t := textContent(heading); t != "" {
			return t
		}
	}
	return strings.TrimSpace(attr(n, "data-group"))
}

// textContent returns the whitespace-collapsed text of n and its descendants.
func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			collect(cc)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
