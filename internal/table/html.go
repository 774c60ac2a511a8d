package table

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"bill_split/internal/split"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element ids used by the page.
const (
	SplitTableID  = "split_table"
	TotalsTableID = "totals_table"
)

// ParseHTML reads the table with the given id out of an HTML document or
// fragment. An empty id selects the first table. Cells holding checkboxes
// (or marked data-type="checks") become checkbox groups; every other cell
// becomes its trimmed text.
func ParseHTML(r io.Reader, id string) (Grid, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	tbl := findTable(doc, id)
	if tbl == nil {
		return nil, ErrTableNotFound
	}

	var g Grid
	for _, tr := range collectRows(tbl) {
		g = append(g, parseRow(tr))
	}
	return g, nil
}

// findTable finds the first table element with the given id.
func findTable(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table && (id == "" || attr(n, "id") == id) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTable(c, id); found != nil {
			return found
		}
	}
	return nil
}

// collectRows returns the rows of tbl in document order, across thead,
// tbody and tfoot, without descending into nested tables.
func collectRows(tbl *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			}
		}
	}
	walk(tbl)
	return rows
}

func parseRow(tr *html.Node) Row {
	var row Row
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			row = append(row, parseCell(c))
		}
	}
	return row
}

func parseCell(td *html.Node) Cell {
	var checks []bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Input && strings.EqualFold(attr(n, "type"), "checkbox") {
			checks = append(checks, hasAttr(n, "checked"))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(td)

	if checks != nil || attr(td, "data-type") == string(TypeChecks) {
		if checks == nil {
			checks = []bool{}
		}
		return GroupCell(checks)
	}
	return TextCell(textContent(td))
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// RenderHTML writes g as the editable split table. Item cells and person
// headers are contenteditable and carry the data-type their validator is
// keyed by.
func RenderHTML(w io.Writer, g Grid) error {
	tbl := element(atom.Table, html.Attribute{Key: "id", Val: SplitTableID})

	if header := g.Header(); header != nil {
		thead := element(atom.Thead)
		tr := element(atom.Tr)
		for col, c := range header {
			th := element(atom.Th)
			if col >= FirstPersonCol {
				th.Attr = editable(TypePerson)
			}
			th.AppendChild(text(c.Text))
			tr.AppendChild(th)
		}
		thead.AppendChild(tr)
		tbl.AppendChild(thead)
	}

	tbody := element(atom.Tbody)
	for i := 1; i < len(g); i++ {
		tr := element(atom.Tr)
		for col, c := range g[i] {
			tr.AppendChild(renderCell(col, c))
		}
		tbody.AppendChild(tr)
	}
	tbl.AppendChild(tbody)

	return html.Render(w, tbl)
}

func renderCell(col int, c Cell) *html.Node {
	td := element(atom.Td)
	if c.IsGroup {
		td.Attr = []html.Attribute{{Key: "data-type", Val: string(TypeChecks)}}
		for u, checked := range c.Checks {
			input := element(atom.Input,
				html.Attribute{Key: "type", Val: "checkbox"},
				html.Attribute{Key: "data-unit", Val: strconv.Itoa(u)},
			)
			if checked {
				input.Attr = append(input.Attr, html.Attribute{Key: "checked"})
			}
			td.AppendChild(input)
		}
		return td
	}

	if kind := ColumnTypeAt(col); kind != TypePerson {
		td.Attr = editable(kind)
	}
	td.AppendChild(text(c.Text))
	return td
}

// RenderTotalsHTML writes the Name/Total table for t.
func RenderTotalsHTML(w io.Writer, t split.Totals) error {
	tbl := element(atom.Table, html.Attribute{Key: "id", Val: TotalsTableID})

	thead := element(atom.Thead)
	tr := element(atom.Tr)
	for _, h := range []string{"Name", "Total"} {
		th := element(atom.Th)
		th.AppendChild(text(h))
		tr.AppendChild(th)
	}
	thead.AppendChild(tr)
	tbl.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, s := range t.Shares() {
		tr := element(atom.Tr)
		for _, v := range []string{s.Name, s.Formatted()} {
			td := element(atom.Td)
			td.AppendChild(text(v))
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	tbl.AppendChild(tbody)

	return html.Render(w, tbl)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func editable(kind ColumnType) []html.Attribute {
	return []html.Attribute{
		{Key: "contenteditable", Val: "true"},
		{Key: "data-type", Val: string(kind)},
	}
}
