package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Text renders r as plain text by flattening its HTML rendering.
func Text(r *Report) ([]byte, error) {
	rendered, err := HTML(r)
	if err != nil {
		return nil, err
	}
	s, err := PlainText(bytes.NewReader(rendered))
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// PlainText flattens an HTML document: headings are underlined, paragraphs
// separated by blank lines, and tables laid out in aligned columns.
func PlainText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "head", "script", "style":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				t := textContent(n)
				if t != "" {
					ch := "-"
					if n.Data == "h1" {
						ch = "="
					}
					blocks = append(blocks, t+"\n"+strings.Repeat(ch, utf8.RuneCountInString(t)))
				}
				return
			case "p", "li", "blockquote", "footer":
				if t := textContent(n); t != "" {
					blocks = append(blocks, t)
				}
				return
			case "table":
				if t := layoutTable(tableRows(n)); t != "" {
					blocks = append(blocks, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(blocks) == 0 {
		return "", nil
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

// textContent joins descendant text, keeping explicit line breaks and
// collapsing other whitespace.
func textContent(n *html.Node) string {
	var lines []string
	var cur strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			cur.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			lines = append(lines, cur.String())
			cur.Reset()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	lines = append(lines, cur.String())

	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func tableRows(n *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, textContent(c))
				}
			}
			rows = append(rows, cells)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return rows
}

// layoutTable pads columns to equal width and rules off the header row.
func layoutTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	var b strings.Builder
	for ri, row := range rows {
		var line strings.Builder
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(cell)
			line.WriteString(strings.Repeat(" ", w-utf8.RuneCountInString(cell)))
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
		if ri == 0 {
			total := 0
			for _, w := range widths {
				total += w
			}
			b.WriteString(strings.Repeat("-", total+2*(len(widths)-1)))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
