// Package report renders a priced bill of quantities as Markdown, HTML,
// plain text, JSON, XLSX, PDF or DOCX.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/cadboq/internal/boq"
	"github.com/dgallion1/cadboq/internal/extract"
)

// Title heads every rendering.
const Title = "Bill of Quantities"

// Report is everything a rendering needs.
type Report struct {
	Source      string         `json:"source"`
	GeneratedAt time.Time      `json:"generated_at"`
	Currency    string         `json:"currency"`
	Items       []boq.LineItem `json:"boq"`
	GrandTotal  float64        `json:"grand_total"`
	Summary     extract.Result `json:"summary"`
}

// New builds a Report and computes its grand total.
func New(source string, items []boq.LineItem, summary extract.Result, currency string, now time.Time) *Report {
	if items == nil {
		items = []boq.LineItem{}
	}
	if currency == "" {
		currency = RupeeSymbol
	}
	return &Report{
		Source:      source,
		GeneratedAt: now,
		Currency:    currency,
		Items:       items,
		GrandTotal:  boq.GrandTotal(items),
		Summary:     summary,
	}
}

func (r *Report) date() string {
	return r.GeneratedAt.Format("02 Jan 2006 15:04 MST")
}

// Format is an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatText     Format = "txt"
	FormatXLSX     Format = "xlsx"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatMarkdown, FormatHTML, FormatText, FormatXLSX, FormatPDF, FormatDOCX}

var contentTypes = map[Format]string{
	FormatJSON:     "application/json",
	FormatMarkdown: "text/markdown; charset=utf-8",
	FormatHTML:     "text/html; charset=utf-8",
	FormatText:     "text/plain; charset=utf-8",
	FormatXLSX:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:      "application/pdf",
	FormatDOCX:     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	if f == "markdown" {
		f = FormatMarkdown
	}
	if f == "text" {
		f = FormatText
	}
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("unknown report format %q", s)
	}
	return f, nil
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	return contentTypes[f]
}

// Binary reports whether f is not printable text.
func (f Format) Binary() bool {
	return f == FormatXLSX || f == FormatPDF || f == FormatDOCX
}

// FileName is the download name for r rendered as f.
func (r *Report) FileName(f Format) string {
	base := filepath.Base(r.Source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "drawing"
	}
	return base + "-boq." + string(f)
}

// Render encodes r as f.
func Render(r *Report, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	case FormatMarkdown:
		return Markdown(r), nil
	case FormatHTML:
		return HTML(r)
	case FormatText:
		return Text(r)
	case FormatXLSX:
		return XLSX(r)
	case FormatPDF:
		return PDF(r)
	case FormatDOCX:
		return DOCX(r)
	default:
		return nil, fmt.Errorf("unknown report format %q", f)
	}
}
