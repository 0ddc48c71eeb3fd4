package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/cadboq/internal/boq"
	"github.com/dgallion1/cadboq/internal/extract"
	"github.com/dgallion1/cadboq/internal/rates"
	"github.com/fumiama/go-docx"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	summary := extract.Result{TotalLineLength: 20, CircleCount: 1, CircleCircumference: 12.57, DoorCount: 1}
	items := boq.Assemble(summary, rates.Default())
	if len(items) != 3 {
		t.Fatalf("expected 3 sample items, got %d", len(items))
	}
	return New("plan.dxf", items, summary, RupeeSymbol, time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC))
}

func TestNew(t *testing.T) {
	r := sampleReport(t)
	if r.GrandTotal != 15000 {
		t.Errorf("expected grand total 15000, got %v", r.GrandTotal)
	}
	empty := New("x.dxf", nil, extract.Result{}, "", time.Now())
	if empty.Items == nil || empty.Currency != RupeeSymbol {
		t.Errorf("expected non-nil items and default currency, got %+v", empty)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"xlsx", FormatXLSX, false},
		{".PDF", FormatPDF, false},
		{"markdown", FormatMarkdown, false},
		{"text", FormatText, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
	if !FormatDOCX.Binary() || FormatHTML.Binary() {
		t.Error("unexpected Binary classification")
	}
	if FormatJSON.ContentType() != "application/json" {
		t.Errorf("unexpected content type %q", FormatJSON.ContentType())
	}
}

func TestFileName(t *testing.T) {
	r := &Report{Source: "uploads/Ground Floor.dwg"}
	if got := r.FileName(FormatXLSX); got != "Ground Floor-boq.xlsx" {
		t.Errorf("unexpected file name %q", got)
	}
	if got := (&Report{}).FileName(FormatPDF); got != "drawing-boq.pdf" {
		t.Errorf("unexpected fallback file name %q", got)
	}
}

func TestRender_JSON(t *testing.T) {
	b, err := Render(sampleReport(t), FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		Source     string          `json:"source"`
		Items      []boq.LineItem  `json:"boq"`
		GrandTotal float64         `json:"grand_total"`
		Summary    extract.Result  `json:"summary"`
		Raw        json.RawMessage `json:"generated_at"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Source != "plan.dxf" || len(got.Items) != 3 || got.GrandTotal != 15000 || got.Summary.DoorCount != 1 {
		t.Errorf("unexpected json report: %+v", got)
	}
	if got.Items[0].ItemNo != 1 || got.Items[2].Key != rates.KeyDoors {
		t.Errorf("unexpected item order: %+v", got.Items)
	}
}

func TestMarkdown(t *testing.T) {
	out := string(Markdown(sampleReport(t)))
	for _, want := range []string{
		"# Bill of Quantities",
		"**Source:** plan.dxf",
		"| 01 | Wall Conduits / Linear Runs |",
		"| 03 | Doors |",
		"₹8,500.00",
		"**₹15,000.00**",
		"3 line items extracted",
		"| Circle circumference | 12.57 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q\n%s", want, out)
		}
	}
}

func TestMarkdown_EscapesCells(t *testing.T) {
	r := sampleReport(t)
	r.Items[0].Component = "Pipe | duct"
	out := string(Markdown(r))
	if !strings.Contains(out, `Pipe \| duct`) {
		t.Errorf("pipe not escaped:\n%s", out)
	}
}

func TestMarkdown_NoItems(t *testing.T) {
	out := string(Markdown(New("empty.dxf", nil, extract.Result{}, RupeeSymbol, time.Now())))
	if strings.Contains(out, "| # |") {
		t.Error("expected no BOQ table for an empty report")
	}
	if !strings.Contains(out, "0 line items extracted") {
		t.Errorf("missing item label:\n%s", out)
	}
}

func TestHTML(t *testing.T) {
	out, err := HTML(sampleReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)
	for _, want := range []string{"<!DOCTYPE html>", "<table>", "<h1>Bill of Quantities</h1>", "Wall Conduits / Linear Runs", "<strong>₹15,000.00</strong>"} {
		if !strings.Contains(s, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestHTML_SourceIsEscaped(t *testing.T) {
	r := sampleReport(t)
	r.Source = "<script>alert(1)</script>.dxf"
	out, err := HTML(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Error("source name was not escaped")
	}
}

func TestText(t *testing.T) {
	out, err := Text(sampleReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		"Bill of Quantities\n==================",
		"Source: plan.dxf\nGenerated: 17 Oct 2026 09:30 UTC",
		"3 line items extracted",
		"Extraction summary\n------------------",
		"Rates are estimates.",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("text missing %q\n%s", want, s)
		}
	}
	if strings.Contains(s, "<") {
		t.Errorf("text still contains markup:\n%s", s)
	}
}

func TestPlainText_Table(t *testing.T) {
	src := `<html><head><title>x</title><style>td{}</style></head><body>
<h2>Items</h2>
<table><thead><tr><th>#</th><th>Name</th></tr></thead>
<tbody><tr><td>1</td><td>Doors</td></tr><tr><td>10</td><td>Windows</td></tr></tbody></table>
<p>done</p></body></html>`
	got, err := PlainText(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Items\n-----\n\n" +
		"#   Name\n" +
		"-----------\n" +
		"1   Doors\n" +
		"10  Windows\n\n" +
		"done\n"
	if got != want {
		t.Errorf("unexpected plain text:\n%q\nwant:\n%q", got, want)
	}
}

func TestXLSX(t *testing.T) {
	b, err := XLSX(sampleReport(t))
	if err != nil {
		t.Fatalf("XLSX() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "BOQ" || sheets[1] != "Extraction" {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	checks := map[string]string{
		"A1": "Bill of Quantities",
		"A2": "Source: plan.dxf",
		"B5": "Component",
		"A6": "1",
		"B6": "Wall Conduits / Linear Runs",
		"B8": "Doors",
		"G6": "5000",
		"G8": "8500",
		"F10": "Grand Total",
		"G10": "15000",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("BOQ", cell, excelize.Options{RawCellValue: true})
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s: expected %q, got %q", cell, want, got)
		}
	}

	label, _ := f.GetCellValue("Extraction", "A2")
	if label != "Total line length" {
		t.Errorf("unexpected summary label %q", label)
	}
}

func TestXLSX_SanitizesFormulas(t *testing.T) {
	r := sampleReport(t)
	r.Items[0].Component = "=HYPERLINK(\"http://x\")"
	b, err := XLSX(r)
	if err != nil {
		t.Fatalf("XLSX() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, _ := f.GetCellValue("BOQ", "B6")
	if !strings.HasPrefix(got, "'=") {
		t.Errorf("expected quoted formula, got %q", got)
	}
}

func TestPDF(t *testing.T) {
	b, err := PDF(sampleReport(t))
	if err != nil {
		t.Fatalf("PDF() error = %v", err)
	}
	if len(b) < 5 || string(b[:5]) != "%PDF-" {
		t.Fatalf("result does not start with PDF header")
	}
	rd, err := pdflib.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("result is not a readable PDF: %v", err)
	}
	if rd.NumPage() < 1 {
		t.Errorf("expected at least one page, got %d", rd.NumPage())
	}
}

func TestPDF_EmptyItems(t *testing.T) {
	b, err := PDF(New("empty.dxf", nil, extract.Result{}, RupeeSymbol, time.Now()))
	if err != nil {
		t.Fatalf("PDF() error = %v", err)
	}
	if len(b) == 0 {
		t.Fatal("PDF() returned empty bytes")
	}
}

func TestDOCX(t *testing.T) {
	b, err := DOCX(sampleReport(t))
	if err != nil {
		t.Fatalf("DOCX() error = %v", err)
	}
	doc, err := docx.Parse(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("result is not a readable docx: %v", err)
	}

	var paras []string
	var tables []string
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			paras = append(paras, v.String())
		case *docx.Table:
			tables = append(tables, v.String())
		}
	}
	if len(paras) == 0 || paras[0] != "Bill of Quantities" {
		t.Errorf("expected title paragraph first, got %q", paras)
	}
	if len(tables) != 1 {
		t.Fatalf("expected one table, got %d", len(tables))
	}
	for _, want := range []string{"Wall Conduits / Linear Runs", "Doors", "Grand Total", "₹15,000.00"} {
		if !strings.Contains(tables[0], want) {
			t.Errorf("table missing %q:\n%s", want, tables[0])
		}
	}
}

func TestRender_AllFormats(t *testing.T) {
	r := sampleReport(t)
	for _, f := range Formats {
		b, err := Render(r, f)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", f, err)
			continue
		}
		if len(b) == 0 {
			t.Errorf("%s: empty output", f)
		}
	}
	if _, err := Render(r, Format("csv")); err == nil {
		t.Error("expected error for unknown format")
	}
}
