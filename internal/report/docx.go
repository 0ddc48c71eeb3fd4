package report

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

// DOCX renders r as a Word document with a single BOQ table.
func DOCX(r *Report) ([]byte, error) {
	f := docx.New().WithDefaultTheme()

	title := f.AddParagraph().Justification("center")
	title.AddText(Title).Bold().Size("32")

	f.AddParagraph().AddText("Source: " + r.Source).Size("20")
	f.AddParagraph().AddText("Generated: " + r.date()).Size("20").Color("555555")

	headers := []string{"#", "Component", "Description", "Qty", "Unit", "Rate", "Total"}
	tbl := f.AddTable(len(r.Items)+2, len(headers), 0, nil)
	for i, h := range headers {
		tbl.TableRows[0].TableCells[i].Shade("clear", "auto", "D9D9D9").AddParagraph().AddText(h).Bold()
	}
	for i, it := range r.Items {
		cells := tbl.TableRows[i+1].TableCells
		values := []string{
			fmt.Sprint(it.ItemNo),
			it.Component,
			it.Description,
			FormatQty(it.Quantity),
			it.Unit,
			FormatMoney(it.Rate, r.Currency),
			FormatTotal(it.Total, r.Currency),
		}
		for j, v := range values {
			p := cells[j].AddParagraph()
			if j >= 3 && j != 4 {
				p.Justification("end")
			}
			p.AddText(v)
		}
	}
	last := tbl.TableRows[len(r.Items)+1].TableCells
	last[1].AddParagraph().AddText("Grand Total").Bold()
	last[len(last)-1].AddParagraph().Justification("end").AddText(FormatMoney(r.GrandTotal, r.Currency)).Bold()
	// Word rejects cells without a paragraph.
	for _, c := range last {
		if len(c.Paragraphs) == 0 {
			c.AddParagraph()
		}
	}

	f.AddParagraph().AddText(ItemsLabel(len(r.Items))).Italic()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}
