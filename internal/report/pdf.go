package report

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	greyText   = &props.Color{Red: 80, Green: 80, Blue: 80}
	headerFill = &props.Color{Red: 33, Green: 37, Blue: 41}
	stripeFill = &props.Color{Red: 245, Green: 245, Blue: 245}
	totalFill  = &props.Color{Red: 240, Green: 240, Blue: 240}
)

// PDF renders r as a landscape A4 document.
func PDF(r *Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	pdfHeader(m, r)
	pdfTableHeader(m)
	for i, it := range r.Items {
		var style *props.Cell
		if i%2 == 1 {
			style = &props.Cell{BackgroundColor: stripeFill}
		}
		pdfRow(m, style,
			fmt.Sprint(it.ItemNo),
			it.Component,
			it.Description,
			FormatQty(it.Quantity),
			it.Unit,
			FormatMoney(it.Rate, r.Currency),
			FormatTotal(it.Total, r.Currency),
		)
	}
	pdfSummary(m, r)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// pdfColumns are the grid widths of #, Component, Description, Qty, Unit, Rate, Total.
var pdfColumns = []int{1, 2, 4, 1, 1, 1, 2}

func pdfHeader(m core.Maroto, r *Report) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New("Source: "+r.Source, props.Text{Size: 9, Align: align.Left, Color: greyText}),
			),
			col.New(6).Add(
				text.New("Generated: "+r.date(), props.Text{Size: 9, Align: align.Right, Color: greyText}),
			),
		),
	)
	m.AddRows(row.New(4))
}

func pdfTableHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	cell := &props.Cell{BackgroundColor: headerFill}

	labels := []string{"#", "Component", "Description", "Qty", "Unit", "Rate", "Total"}
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		cols[i] = col.New(pdfColumns[i]).Add(text.New(l, headerText)).WithStyle(cell)
	}
	m.AddRows(row.New(8).Add(cols...))
}

func pdfRow(m core.Maroto, style *props.Cell, values ...string) {
	base := props.Text{Size: 8, Align: align.Center, Top: 1}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	aligns := []props.Text{base, left, left, right, base, right, right}
	cols := make([]core.Col, len(values))
	for i, v := range values {
		c := col.New(pdfColumns[i]).Add(text.New(v, aligns[i]))
		if style != nil {
			c = c.WithStyle(style)
		}
		cols[i] = c
	}
	m.AddRows(row.New(8).Add(cols...))
}

func pdfSummary(m core.Maroto, r *Report) {
	m.AddRows(row.New(6))

	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	cell := &props.Cell{BackgroundColor: totalFill}
	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(text.New("Grand Total", bold)).WithStyle(cell),
			col.New(4).Add(text.New(FormatMoney(r.GrandTotal, r.Currency), bold)).WithStyle(cell),
		),
	)
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(text.New(ItemsLabel(len(r.Items)), props.Text{Size: 8, Align: align.Left, Color: greyText, Top: 2})),
		),
	)
}
