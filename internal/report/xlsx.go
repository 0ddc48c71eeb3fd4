package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	boqSheet     = "BOQ"
	summarySheet = "Extraction"
)

// XLSX renders r as a workbook with a priced BOQ sheet and an extraction
// summary sheet. Quantities and money are stored as numbers.
func XLSX(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), boqSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]
	widths := []float64{6, 30, 50, 12, 8, 14, 16}
	for i, col := range columns {
		if err := f.SetColWidth(boqSheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}
	// Built-in number format 4 is "#,##0.00".
	numberStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("create number style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		NumFmt:    4,
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	if err := f.MergeCell(boqSheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(boqSheet, "A1", Title)
	f.SetCellStyle(boqSheet, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(boqSheet, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge source: %w", err)
	}
	f.SetCellValue(boqSheet, "A2", "Source: "+r.Source)
	f.SetCellStyle(boqSheet, "A2", lastCol+"2", subtitleStyle)

	if err := f.MergeCell(boqSheet, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(boqSheet, "A3", "Generated: "+r.date())
	f.SetCellStyle(boqSheet, "A3", lastCol+"3", subtitleStyle)

	headers := []string{"#", "Component", "Description", "Qty", "Unit", "Rate (" + r.Currency + ")", "Total (" + r.Currency + ")"}
	for i, h := range headers {
		f.SetCellValue(boqSheet, columns[i]+"5", h)
	}
	f.SetCellStyle(boqSheet, "A5", lastCol+"5", headerStyle)

	row := 6
	for _, it := range r.Items {
		n := fmt.Sprint(row)
		f.SetCellValue(boqSheet, "A"+n, it.ItemNo)
		f.SetCellValue(boqSheet, "B"+n, sanitizeExcelCell(it.Component))
		f.SetCellValue(boqSheet, "C"+n, sanitizeExcelCell(it.Description))
		f.SetCellValue(boqSheet, "D"+n, it.Quantity)
		f.SetCellValue(boqSheet, "E"+n, sanitizeExcelCell(it.Unit))
		f.SetCellValue(boqSheet, "F"+n, it.Rate)
		f.SetCellValue(boqSheet, "G"+n, it.Total)
		f.SetCellStyle(boqSheet, "A"+n, "C"+n, itemStyle)
		f.SetCellStyle(boqSheet, "D"+n, "D"+n, numberStyle)
		f.SetCellStyle(boqSheet, "E"+n, "E"+n, itemStyle)
		f.SetCellStyle(boqSheet, "F"+n, "G"+n, numberStyle)
		row++
	}

	row++
	n := fmt.Sprint(row)
	f.SetCellValue(boqSheet, "F"+n, "Grand Total")
	f.SetCellValue(boqSheet, "G"+n, r.GrandTotal)
	f.SetCellStyle(boqSheet, "F"+n, "G"+n, totalStyle)
	f.SetCellValue(boqSheet, fmt.Sprintf("A%d", row+2), ItemsLabel(len(r.Items)))

	if err := writeSummarySheet(f, r, headerStyle, itemStyle, numberStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, r *Report, headerStyle, labelStyle, numberStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 32); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 16); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}

	f.SetCellValue(summarySheet, "A1", "Measurement")
	f.SetCellValue(summarySheet, "B1", "Value")
	f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)

	for i, m := range Measurements(r.Summary) {
		n := fmt.Sprint(i + 2)
		f.SetCellValue(summarySheet, "A"+n, m.Label)
		f.SetCellValue(summarySheet, "B"+n, m.Value)
		f.SetCellStyle(summarySheet, "A"+n, "A"+n, labelStyle)
		f.SetCellStyle(summarySheet, "B"+n, "B"+n, numberStyle)
	}
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
