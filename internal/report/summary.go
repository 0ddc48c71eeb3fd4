package report

import "github.com/dgallion1/cadboq/internal/extract"

// Measurement is one labelled figure of an extraction summary.
type Measurement struct {
	Label string
	Value float64
}

// Measurements lists every figure in s, priced or not, in display order.
func Measurements(s extract.Result) []Measurement {
	return []Measurement{
		{"Total line length", s.TotalLineLength},
		{"Circles", float64(s.CircleCount)},
		{"Circle circumference", s.CircleCircumference},
		{"Arcs", float64(s.ArcCount)},
		{"Arc length", s.ArcLength},
		{"Polylines", float64(s.PolylineCount)},
		{"Polyline perimeter", s.PolylineLength},
		{"Closed polyline area", s.ClosedArea},
		{"Doors", float64(s.DoorCount)},
		{"Windows", float64(s.WindowCount)},
		{"Columns", float64(s.ColumnCount)},
		{"Furniture", float64(s.FurnitureCount)},
		{"Other blocks", float64(s.OtherBlockCount)},
		{"Skipped entities", float64(s.Skipped)},
	}
}
