// Package extract measures drawing entities and aggregates them into
// per-category quantities.
package extract

import (
	"math"
	"strconv"

	"github.com/dgallion1/cadboq/internal/drawing"
)

// Result holds the aggregate quantities of one drawing. Float totals are in
// drawing units (length) or square drawing units (area).
type Result struct {
	TotalLineLength     float64 `json:"total_line_length"`
	CircleCount         int     `json:"circle_count"`
	CircleCircumference float64 `json:"circle_total_circumference"`
	ArcCount            int     `json:"arc_count"`
	ArcLength           float64 `json:"arc_total_length"`
	PolylineCount       int     `json:"polyline_count"`
	PolylineLength      float64 `json:"polyline_total_length"`
	ClosedArea          float64 `json:"closed_polyline_area"`

	DoorCount       int `json:"door_count"`
	WindowCount     int `json:"window_count"`
	ColumnCount     int `json:"column_count"`
	FurnitureCount  int `json:"furniture_count"`
	OtherBlockCount int `json:"other_block_count"`

	// Skipped counts entities that could not be measured.
	Skipped int `json:"skipped_entities"`
}

// Extract measures every entity and returns totals rounded to 2 decimals.
// A malformed entity is skipped and never invalidates the rest.
func Extract(entities []drawing.Entity) Result {
	var r Result
	for _, e := range entities {
		r.add(e)
	}
	return r.Rounded()
}

// Merge adds o's totals and counts into r field by field.
func (r *Result) Merge(o Result) {
	r.TotalLineLength += o.TotalLineLength
	r.CircleCount += o.CircleCount
	r.CircleCircumference += o.CircleCircumference
	r.ArcCount += o.ArcCount
	r.ArcLength += o.ArcLength
	r.PolylineCount += o.PolylineCount
	r.PolylineLength += o.PolylineLength
	r.ClosedArea += o.ClosedArea
	r.DoorCount += o.DoorCount
	r.WindowCount += o.WindowCount
	r.ColumnCount += o.ColumnCount
	r.FurnitureCount += o.FurnitureCount
	r.OtherBlockCount += o.OtherBlockCount
	r.Skipped += o.Skipped
}

// Rounded returns a copy with every float total rounded to 2 decimals.
func (r Result) Rounded() Result {
	r.TotalLineLength = Round2(r.TotalLineLength)
	r.CircleCircumference = Round2(r.CircleCircumference)
	r.ArcLength = Round2(r.ArcLength)
	r.PolylineLength = Round2(r.PolylineLength)
	r.ClosedArea = Round2(r.ClosedArea)
	return r
}

// BlockCount returns the total number of classified block insertions.
func (r Result) BlockCount() int {
	return r.DoorCount + r.WindowCount + r.ColumnCount + r.FurnitureCount + r.OtherBlockCount
}

// Round2 rounds v to 2 decimal places. The exact binary value is rounded,
// with ties to even, so 2.675 (stored just below) becomes 2.67.
func Round2(v float64) float64 {
	if !finite(v) {
		return v
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

func (r *Result) add(e drawing.Entity) {
	switch v := e.(type) {
	case drawing.Line:
		r.addLine(v)
	case *drawing.Line:
		r.addLine(*v)
	case drawing.Circle:
		r.addCircle(v)
	case *drawing.Circle:
		r.addCircle(*v)
	case drawing.Arc:
		r.addArc(v)
	case *drawing.Arc:
		r.addArc(*v)
	case drawing.Polyline:
		r.addPolyline(v)
	case *drawing.Polyline:
		r.addPolyline(*v)
	case drawing.BlockInsert:
		r.addInsert(v)
	case *drawing.BlockInsert:
		r.addInsert(*v)
	}
}

func (r *Result) addLine(l drawing.Line) {
	length := dist(l.Start, l.End)
	if !finite(length) {
		r.Skipped++
		return
	}
	r.TotalLineLength += length
}

func (r *Result) addCircle(c drawing.Circle) {
	if !finite(c.Radius) || c.Radius < 0 {
		r.Skipped++
		return
	}
	r.CircleCount++
	r.CircleCircumference += 2 * math.Pi * c.Radius
}

func (r *Result) addArc(a drawing.Arc) {
	length := ArcLength(a.Radius, a.StartAngle, a.EndAngle)
	if !finite(length) || length < 0 {
		r.Skipped++
		return
	}
	r.ArcCount++
	r.ArcLength += length
}

func (r *Result) addPolyline(p drawing.Polyline) {
	if len(p.Vertices) < 2 {
		r.Skipped++
		return
	}
	perimeter := Perimeter(p.Vertices, p.Closed)
	if !finite(perimeter) {
		r.Skipped++
		return
	}
	var area float64
	if p.Closed && len(p.Vertices) >= 3 {
		area = ShoelaceArea(p.Vertices)
		if !finite(area) {
			r.Skipped++
			return
		}
	}
	r.PolylineCount++
	r.PolylineLength += perimeter
	r.ClosedArea += area
}

func (r *Result) addInsert(b drawing.BlockInsert) {
	switch Classify(b.Name) {
	case CategoryDoor:
		r.DoorCount++
	case CategoryWindow:
		r.WindowCount++
	case CategoryColumn:
		r.ColumnCount++
	case CategoryFurniture:
		r.FurnitureCount++
	default:
		r.OtherBlockCount++
	}
}

// ArcLength returns the length of the counter-clockwise sweep from start to
// end (degrees). Sweeps crossing 0° wrap instead of going negative.
func ArcLength(radius, startDeg, endDeg float64) float64 {
	angle := (endDeg - startDeg) * math.Pi / 180
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return radius * angle
}

// Perimeter sums consecutive vertex distances, plus the closing segment when closed.
func Perimeter(pts []drawing.Point, closed bool) float64 {
	var total float64
	for i := 0; i+1 < len(pts); i++ {
		total += dist(pts[i], pts[i+1])
	}
	if closed && len(pts) > 1 {
		total += dist(pts[len(pts)-1], pts[0])
	}
	return total
}

// ShoelaceArea returns the unsigned area of the polygon described by pts.
func ShoelaceArea(pts []drawing.Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range n {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

func dist(a, b drawing.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
