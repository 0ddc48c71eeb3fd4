package dxf

import (
	"fmt"
	"strings"

	"github.com/dgallion1/cadboq/internal/drawing"
)

// builder turns the tags of one entity record into an entity.
type builder func(tags []Tag) (drawing.Entity, error)

var builders = map[string]builder{}

// register binds a DXF entity type name to its builder.
func register(typ string, b builder) {
	builders[typ] = b
}

func init() {
	register("LINE", buildLine)
	register("CIRCLE", buildCircle)
	register("ARC", buildArc)
	register("LWPOLYLINE", buildLWPolyline)
	register("INSERT", buildInsert)
}

// Supported reports whether typ decodes to an entity, including legacy
// POLYLINE/VERTEX sequences.
func Supported(typ string) bool {
	if _, ok := builders[typ]; ok {
		return true
	}
	return typ == "POLYLINE"
}

// floats collects the numeric values of the requested group codes; codes
// that are absent keep the DXF default of 0.
func floats(tags []Tag, codes ...int) (map[int]float64, error) {
	want := make(map[int]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	out := make(map[int]float64, len(codes))
	for _, t := range tags {
		if !want[t.Code] {
			continue
		}
		f, err := t.Float()
		if err != nil {
			return nil, err
		}
		out[t.Code] = f
	}
	return out, nil
}

func flags(tags []Tag) (int, error) {
	for _, t := range tags {
		if t.Code == 70 {
			return t.Int()
		}
	}
	return 0, nil
}

// vertexSplineFrame is the VERTEX flag (group 70) of a spline control point.
const vertexSplineFrame = 16

// inPaperSpace reports whether a record carries group 67 = 1.
func inPaperSpace(tags []Tag) bool {
	for _, t := range tags {
		if t.Code == 67 {
			return strings.TrimSpace(t.Value) == "1"
		}
	}
	return false
}

func buildLine(tags []Tag) (drawing.Entity, error) {
	v, err := floats(tags, 10, 20, 11, 21)
	if err != nil {
		return nil, err
	}
	return drawing.Line{
		Start: drawing.Point{X: v[10], Y: v[20]},
		End:   drawing.Point{X: v[11], Y: v[21]},
	}, nil
}

func buildCircle(tags []Tag) (drawing.Entity, error) {
	v, err := floats(tags, 10, 20, 40)
	if err != nil {
		return nil, err
	}
	return drawing.Circle{Center: drawing.Point{X: v[10], Y: v[20]}, Radius: v[40]}, nil
}

func buildArc(tags []Tag) (drawing.Entity, error) {
	v, err := floats(tags, 10, 20, 40, 50, 51)
	if err != nil {
		return nil, err
	}
	return drawing.Arc{
		Center:     drawing.Point{X: v[10], Y: v[20]},
		Radius:     v[40],
		StartAngle: v[50],
		EndAngle:   v[51],
	}, nil
}

// buildLWPolyline pairs each 20 with the preceding 10. Bulges (42) are
// ignored, so curved segments measure as chords.
func buildLWPolyline(tags []Tag) (drawing.Entity, error) {
	var p drawing.Polyline
	var x float64
	var haveX bool
	for _, t := range tags {
		switch t.Code {
		case 10:
			f, err := t.Float()
			if err != nil {
				return nil, err
			}
			x, haveX = f, true
		case 20:
			y, err := t.Float()
			if err != nil {
				return nil, err
			}
			if !haveX {
				return nil, fmt.Errorf("group 20 without preceding 10")
			}
			p.Vertices = append(p.Vertices, drawing.Point{X: x, Y: y})
			haveX = false
		case 70:
			f, err := t.Int()
			if err != nil {
				return nil, err
			}
			p.Closed = f&1 != 0
		}
	}
	return p, nil
}

func buildInsert(tags []Tag) (drawing.Entity, error) {
	v, err := floats(tags, 10, 20)
	if err != nil {
		return nil, err
	}
	var name string
	for _, t := range tags {
		if t.Code == 2 {
			name = t.Value
			break
		}
	}
	return drawing.BlockInsert{Name: name, Position: drawing.Point{X: v[10], Y: v[20]}}, nil
}

func vertex(tags []Tag) (drawing.Point, error) {
	v, err := floats(tags, 10, 20)
	if err != nil {
		return drawing.Point{}, err
	}
	return drawing.Point{X: v[10], Y: v[20]}, nil
}
