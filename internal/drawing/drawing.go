package drawing

// Point is a 2D coordinate in drawing units.
type Point struct {
	X float64
	Y float64
}

// Entity is one decoded drawing entity. The set of variants is closed:
// Line, Circle, Arc, Polyline and BlockInsert.
type Entity interface {
	// Kind returns the DXF-style type name, e.g. "LINE".
	Kind() string
	entity()
}

// Line is a straight segment.
type Line struct {
	Start Point
	End   Point
}

// Circle is a full circle. Only the radius matters for measurement.
type Circle struct {
	Center Point
	Radius float64
}

// Arc is a circular arc swept counter-clockwise from StartAngle to EndAngle.
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64 // degrees
	EndAngle   float64 // degrees
}

// Polyline is an ordered vertex chain, optionally closed back to its first vertex.
type Polyline struct {
	Vertices []Point
	Closed   bool
}

// BlockInsert is a placed instance of a named block (door, window, furniture symbol...).
type BlockInsert struct {
	Name     string
	Position Point
}

func (Line) Kind() string        { return "LINE" }
func (Circle) Kind() string      { return "CIRCLE" }
func (Arc) Kind() string         { return "ARC" }
func (Polyline) Kind() string    { return "LWPOLYLINE" }
func (BlockInsert) Kind() string { return "INSERT" }

func (Line) entity()        {}
func (Circle) entity()      {}
func (Arc) entity()         {}
func (Polyline) entity()    {}
func (BlockInsert) entity() {}

// Drawing is a decoded drawing: its source name and entity stream.
type Drawing struct {
	Name     string   // Source filename without extension
	Entities []Entity // Model-space entities in file order
}

// CountByKind tallies entities per Kind, used for summaries and logging.
func (d *Drawing) CountByKind() map[string]int {
	counts := make(map[string]int)
	for _, e := range d.Entities {
		counts[e.Kind()]++
	}
	return counts
}
