package rates

// Category keys of the built-in table.
const (
	KeyWallConduits      = "wall_conduits"
	KeyWiringRuns        = "wiring_runs"
	KeyDoors             = "doors"
	KeyWindows           = "windows"
	KeyFloorArea         = "floor_area"
	KeyCeilingRuns       = "ceiling_runs"
	KeyCircularElements  = "circular_elements"
	KeyArcElements       = "arc_elements"
	KeyPolylinePerimeter = "polyline_perimeter"
	KeyColumns           = "columns"
	KeyFurniture         = "furniture"
)

// Approximate INR defaults from regional schedule-of-rates averages.
var defaultEntries = []Entry{
	{KeyWallConduits, "Wall Conduits / Linear Runs", "Electrical conduit runs extracted from CAD line entities", "m", 250},
	{KeyWiringRuns, "Wiring Runs", "Internal wiring runs (1.5 sq mm copper, PVC insulated)", "m", 120},
	{KeyDoors, "Doors", "Standard flush doors identified from CAD block references", "nos", 8500},
	{KeyWindows, "Windows", "Standard aluminium sliding windows from CAD block references", "nos", 6000},
	{KeyFloorArea, "Floor / Slab Area", "RCC slab work area calculated from closed polyline regions", "m²", 3200},
	{KeyCeilingRuns, "Ceiling Framework", "False ceiling framing runs from CAD linear entities", "m", 180},
	{KeyCircularElements, "Circular Fittings", "Circular elements (columns, pillars, round fittings) from CAD circles", "nos", 1500},
	{KeyArcElements, "Curved Sections", "Curved/arc sections measured from CAD arc entities", "m", 350},
	{KeyPolylinePerimeter, "Perimeter Measurements", "Boundary perimeters calculated from CAD polyline entities", "m", 200},
	{KeyColumns, "Columns", "Structural columns identified from CAD block references", "nos", 12000},
	{KeyFurniture, "Furniture Items", "Furniture blocks identified from CAD block references", "nos", 5000},
}

// Default returns the built-in rate table.
func Default() *StaticTable {
	t, err := New(defaultEntries)
	if err != nil {
		panic("rates: invalid built-in table: " + err.Error())
	}
	return t
}
