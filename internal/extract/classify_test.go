package extract

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"DOOR", CategoryDoor},
		{"Single_Door_900", CategoryDoor},
		{"door-chair", CategoryDoor},
		{"MainEntrance", CategoryDoor},
		{"GATE_2", CategoryDoor},
		{"D-01", CategoryDoor},
		{"WINDOW", CategoryWindow},
		{"w-1200", CategoryWindow},
		{"Casement_WD", CategoryWindow},
		{"COLUMN_300", CategoryColumn},
		{"pillar", CategoryColumn},
		{"Pier-A", CategoryColumn},
		{"office_chair", CategoryFurniture},
		{"Sofa", CategoryFurniture},
		{"CABINET", CategoryFurniture},
		{"Bed_Queen", CategoryFurniture},
		{"NorthArrow", CategoryOther},
		{"", CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.name); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassify_SubstringQuirks(t *testing.T) {
	// Short patterns match inside unrelated words; the first category wins.
	tests := []struct {
		name string
		want Category
	}{
		{"Drain", CategoryDoor},      // "dr"
		{"Twin_Bed", CategoryWindow}, // "win" beats "bed"
		{"Colour_Key", CategoryColumn},
	}
	for _, tt := range tests {
		if got := Classify(tt.name); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
