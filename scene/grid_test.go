package scene

import (
	"testing"

	"pbr-viewer/math"
)

func TestGridCells(t *testing.T) {
	g := NewGrid(1)
	cells := g.Cells()
	if len(cells) != 25 {
		t.Fatalf("cell count = %d, want 25", len(cells))
	}

	// Centered: the middle cell sits on the origin, corners are symmetric.
	mid := cells[12]
	if mid.Row != 2 || mid.Column != 2 || mid.Translation.Length() > 1e-6 {
		t.Errorf("middle cell = %+v", mid)
	}
	first, last := cells[0].Translation, cells[24].Translation
	if first.Add(last).Length() > 1e-6 {
		t.Errorf("corners not symmetric: %v %v", first, last)
	}
	if first.X != -5 || first.Y != -5 {
		t.Errorf("first cell = %v, want (-5,-5,0)", first)
	}

	tests := []struct {
		idx                  int
		roughness, metalness float32
	}{
		{0, 0.01, 0.01},
		{4, 4*0.18 + 0.01, 0.01},
		{20, 0.01, 4*0.23 + 0.01},
	}
	for _, tt := range tests {
		c := cells[tt.idx]
		if !approx(c.Roughness, tt.roughness) || !approx(c.Metalness, tt.metalness) {
			t.Errorf("cell %d: roughness=%v metalness=%v, want %v %v",
				tt.idx, c.Roughness, c.Metalness, tt.roughness, tt.metalness)
		}
	}

	if m := cells[0].Model(); m[3][0] != first.X || m[3][1] != first.Y {
		t.Errorf("Model translation = %v", m[3])
	}
}

func TestPointLight(t *testing.T) {
	l := NewPointLight(math.Vec3Zero)
	l.SetColorRGB(255, 0, 0)
	if l.Color.R != 1 || l.Color.G != 0 {
		t.Errorf("SetColorRGB: %+v", l.Color)
	}
	l.SetIntensity(-3)
	if l.Intensity != 0 {
		t.Errorf("SetIntensity(-3) = %v, want 0", l.Intensity)
	}
	l.SetPosition(8, 0, 9)
	if l.PositionWS.X != 8 || l.PositionWS.Z != 9 {
		t.Errorf("SetPosition: %v", l.PositionWS)
	}
}

func TestMaterialClamps(t *testing.T) {
	m := DefaultMaterial()
	m.SetRoughness(2)
	m.SetMetalness(-1)
	if m.Roughness != 1 || m.Metalness != 0 {
		t.Errorf("clamps: roughness=%v metalness=%v", m.Roughness, m.Metalness)
	}
}
