package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestCreateSphere(t *testing.T) {
	g := CreateSphere(2, 16, 8)

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got, want := len(g.Vertices), 17*9; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	if got, want := len(g.Indices), 16*8*6; got != want {
		t.Errorf("index count = %d, want %d", got, want)
	}
	if g.Radius != 2 {
		t.Errorf("Radius = %v, want 2", g.Radius)
	}
	for i, v := range g.Vertices {
		if !approx(v.Normal.Length(), 1) {
			t.Fatalf("vertex %d: normal length %v", i, v.Normal.Length())
		}
		if !approx(v.Position.Length(), 2) {
			t.Fatalf("vertex %d: position length %v", i, v.Position.Length())
		}
	}
}

func TestCreateSphereFacesOutward(t *testing.T) {
	g := CreateSphere(1, 12, 6)
	for i := 0; i < len(g.Indices); i += 3 {
		a := g.Vertices[g.Indices[i]].Position
		b := g.Vertices[g.Indices[i+1]].Position
		c := g.Vertices[g.Indices[i+2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		if n.LengthSqr() < 1e-10 {
			continue // degenerate pole triangle
		}
		centroid := a.Add(b).Add(c)
		if n.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d winds inward", i/3)
		}
	}
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name string
		geom *Geometry
	}{
		{"nil", nil},
		{"empty", &Geometry{}},
		{"no indices", &Geometry{Vertices: CreateSphere(1, 3, 2).Vertices}},
		{"out of range", &Geometry{Vertices: CreateSphere(1, 3, 2).Vertices, Indices: []uint32{0, 1, 1000}}},
		{"partial triangle", &Geometry{Vertices: CreateSphere(1, 3, 2).Vertices, Indices: []uint32{0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.geom.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadGeometryGLTF(t *testing.T) {
	doc := gltf.NewDocument()
	positions := [][3]float32{{0, 0, 0}, {3, 0, 0}, {0, 4, 0}}
	indices := []uint32{0, 1, 2}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, positions),
			},
		}},
	}}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	g, err := LoadGeometryGLTF(path)
	if err != nil {
		t.Fatalf("LoadGeometryGLTF: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if g.Radius != 4 {
		t.Errorf("Radius = %v, want 4", g.Radius)
	}
	// No NORMAL attribute: normals are rebuilt from the faces.
	for i, v := range g.Vertices {
		if !approx(v.Normal.Z, 1) {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}
}

func TestLoadGeometryGLTFMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.glb")
	if _, err := os.Stat(path); err == nil {
		t.Fatal("test file unexpectedly exists")
	}
	if _, err := LoadGeometryGLTF(path); err == nil {
		t.Error("expected an error for a missing file")
	}
}
