package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`

func TestParseOBJQuad(t *testing.T) {
	g, err := parseOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(g.Vertices) != 4 || len(g.Indices) != 6 {
		t.Fatalf("got %d vertices, %d indices", len(g.Vertices), len(g.Indices))
	}
	for i, v := range g.Vertices {
		if v.Normal.Z < 0.99 {
			t.Errorf("vertex %d normal = %+v, want +Z", i, v.Normal)
		}
	}
	if g.Vertices[2].UV.X != 1 || g.Vertices[2].UV.Y != 1 {
		t.Errorf("uv = %+v", g.Vertices[2].UV)
	}
	if d := g.Radius - 1.41421; d < -1e-4 || d > 1e-4 {
		t.Errorf("radius = %v", g.Radius)
	}
}

func TestParseOBJNegativeIndicesAndNormals(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 -1\nf -3//1 -2//1 -1//1\n"
	g, err := parseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(g.Vertices) != 3 {
		t.Fatalf("got %d vertices", len(g.Vertices))
	}
	if g.Vertices[0].Normal.Z != -1 {
		t.Errorf("file normal not kept: %+v", g.Vertices[0].Normal)
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := map[string]string{
		"empty":        "# nothing\n",
		"bad float":    "v 0 x 0\n",
		"out of range": "v 0 0 0\nf 1 2 3\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
	}
	for name, src := range tests {
		if _, err := parseOBJ(strings.NewReader(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadGeometryByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.OBJ")
	if err := os.WriteFile(path, []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadGeometry(path)
	if err != nil {
		t.Fatalf("LoadGeometry: %v", err)
	}
	if g.Name != path || len(g.Indices) != 6 {
		t.Errorf("got %q with %d indices", g.Name, len(g.Indices))
	}
	if _, err := LoadGeometry(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("missing glb: expected error")
	}
}
