package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pbr-viewer/core"
	"pbr-viewer/math"
)

// LoadGeometry picks the loader from the file extension: .obj, or glTF for
// anything else.
func LoadGeometry(path string) (*Geometry, error) {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		return LoadGeometryOBJ(path)
	}
	return LoadGeometryGLTF(path)
}

// LoadGeometryOBJ parses a Wavefront .obj file. All objects and groups are
// merged; materials are ignored.
func LoadGeometryOBJ(path string) (*Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	geom, err := parseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	geom.Name = path
	return geom, nil
}

// objRef is one face corner: 0-based position, uv and normal indices, -1
// when absent.
type objRef struct{ v, vt, vn int }

func parseOBJ(r io.Reader) (*Geometry, error) {
	var (
		positions []math.Vec3
		normals   []math.Vec3
		uvs       []math.Vec2
		corners   []objRef
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v", "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			p := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
			if fields[0] == "v" {
				positions = append(positions, p)
			} else {
				normals = append(normals, p)
			}

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			uvs = append(uvs, math.Vec2{X: v[0], Y: v[1]})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face with %d vertices", line, len(fields)-1)
			}
			refs := make([]objRef, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				ref, err := parseOBJRef(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				refs = append(refs, ref)
			}
			// Fan triangulation.
			for i := 1; i+1 < len(refs); i++ {
				corners = append(corners, refs[0], refs[i], refs[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(corners) == 0 {
		return nil, fmt.Errorf("no faces")
	}

	geom := &Geometry{}
	seen := make(map[objRef]uint32)
	for _, c := range corners {
		if idx, ok := seen[c]; ok {
			geom.Indices = append(geom.Indices, idx)
			continue
		}
		v := core.Vertex{Position: positions[c.v]}
		if c.vn >= 0 {
			v.Normal = normals[c.vn]
		}
		if c.vt >= 0 {
			v.UV = uvs[c.vt]
		}
		idx := uint32(len(geom.Vertices))
		geom.Vertices = append(geom.Vertices, v)
		geom.Indices = append(geom.Indices, idx)
		seen[c] = idx
	}

	if len(normals) == 0 {
		smoothNormals(geom.Vertices, geom.Indices)
	}
	geom.Radius = boundingRadius(geom.Vertices)
	return geom, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseOBJRef parses "v", "v/vt", "v//vn" or "v/vt/vn". OBJ indices are
// 1-based; negative indices count back from the end.
func parseOBJRef(tok string, nv, nvt, nvn int) (objRef, error) {
	ref := objRef{v: -1, vt: -1, vn: -1}
	parts := strings.Split(tok, "/")
	counts := [3]int{nv, nvt, nvn}
	dst := [3]*int{&ref.v, &ref.vt, &ref.vn}
	for i, s := range parts {
		if i >= 3 {
			break
		}
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return ref, fmt.Errorf("bad index %q", tok)
		}
		if n < 0 {
			n += counts[i]
		} else {
			n--
		}
		if n < 0 || n >= counts[i] {
			return ref, fmt.Errorf("index %q out of range", tok)
		}
		*dst[i] = n
	}
	if ref.v < 0 {
		return ref, fmt.Errorf("face vertex %q without position", tok)
	}
	return ref, nil
}
