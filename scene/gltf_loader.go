package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"pbr-viewer/core"
	"pbr-viewer/math"
)

// LoadGeometryGLTF opens a .glb or .gltf file and merges every triangle
// primitive of every mesh into a single Geometry. Node transforms, materials
// and textures are ignored: the grid supplies its own.
func LoadGeometryGLTF(path string) (*Geometry, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	geom := &Geometry{Name: path}
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := appendGLTFPrimitive(doc, geom, prim); err != nil {
				return nil, fmt.Errorf("gltf mesh %d prim %d: %w", mi, pi, err)
			}
		}
	}
	if len(geom.Vertices) == 0 {
		return nil, fmt.Errorf("gltf %q: no triangle primitives", path)
	}

	geom.Radius = boundingRadius(geom.Vertices)
	return geom, nil
}

func appendGLTFPrimitive(doc *gltf.Document, geom *Geometry, prim *gltf.Primitive) error {
	// Positions are required
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("uvs: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	base := uint32(len(geom.Vertices))
	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		verts[i].Position = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
		if i < len(normals) {
			n := normals[i]
			verts[i].Normal = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		if i < len(uvs) {
			verts[i].UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
	}
	if len(normals) == 0 {
		smoothNormals(verts, indices)
	}

	geom.Vertices = append(geom.Vertices, verts...)
	for _, idx := range indices {
		geom.Indices = append(geom.Indices, base+idx)
	}
	return nil
}

// smoothNormals accumulates area-weighted face normals per vertex.
func smoothNormals(verts []core.Vertex, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(verts) || int(b) >= len(verts) || int(c) >= len(verts) {
			continue
		}
		e1 := verts[b].Position.Sub(verts[a].Position)
		e2 := verts[c].Position.Sub(verts[a].Position)
		n := e1.Cross(e2)
		verts[a].Normal = verts[a].Normal.Add(n)
		verts[b].Normal = verts[b].Normal.Add(n)
		verts[c].Normal = verts[c].Normal.Add(n)
	}
	for i := range verts {
		verts[i].Normal = verts[i].Normal.Normalize()
	}
}
