package scene

import "pbr-viewer/math"

// GridCell is one sphere of the material grid. Roughness grows along the
// columns and metalness along the rows.
type GridCell struct {
	Row, Column int
	Translation math.Vec3
	Roughness   float32
	Metalness   float32
}

// Model returns the local-to-world transform of the cell.
func (c GridCell) Model() math.Mat4 {
	return math.Mat4Translation(c.Translation)
}

type Grid struct {
	Rows    int
	Columns int
	Spacing float32
}

// NewGrid lays out a 5x5 grid for spheres of the given radius.
func NewGrid(radius float32) Grid {
	return Grid{Rows: 5, Columns: 5, Spacing: radius * 2.5}
}

// Cells returns the cells row by row, centered on the origin in the z = 0 plane.
func (g Grid) Cells() []GridCell {
	cells := make([]GridCell, 0, g.Rows*g.Columns)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Columns; c++ {
			cells = append(cells, GridCell{
				Row:    r,
				Column: c,
				Translation: math.Vec3{
					X: (float32(c)-float32(g.Columns)*0.5)*g.Spacing + g.Spacing*0.5,
					Y: (float32(r)-float32(g.Rows)*0.5)*g.Spacing + g.Spacing*0.5,
				},
				Roughness: float32(c)*0.18 + 0.01,
				Metalness: float32(r)*0.23 + 0.01,
			})
		}
	}
	return cells
}
