package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewMeshTree builds a tree of triangles from indexed faces. Degenerate faces
// are dropped and counted; an index outside vertices is an error.
func NewMeshTree(vertices []core.Vec3, faces [][3]int) (*Tree, int, error) {
	tree := NewTree()
	skipped := 0

	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return nil, skipped, fmt.Errorf("face %d: vertex index %d out of range [0, %d)", i, idx, len(vertices))
			}
		}

		p1, p2, p3 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		if geometry.IsDegenerateTriangle(p1, p2, p3) {
			skipped++
			continue
		}
		tree.AddShape(geometry.NewTriangle(p1, p2, p3))
	}

	return tree, skipped, nil
}

// pyramidMesh returns a square pyramid centred on the origin
func pyramidMesh(baseSize, height float64) ([]core.Vec3, [][3]int) {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		core.NewVec3(-halfBase, -halfHeight, -halfBase), // 0: left-back
		core.NewVec3(+halfBase, -halfHeight, -halfBase), // 1: right-back
		core.NewVec3(+halfBase, -halfHeight, +halfBase), // 2: right-front
		core.NewVec3(-halfBase, -halfHeight, +halfBase), // 3: left-front
		core.NewVec3(0, +halfHeight, 0),                 // 4: apex
	}

	faces := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // base
		{0, 1, 4},
		{1, 2, 4},
		{2, 3, 4},
		{3, 0, 4},
	}
	return vertices, faces
}

// icosahedronMesh returns a unit-circumradius icosahedron centred on the origin
func icosahedronMesh() ([]core.Vec3, [][3]int) {
	phi := 1.618033988749895
	raw := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0), core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi), core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1), core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}
	vertices := make([]core.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = v.Normalize()
	}

	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return vertices, faces
}
