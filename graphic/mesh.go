package graphic

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// SphereRadius is the radius of the undisplaced mesh.
	SphereRadius = 4
	// SphereDetail is the number of extra subdivisions per icosahedron edge.
	SphereDetail = 15
)

// Mesh is an indexed wireframe on a sphere. Normals point away from the
// origin, so they equal the normalized vertex positions.
type Mesh struct {
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
	Edges    [][2]uint32
}

var (
	icoVertices = func() []mgl32.Vec3 {
		t := float32((1 + math.Sqrt(5)) / 2)
		return []mgl32.Vec3{
			{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
			{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
			{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
		}
	}()

	icoFaces = [20][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// NewIcosphere subdivides each icosahedron face into (detail+1)^2 triangles
// and pushes every vertex out to radius. Shared vertices are merged.
func NewIcosphere(radius float32, detail int) *Mesh {
	if detail < 0 {
		detail = 0
	}

	b := meshBuilder{
		mesh:    &Mesh{},
		index:   map[[3]int32]uint32{},
		edges:   map[[2]uint32]struct{}{},
		radius:  radius,
		columns: detail + 1,
	}

	for _, face := range icoFaces {
		b.subdivide(icoVertices[face[0]], icoVertices[face[1]], icoVertices[face[2]])
	}

	return b.mesh
}

type meshBuilder struct {
	mesh    *Mesh
	index   map[[3]int32]uint32
	edges   map[[2]uint32]struct{}
	radius  float32
	columns int
}

func (b *meshBuilder) subdivide(a, bv, c mgl32.Vec3) {
	cols := b.columns
	grid := make([][]uint32, cols+1)

	for i := 0; i <= cols; i++ {
		f := float32(i) / float32(cols)
		aj := lerp(a, c, f)
		bj := lerp(bv, c, f)

		rows := cols - i
		grid[i] = make([]uint32, rows+1)

		for j := 0; j <= rows; j++ {
			if j == 0 && i == cols {
				grid[i][j] = b.vertex(aj)
				continue
			}
			grid[i][j] = b.vertex(lerp(aj, bj, float32(j)/float32(rows)))
		}
	}

	for i := 0; i < cols; i++ {
		for j := 0; j < 2*(cols-i)-1; j++ {
			k := j / 2

			if j%2 == 0 {
				b.triangle(grid[i][k+1], grid[i+1][k], grid[i][k])
			} else {
				b.triangle(grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
			}
		}
	}
}

func (b *meshBuilder) vertex(v mgl32.Vec3) uint32 {
	n := v.Normalize()
	p := n.Mul(b.radius)

	key := [3]int32{
		int32(math.Round(float64(p[0]) * 1e4)),
		int32(math.Round(float64(p[1]) * 1e4)),
		int32(math.Round(float64(p[2]) * 1e4)),
	}

	if idx, ok := b.index[key]; ok {
		return idx
	}

	idx := uint32(len(b.mesh.Vertices))
	b.mesh.Vertices = append(b.mesh.Vertices, p)
	b.mesh.Normals = append(b.mesh.Normals, n)
	b.index[key] = idx

	return idx
}

func (b *meshBuilder) triangle(i, j, k uint32) {
	b.edge(i, j)
	b.edge(j, k)
	b.edge(k, i)
}

func (b *meshBuilder) edge(i, j uint32) {
	if i == j {
		return
	}

	if i > j {
		i, j = j, i
	}

	key := [2]uint32{i, j}
	if _, ok := b.edges[key]; ok {
		return
	}

	b.edges[key] = struct{}{}
	b.mesh.Edges = append(b.mesh.Edges, key)
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
