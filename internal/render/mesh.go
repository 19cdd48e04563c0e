package render

import (
	"errors"
	"fmt"
	"math"
	"scene3d/internal/mesh"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// raylib meshes index with 16 bits.
const maxVertices = math.MaxUint16 + 1

var ErrMeshTooLarge = errors.New("mesh exceeds 16-bit index range")

// gpuMesh is a mesh uploaded with rl.UploadMesh. The Go slices backing the
// raylib struct are kept alongside it for its whole lifetime.
type gpuMesh struct {
	mesh      rl.Mesh
	vertices  []float32
	normals   []float32
	texcoords []float32
	indices   []uint16
	released  bool
}

// packMesh flattens m into raylib's separate attribute arrays.
func packMesh(m *mesh.Mesh) (*gpuMesh, error) {
	n := len(m.Vertices)
	if n == 0 || len(m.Indices) == 0 {
		return nil, fmt.Errorf("pack mesh: empty mesh")
	}
	if n > maxVertices {
		return nil, fmt.Errorf("%w: %d vertices", ErrMeshTooLarge, n)
	}

	g := &gpuMesh{
		vertices:  make([]float32, 0, n*3),
		normals:   make([]float32, 0, n*3),
		texcoords: make([]float32, 0, n*2),
		indices:   make([]uint16, len(m.Indices)),
	}
	for _, v := range m.Vertices {
		g.vertices = append(g.vertices, v.Position[:]...)
		g.normals = append(g.normals, v.Normal[:]...)
		g.texcoords = append(g.texcoords, v.UV[:]...)
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return nil, fmt.Errorf("pack mesh: index %d out of range for %d vertices", idx, n)
		}
		g.indices[i] = uint16(idx)
	}

	g.mesh = rl.Mesh{
		VertexCount:   int32(n),
		TriangleCount: int32(len(m.Indices) / 3),
		Vertices:      &g.vertices[0],
		Normals:       &g.normals[0],
		Texcoords:     &g.texcoords[0],
		Indices:       &g.indices[0],
	}
	return g, nil
}

func uploadMesh(m *mesh.Mesh) (*gpuMesh, error) {
	g, err := packMesh(m)
	if err != nil {
		return nil, err
	}
	rl.UploadMesh(&g.mesh, false)
	if g.mesh.VaoID == 0 && g.mesh.VboID == nil {
		return nil, fmt.Errorf("upload mesh: no GPU buffers created")
	}
	return g, nil
}

// Release frees the GPU buffers once.
func (g *gpuMesh) Release() {
	if g.released {
		return
	}
	g.released = true
	rl.UnloadMesh(&g.mesh)
}
