package mesh

import "github.com/go-gl/mathgl/mgl32"

// Vertex is the interleaved layout uploaded to the GPU: position, normal, uv.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh is an indexed triangle list. It must not be modified after it has
// been handed to a Ref.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Buffer is a backend-owned GPU copy of a mesh.
type Buffer interface {
	Release()
}

type owner struct {
	mesh     *Mesh
	buffer   Buffer
	released bool
}

// Ref is a handle to mesh data and its GPU buffer. The Ref returned by New
// owns both; refs created with Share only borrow them and never release.
type Ref struct {
	owner *owner
	owned bool
}

func New(m *Mesh) *Ref {
	return &Ref{owner: &owner{mesh: m}, owned: true}
}

// Share returns a non-owning reference to the same mesh.
func (r *Ref) Share() *Ref {
	return &Ref{owner: r.owner, owned: false}
}

func (r *Ref) Owned() bool {
	return r != nil && r.owned
}

func (r *Ref) Mesh() *Mesh {
	if r == nil {
		return nil
	}
	return r.owner.mesh
}

// Buffer returns the GPU buffer, or nil if none was uploaded or the owner
// already released it.
func (r *Ref) Buffer() Buffer {
	if r == nil || r.owner.released {
		return nil
	}
	return r.owner.buffer
}

func (r *Ref) SetBuffer(b Buffer) {
	r.owner.buffer = b
}

func (r *Ref) Released() bool {
	return r != nil && r.owner.released
}

// Release frees the GPU buffer once. It is a no-op on shared refs and on
// repeated calls.
func (r *Ref) Release() {
	if r == nil || !r.owned || r.owner.released {
		return
	}
	r.owner.released = true
	if r.owner.buffer != nil {
		r.owner.buffer.Release()
		r.owner.buffer = nil
	}
}
