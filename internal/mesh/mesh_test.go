package mesh

import "testing"

type countingBuffer struct {
	releases int
}

func (b *countingBuffer) Release() {
	b.releases++
}

func TestCubeLayout(t *testing.T) {
	m := Cube()

	if len(m.Vertices) != 24 {
		t.Errorf("Expected 24 vertices, got %d", len(m.Vertices))
	}
	if len(m.Indices) != 36 {
		t.Errorf("Expected 36 indices, got %d", len(m.Indices))
	}
	if m.TriangleCount() != 12 {
		t.Errorf("Expected 12 triangles, got %d", m.TriangleCount())
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("Index %d out of range: %d", i, idx)
		}
	}
	// front face, counter-clockwise seen from +Z
	want := []uint32{0, 1, 2, 0, 2, 3}
	for i, w := range want {
		if m.Indices[i] != w {
			t.Errorf("Front face index %d: expected %d, got %d", i, w, m.Indices[i])
		}
	}
}

func TestReleaseOnlyOnce(t *testing.T) {
	buf := &countingBuffer{}
	ref := New(Cube())
	ref.SetBuffer(buf)

	ref.Release()
	ref.Release()

	if buf.releases != 1 {
		t.Errorf("Expected 1 release, got %d", buf.releases)
	}
	if !ref.Released() {
		t.Error("Released should report true after Release")
	}
	if ref.Buffer() != nil {
		t.Error("Buffer should be nil after release")
	}
}

func TestSharedRefDoesNotRelease(t *testing.T) {
	buf := &countingBuffer{}
	owner := New(Cube())
	owner.SetBuffer(buf)

	shared := owner.Share()
	if shared.Owned() {
		t.Fatal("Shared ref should not be owning")
	}
	if shared.Mesh() != owner.Mesh() {
		t.Error("Shared ref should point at the same mesh")
	}

	shared.Release()
	if buf.releases != 0 {
		t.Errorf("Shared release should be a no-op, got %d releases", buf.releases)
	}
	if shared.Buffer() != buf {
		t.Error("Shared ref should still see the buffer")
	}

	owner.Release()
	if buf.releases != 1 {
		t.Errorf("Expected 1 release, got %d", buf.releases)
	}
	if shared.Buffer() != nil {
		t.Error("Shared ref should see no buffer once the owner released it")
	}
}

func TestNilRefIsSafe(t *testing.T) {
	var ref *Ref
	ref.Release()
	if ref.Owned() || ref.Released() || ref.Mesh() != nil || ref.Buffer() != nil {
		t.Error("Nil ref should behave as empty")
	}
}
