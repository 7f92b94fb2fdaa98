package builder

import (
	"errors"
	"reflect"
	"testing"

	"github.com/o0olele/navmesh-go/math32"
)

func buildGrid(t *testing.T, cols, rows int, skip func(x, y int) bool) *NavMesh {
	t.Helper()
	vertices, indices := GenerateGrid(cols, rows, 1, skip)
	mesh, err := Build(vertices, indices)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return mesh
}

func TestBuildGrid(t *testing.T) {
	mesh := buildGrid(t, 4, 4, nil)

	if err := mesh.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	stats := mesh.GetStats()
	if stats.VertexCount != 25 || stats.PolygonCount != 32 || stats.IslandCount != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.PortalCount != 40 {
		t.Errorf("portal count = %d, want 40", stats.PortalCount)
	}
	if mesh.Report.BoundaryEdges != 16 {
		t.Errorf("boundary edges = %d, want 16", mesh.Report.BoundaryEdges)
	}
	if mesh.Bounds.Max != (math32.Vector3{X: 4, Y: 4}) {
		t.Errorf("bounds = %+v", mesh.Bounds)
	}
	for _, poly := range mesh.Islands[0] {
		if !poly.Normal.ApproxEqual(math32.Vector3{Z: 1}, 1e-10) {
			t.Fatalf("polygon %d normal = %v", poly.ID, poly.Normal)
		}
	}
}

func TestNeighbourSymmetry(t *testing.T) {
	mesh := buildGrid(t, 5, 3, func(x, y int) bool { return x == 2 && y == 1 })
	for _, island := range mesh.Islands {
		for i, poly := range island {
			for _, nb := range poly.Neighbours {
				if !containsID(island[nb].Neighbours, int32(i)) {
					t.Errorf("polygon %d lists %d but not the reverse", i, nb)
				}
			}
		}
	}
}

func TestWeldAndDiagnostics(t *testing.T) {
	vertices := []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
		0.00001, 0, 0, // welds into 0
		1, 1, 0, // welds into 2
		2, 2, 0,
		9, // trailing
	}
	indices := []uint32{
		0, 1, 2,
		4, 5, 3, // becomes 0, 2, 3
		0, 4, 1, // collapses
		0, 2, 6, // zero area
		2, 0, 1, // duplicate of the first
		0, 1, 99, // out of range
		1, 2, // trailing
	}

	mesh, err := Build(vertices, indices)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := BuildReport{
		InputVertices:   7,
		InputTriangles:  6,
		MergedVertices:  2,
		TrailingFloats:  1,
		TrailingIndices: 2,
		OutOfRange:      1,
		Collapsed:       1,
		ZeroArea:        1,
		Duplicates:      1,
		BoundaryEdges:   4,
	}
	if mesh.Report != want {
		t.Errorf("report = %+v\nwant %+v", mesh.Report, want)
	}
	if mesh.Report.DroppedTriangles() != 4 {
		t.Errorf("dropped = %d", mesh.Report.DroppedTriangles())
	}
	if len(mesh.Vertices) != 5 {
		t.Errorf("welded vertices = %d, want 5", len(mesh.Vertices))
	}
	if mesh.IslandCount() != 1 || mesh.PolygonCount() != 2 {
		t.Fatalf("islands = %d polygons = %d", mesh.IslandCount(), mesh.PolygonCount())
	}
	second := mesh.Islands[0][1]
	if second.VertexIDs != [3]uint32{0, 2, 3} {
		t.Errorf("remapped ids = %v", second.VertexIDs)
	}
	if !reflect.DeepEqual(second.Neighbours, []int32{0}) {
		t.Errorf("neighbours = %v", second.Neighbours)
	}
}

func TestPrecisionControlsWelding(t *testing.T) {
	vertices := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0.001, 0, 0,
	}
	indices := []uint32{0, 1, 2, 3, 1, 2}

	coarse, err := NewBuilder(Settings{Precision: 2}).Build(vertices, indices)
	if err != nil {
		t.Fatal(err)
	}
	if coarse.Report.MergedVertices != 1 || coarse.Report.Duplicates != 1 {
		t.Errorf("precision 2 report = %+v", coarse.Report)
	}

	fine, err := NewBuilder(Settings{Precision: 6}).Build(vertices, indices)
	if err != nil {
		t.Fatal(err)
	}
	if fine.Report.MergedVertices != 0 || fine.PolygonCount() != 2 {
		t.Errorf("precision 6 report = %+v polygons %d", fine.Report, fine.PolygonCount())
	}
}

func nonManifoldInput() ([]float32, []uint32) {
	vertices := []float32{
		0, 0, 0,
		1, 0, 0,
		0.5, 1, 0,
		0.5, -1, 0,
		0.5, 0, 1,
	}
	indices := []uint32{
		0, 1, 2,
		1, 0, 3,
		0, 1, 4,
	}
	return vertices, indices
}

func TestNonManifoldRejected(t *testing.T) {
	vertices, indices := nonManifoldInput()
	_, err := Build(vertices, indices)
	if !errors.Is(err, ErrNonManifold) {
		t.Fatalf("err = %v, want ErrNonManifold", err)
	}
	if !errors.Is(err, ErrFailure) {
		t.Errorf("ErrNonManifold should wrap ErrFailure")
	}
}

func TestNonManifoldAllowed(t *testing.T) {
	vertices, indices := nonManifoldInput()
	mesh, err := NewBuilder(Settings{AllowNonManifold: true}).Build(vertices, indices)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if mesh.Report.NonManifoldEdges != 1 {
		t.Errorf("non-manifold edges = %d, want 1", mesh.Report.NonManifoldEdges)
	}
	if mesh.IslandCount() != 3 {
		t.Errorf("islands = %d, want 3", mesh.IslandCount())
	}
}

func TestIslandsPartition(t *testing.T) {
	// two 2x1 strips with a gap column between them
	vertices, indices := GenerateGrid(5, 1, 1, func(x, y int) bool { return x == 2 })
	mesh, err := Build(vertices, indices)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.IslandCount() != 2 {
		t.Fatalf("islands = %d, want 2", mesh.IslandCount())
	}

	seen := make(map[[3]uint32]int)
	total := 0
	for islandID, island := range mesh.Islands {
		if len(island) != 4 {
			t.Errorf("island %d has %d polygons", islandID, len(island))
		}
		for i, poly := range island {
			if poly.Island != int32(islandID) || poly.ID != int32(i) {
				t.Errorf("island %d polygon %d tagged (%d, %d)", islandID, i, poly.Island, poly.ID)
			}
			if prev, ok := seen[poly.VertexIDs]; ok {
				t.Errorf("polygon %v in islands %d and %d", poly.VertexIDs, prev, islandID)
			}
			seen[poly.VertexIDs] = islandID
			total++
		}
	}
	if total != len(indices)/3 {
		t.Errorf("partition covers %d of %d polygons", total, len(indices)/3)
	}

	// the island holding the first input triangle comes first
	first := mesh.Islands[0][0].VertexIDs
	if first != [3]uint32{0, 1, 7} {
		t.Errorf("first polygon of island 0 = %v", first)
	}
}

func TestPortalOrientation(t *testing.T) {
	vertices := []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}
	mesh, err := Build(vertices, []uint32{0, 1, 2, 0, 2, 3})
	if err != nil {
		t.Fatal(err)
	}

	// shared vertices 0 and 2 wrap around in the first triangle
	p, ok := mesh.PortalTo(0, 0, 1)
	if !ok {
		t.Fatal("missing portal 0->1")
	}
	if p.Right != 2 || p.Left != 0 {
		t.Errorf("portal 0->1 = right %d left %d, want right 2 left 0", p.Right, p.Left)
	}
	if p.Normal != (math32.Vector3{Z: 1}) {
		t.Errorf("portal normal = %v", p.Normal)
	}

	p, ok = mesh.PortalTo(0, 1, 0)
	if !ok {
		t.Fatal("missing portal 1->0")
	}
	if p.Right != 0 || p.Left != 2 {
		t.Errorf("portal 1->0 = right %d left %d, want right 0 left 2", p.Right, p.Left)
	}

	if _, ok := mesh.PortalTo(0, 1, 5); ok {
		t.Error("unexpected portal to missing polygon")
	}
}

func TestSharedEdge(t *testing.T) {
	tests := []struct {
		a, b        [3]uint32
		right, left uint32
	}{
		{[3]uint32{0, 1, 2}, [3]uint32{1, 0, 3}, 0, 1},
		{[3]uint32{0, 1, 2}, [3]uint32{2, 1, 3}, 1, 2},
		{[3]uint32{0, 1, 2}, [3]uint32{0, 2, 3}, 2, 0},
		{[3]uint32{5, 7, 9}, [3]uint32{9, 8, 5}, 9, 5},
	}
	for _, tt := range tests {
		right, left := sharedEdge(tt.a, tt.b)
		if right != tt.right || left != tt.left {
			t.Errorf("sharedEdge(%v, %v) = (%d, %d), want (%d, %d)", tt.a, tt.b, right, left, tt.right, tt.left)
		}
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	vertices, indices := GenerateGrid(6, 4, 0.5, func(x, y int) bool { return (x+y)%5 == 0 })
	a, err := Build(vertices, indices)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(vertices, indices)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds of the same input differ")
	}
}

func TestBuildEmpty(t *testing.T) {
	mesh, err := Build(nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if mesh.IslandCount() != 0 || len(mesh.Vertices) != 0 {
		t.Errorf("mesh = %+v", mesh)
	}
	if err := mesh.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateDetectsBrokenLinks(t *testing.T) {
	mesh := buildGrid(t, 2, 1, nil)
	mesh.Islands[0][0].Neighbours = append(mesh.Islands[0][0].Neighbours, 3)
	if err := mesh.Validate(); !errors.Is(err, ErrInvalidMesh) {
		t.Errorf("err = %v, want ErrInvalidMesh", err)
	}
}
