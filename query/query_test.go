package query

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/o0olele/navmesh-go/builder"
	"github.com/o0olele/navmesh-go/math32"
)

const pathTolerance = 1e-4

func vec(x, y, z float32) math32.Vector3 {
	return math32.Vector3{X: x, Y: y, Z: z}
}

func newGridQuery(t *testing.T, cols, rows int, skip func(x, y int) bool) *NavigationQuery {
	t.Helper()
	vertices, indices := builder.GenerateGrid(cols, rows, 1, skip)
	return newQuery(t, vertices, indices)
}

func newQuery(t *testing.T, vertices []float32, indices []uint32) *NavigationQuery {
	t.Helper()
	mesh, err := builder.Build(vertices, indices)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	nq, err := NewNavigationQuery(mesh)
	if err != nil {
		t.Fatalf("NewNavigationQuery: %v", err)
	}
	return nq
}

// foldMesh is a 2x1 floor at z=0 meeting a 1x1 wall at x=2
func foldMesh(t *testing.T) *NavigationQuery {
	t.Helper()
	vertices := []float32{
		0, 0, 0,
		2, 0, 0,
		2, 1, 0,
		0, 1, 0,
		2, 0, 1,
		2, 1, 1,
	}
	indices := []uint32{
		0, 1, 2,
		0, 2, 3,
		1, 4, 5,
		1, 5, 2,
	}
	return newQuery(t, vertices, indices)
}

func assertPath(t *testing.T, got []math32.Vector3, want ...math32.Vector3) {
	t.Helper()
	assertPathWithin(t, pathTolerance, got, want...)
}

func assertPathWithin(t *testing.T, tolerance float32, got []math32.Vector3, want ...math32.Vector3) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].ApproxEqual(want[i], tolerance*tolerance) {
			t.Fatalf("point %d = %v, want %v (path %v)", i, got[i], want[i], got)
		}
	}
}

func TestStraightDiagonalOnGrid(t *testing.T) {
	nq := newGridQuery(t, 4, 4, nil)
	path, err := nq.FindPath(vec(0, 0, 0), vec(3, 3, 0), nil)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	assertPath(t, path.Points(), vec(0, 0, 0), vec(3, 3, 0))
	if path.Normals != nil {
		t.Error("normals returned without ReturnNormals")
	}
}

func TestStraightAcrossPortalApex(t *testing.T) {
	// start lies on the diagonal portal of its cell
	nq := newGridQuery(t, 4, 4, nil)
	path, err := nq.FindPath(vec(3.5, 0.5, 0), vec(0.5, 3.5, 0), nil)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	assertPath(t, path.Points(), vec(3.5, 0.5, 0), vec(0.5, 3.5, 0))
}

func TestDetourAroundRemovedRow(t *testing.T) {
	nq := newGridQuery(t, 4, 4, func(x, y int) bool { return y == 1 && x < 3 })
	if nq.GetNavMesh().IslandCount() != 1 {
		t.Fatalf("islands = %d", nq.GetNavMesh().IslandCount())
	}

	path, err := nq.FindPath(vec(0.5, 0.5, 0), vec(3.5, 2.5, 0), nil)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	assertPath(t, path.Points(), vec(0.5, 0.5, 0), vec(3, 1, 0), vec(3.5, 2.5, 0))

	back, err := nq.FindPath(vec(3.5, 2.5, 0), vec(0.5, 0.5, 0), nil)
	if err != nil {
		t.Fatalf("FindPath back: %v", err)
	}
	assertPath(t, back.Points(), vec(3.5, 2.5, 0), vec(3, 1, 0), vec(0.5, 0.5, 0))
}

func TestFoldAddsCornerOnEdge(t *testing.T) {
	nq := foldMesh(t)
	start, target := vec(0.5, 0.2, 0), vec(2, 0.8, 0.5)

	path, err := nq.FindPath(start, target, &FindPathOptions{ReturnNormals: true})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	assertPath(t, path.Points(), start, vec(2, 0.65, 0), target)

	normals := path.NormalVectors()
	want := []math32.Vector3{vec(0, 0, 1), vec(-1, 0, 0), vec(-1, 0, 0)}
	if !reflect.DeepEqual(normals, want) {
		t.Errorf("normals = %v, want %v", normals, want)
	}

	// unfolding the wall onto the floor turns the path into a straight line
	unfolded := start.Distance(vec(2.5, 0.8, 0))
	if d := path.Length() - unfolded; d > 1e-3 || d < -1e-3 {
		t.Errorf("length = %v, unfolded distance = %v", path.Length(), unfolded)
	}
}

func TestFoldFromWallToFloor(t *testing.T) {
	nq := foldMesh(t)
	path, err := nq.FindPath(vec(2, 0.8, 0.5), vec(0.5, 0.2, 0), nil)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	assertPath(t, path.Points(), vec(2, 0.8, 0.5), vec(2, 0.65, 0), vec(0.5, 0.2, 0))
}

// stairMesh is a floor at z=0, a riser at x=1 and a landing at z=1
func stairMesh(t *testing.T) *NavigationQuery {
	t.Helper()
	vertices := []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
		1, 0, 1,
		1, 1, 1,
		2, 0, 1,
		2, 1, 1,
	}
	indices := []uint32{
		0, 1, 2,
		0, 2, 3,
		1, 4, 5,
		1, 5, 2,
		4, 6, 7,
		4, 7, 5,
	}
	return newQuery(t, vertices, indices)
}

// ledgeMesh is a 2x3 floor against a wall at x=2 whose upper half only
// exists for 2 <= y <= 3, so a climb to the top pivots on the wall vertex (2,2,1)
func ledgeMesh(t *testing.T) *NavigationQuery {
	t.Helper()
	vertices := []float32{
		0, 0, 0,
		2, 0, 0,
		2, 2, 0,
		2, 3, 0,
		0, 3, 0,
		0, 2, 0,
		2, 0, 1,
		2, 2, 1,
		2, 3, 1,
		2, 2, 2,
		2, 3, 2,
	}
	var indices []uint32
	quad := func(a, b, c, d uint32) {
		indices = append(indices, a, b, c, a, c, d)
	}
	quad(0, 1, 2, 5)
	quad(5, 2, 3, 4)
	quad(1, 6, 7, 2)
	quad(2, 7, 8, 3)
	quad(7, 9, 10, 8)
	return newQuery(t, vertices, indices)
}

func TestFoldsAcrossStair(t *testing.T) {
	nq := stairMesh(t)
	tests := []struct {
		name          string
		start, target math32.Vector3
		want          []math32.Vector3
	}{
		{"up", vec(0.5, 0.2, 0), vec(1.5, 0.8, 1), []math32.Vector3{vec(0.5, 0.2, 0), vec(1, 0.35, 0), vec(1, 0.65, 1), vec(1.5, 0.8, 1)}},
		{"down", vec(1.5, 0.8, 1), vec(0.5, 0.2, 0), []math32.Vector3{vec(1.5, 0.8, 1), vec(1, 0.65, 1), vec(1, 0.35, 0), vec(0.5, 0.2, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := nq.FindPath(tt.start, tt.target, nil)
			if err != nil {
				t.Fatalf("FindPath: %v", err)
			}
			assertPath(t, path.Points(), tt.want...)
			// unfolded, the stair is one flat strip
			unfolded := vec(0.5, 0.2, 0).Distance(vec(2.5, 0.8, 0))
			if d := path.Length() - unfolded; d > 1e-3 || d < -1e-3 {
				t.Errorf("length = %v, unfolded distance = %v", path.Length(), unfolded)
			}
		})
	}
}

func TestFoldThenWallCorner(t *testing.T) {
	nq := ledgeMesh(t)
	tests := []struct {
		name          string
		start, target math32.Vector3
		want          []math32.Vector3
	}{
		{"climb", vec(0.5, 0.5, 0), vec(2, 2.2, 1.9), []math32.Vector3{vec(0.5, 0.5, 0), vec(2, 1.4, 0), vec(2, 2, 1), vec(2, 2.2, 1.9)}},
		{"descend", vec(2, 2.2, 1.9), vec(0.5, 0.5, 0), []math32.Vector3{vec(2, 2.2, 1.9), vec(2, 2, 1), vec(2, 1.4, 0), vec(0.5, 0.5, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := nq.FindPath(tt.start, tt.target, &FindPathOptions{ReturnNormals: true})
			if err != nil {
				t.Fatalf("FindPath: %v", err)
			}
			assertPath(t, path.Points(), tt.want...)
			if len(path.Normals) != len(path.Positions) {
				t.Errorf("normals %d, positions %d", len(path.Normals), len(path.Positions))
			}
		})
	}
}

func TestTargetNextToCorner(t *testing.T) {
	nq := newGridQuery(t, 4, 4, func(x, y int) bool { return y == 1 && x < 3 })
	start, target := vec(0.5, 0.5, 0), vec(3.002, 1.001, 0)
	path, err := nq.FindPath(start, target, nil)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	got := path.Points()
	assertPath(t, got, start, vec(3, 1, 0), target)
	if got[len(got)-1] != target {
		t.Errorf("last point = %v, want exactly %v", got[len(got)-1], target)
	}
}

func TestDetourOnMillimetreGrid(t *testing.T) {
	vertices, indices := builder.GenerateGrid(4, 4, 0.001, func(x, y int) bool { return y == 1 && x < 3 })
	nq := newQuery(t, vertices, indices)
	start, target := vec(0.0005, 0.0005, 0), vec(0.0035, 0.0025, 0)

	path, err := nq.FindPath(start, target, nil)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	assertPathWithin(t, 1e-7, path.Points(), start, vec(0.003, 0.001, 0), target)

	back, err := nq.FindPath(target, start, nil)
	if err != nil {
		t.Fatalf("FindPath back: %v", err)
	}
	assertPathWithin(t, 1e-7, back.Points(), target, vec(0.003, 0.001, 0), start)
}

// tiltedGrid rotates a 6x6 grid about z and leans it onto the plane z = 0.3x + 0.1y
func tiltedGrid(t *testing.T) *NavigationQuery {
	t.Helper()
	vertices, indices := builder.GenerateGrid(6, 6, 1, nil)
	sin, cos := math.Sincos(0.52)
	for i := 0; i+2 < len(vertices); i += 3 {
		x, y := float64(vertices[i]), float64(vertices[i+1])
		rx, ry := x*cos-y*sin, x*sin+y*cos
		vertices[i] = float32(rx)
		vertices[i+1] = float32(ry)
		vertices[i+2] = float32(0.3*rx + 0.1*ry)
	}
	return newQuery(t, vertices, indices)
}

func TestTargetsOnTiltedSurface(t *testing.T) {
	nq := tiltedGrid(t)
	mesh := nq.GetNavMesh()
	start := mesh.Islands[0][0].Centroid

	targets := append([]math32.Vector3(nil), mesh.Vertices...)
	for _, poly := range mesh.Islands[0] {
		for _, portal := range poly.Portals {
			left, right := mesh.Vertices[portal.Left], mesh.Vertices[portal.Right]
			for _, f := range []float32{0, 0.25, 0.5, 0.75, 1} {
				targets = append(targets, left.Lerp(right, f))
			}
		}
	}

	for _, target := range targets {
		path, err := nq.FindPath(start, target, nil)
		if err != nil {
			t.Fatalf("FindPath to %v: %v", target, err)
		}
		got := path.Points()
		if len(got) < 2 || got[0] != start || got[len(got)-1] != target {
			t.Fatalf("path to %v = %v", target, got)
		}
	}
}

func TestHeuristicChoosesCorridor(t *testing.T) {
	// a wall at x=3 leaves gaps in the bottom and top rows
	skip := func(x, y int) bool { return x == 3 && y >= 1 && y <= 4 }
	start, target := vec(5.5, 3.5, 0), vec(2.5, 2.5, 0)

	linear := newGridQuery(t, 6, 6, skip)
	prefs := DefaultPathPreferences()
	prefs.LinearHeuristic = true
	linear.SetPathPreferences(prefs)
	short, err := linear.FindPath(start, target, nil)
	if err != nil {
		t.Fatalf("FindPath linear: %v", err)
	}
	assertPath(t, short.Points(), start, vec(4, 1, 0), vec(3, 1, 0), target)

	// the default heuristic also pulls towards the start and prefers the top gap
	nq := newGridQuery(t, 6, 6, skip)
	long, err := nq.FindPath(start, target, nil)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	top := float32(0)
	for _, p := range long.Points() {
		top = math32.Max(top, p.Y)
	}
	if top < 5-pathTolerance {
		t.Errorf("default heuristic path %v stays below the top gap", long.Points())
	}
	if long.Length() <= short.Length() {
		t.Errorf("default length %v, linear length %v", long.Length(), short.Length())
	}
}

func TestSamePolygon(t *testing.T) {
	nq := newGridQuery(t, 2, 2, nil)
	tests := []struct {
		name          string
		start, target math32.Vector3
	}{
		{"distinct", vec(0.6, 0.1, 0), vec(0.9, 0.5, 0)},
		{"identical", vec(0.6, 0.1, 0), vec(0.6, 0.1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := nq.FindPath(tt.start, tt.target, nil)
			if err != nil {
				t.Fatalf("FindPath: %v", err)
			}
			if len(path.Corridor) != 1 {
				t.Errorf("corridor = %v", path.Corridor)
			}
			assertPath(t, path.Points(), tt.start, tt.target)
		})
	}
}

func TestEndpointFidelity(t *testing.T) {
	nq := newGridQuery(t, 6, 6, func(x, y int) bool {
		return (x == 2 && y < 4) || (x == 4 && y > 1)
	})
	points := []math32.Vector3{
		vec(0.5, 0.5, 0), vec(1.2, 5.5, 0), vec(3.5, 0.25, 0), vec(3.1, 5.9, 0),
		vec(5.5, 5.5, 0), vec(5.2, 0.3, 0), vec(0, 6, 0), vec(6, 0, 0),
	}
	for _, start := range points {
		for _, target := range points {
			path, err := nq.FindPath(start, target, nil)
			if err != nil {
				t.Fatalf("FindPath %v -> %v: %v", start, target, err)
			}
			got := path.Points()
			if len(got) < 2 {
				t.Fatalf("path %v -> %v has %d points", start, target, len(got))
			}
			if !got[0].ApproxEqual(start, 1e-10) || !got[len(got)-1].ApproxEqual(target, 1e-10) {
				t.Errorf("path %v -> %v = %v", start, target, got)
			}
			// a pulled path is never longer than walking the centroids
			coarse, err := nq.FindPath(start, target, &FindPathOptions{DoNotPullString: true})
			if err != nil {
				t.Fatal(err)
			}
			walk := start.Distance(coarse.Points()[0]) + coarse.Length() + coarse.Points()[len(coarse.Points())-1].Distance(target)
			if path.Length() > walk+1e-3 {
				t.Errorf("path %v -> %v length %v exceeds centroid walk %v", start, target, path.Length(), walk)
			}
		}
	}
}

func TestDisconnectedIslands(t *testing.T) {
	nq := newGridQuery(t, 5, 1, func(x, y int) bool { return x == 2 })
	left, right := vec(0.5, 0.5, 0), vec(4.5, 0.5, 0)

	if island, ok := nq.GetIsland(left, nil); !ok || island != 0 {
		t.Errorf("GetIsland(left) = %d, %v", island, ok)
	}
	if island, ok := nq.GetIsland(right, DistanceToCentroid); !ok || island != 1 {
		t.Errorf("GetIsland(right) = %d, %v", island, ok)
	}

	_, err := nq.FindPath(left, right, nil)
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("err = %v, want a no result error", err)
	}
	if !errors.Is(err, ErrTargetOffMesh) {
		t.Errorf("err = %v, want ErrTargetOffMesh", err)
	}

	_, err = nq.FindPath(left, right, &FindPathOptions{Island: InIsland(2)})
	if !errors.Is(err, ErrIslandNotFound) {
		t.Errorf("err = %v, want ErrIslandNotFound", err)
	}

	path, err := nq.FindPath(vec(3.2, 0.5, 0), right, &FindPathOptions{Island: InIsland(1)})
	if err != nil {
		t.Fatalf("FindPath in island 1: %v", err)
	}
	if path.Island != 1 {
		t.Errorf("path island = %d", path.Island)
	}
}

func TestGetIslandEmptyMesh(t *testing.T) {
	nq := newQuery(t, nil, nil)
	if _, ok := nq.GetIsland(vec(0, 0, 0), nil); ok {
		t.Error("found an island in an empty mesh")
	}
	if _, err := nq.FindPath(vec(0, 0, 0), vec(1, 1, 0), nil); !errors.Is(err, ErrIslandNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestAllowedDistance(t *testing.T) {
	nq := newGridQuery(t, 3, 3, nil)
	above := vec(1.5, 1.5, 0.5)
	onMesh := vec(0.5, 0.5, 0)

	if _, err := nq.FindPath(above, onMesh, &FindPathOptions{AllowedDistance: 0.25}); !errors.Is(err, ErrStartOffMesh) {
		t.Errorf("start: err = %v, want ErrStartOffMesh", err)
	}
	if _, err := nq.FindPath(onMesh, above, &FindPathOptions{AllowedDistance: 0.25}); !errors.Is(err, ErrTargetOffMesh) {
		t.Errorf("target: err = %v, want ErrTargetOffMesh", err)
	}
	if _, err := nq.FindPath(above, onMesh, &FindPathOptions{AllowedDistance: 1}); err != nil {
		t.Errorf("within allowed distance: %v", err)
	}
	if _, err := nq.FindPath(above, onMesh, nil); err != nil {
		t.Errorf("no limit: %v", err)
	}

	// the default target lookup only accepts points above a triangle
	if _, err := nq.FindPath(onMesh, vec(5, 5, 0), nil); !errors.Is(err, ErrTargetOffMesh) {
		t.Errorf("outside footprint: err = %v", err)
	}
	if _, err := nq.FindPath(onMesh, vec(5, 5, 0), &FindPathOptions{DistanceToFarthest: DistanceToTriangle}); err != nil {
		t.Errorf("closest target lookup: %v", err)
	}
}

func TestDoNotPullString(t *testing.T) {
	nq := newGridQuery(t, 4, 1, nil)
	path, err := nq.FindPath(vec(0.2, 0.5, 0), vec(3.8, 0.5, 0), &FindPathOptions{DoNotPullString: true, ReturnNormals: true})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	points := path.Points()
	if len(points) != len(path.Corridor) {
		t.Fatalf("points %d, corridor %d", len(points), len(path.Corridor))
	}
	polys := nq.GetNavMesh().Islands[path.Island]
	for i, id := range path.Corridor {
		if points[i] != polys[id].Centroid {
			t.Errorf("point %d = %v, want centroid %v", i, points[i], polys[id].Centroid)
		}
	}
	if len(path.Normals) != len(path.Positions) {
		t.Errorf("normals %d, positions %d", len(path.Normals), len(path.Positions))
	}
}

func TestCorridorIsConnected(t *testing.T) {
	for _, linear := range []bool{false, true} {
		t.Run(fmt.Sprintf("linear=%v", linear), func(t *testing.T) {
			nq := newGridQuery(t, 8, 8, func(x, y int) bool { return x == 4 && y != 7 })
			prefs := DefaultPathPreferences()
			prefs.LinearHeuristic = linear
			nq.SetPathPreferences(prefs)

			path, err := nq.FindPath(vec(0.5, 0.5, 0), vec(7.5, 0.5, 0), nil)
			if err != nil {
				t.Fatalf("FindPath: %v", err)
			}
			polys := nq.GetNavMesh().Islands[path.Island]
			for i := 1; i < len(path.Corridor); i++ {
				a, b := path.Corridor[i-1], path.Corridor[i]
				if _, ok := nq.GetNavMesh().PortalTo(path.Island, a, b); !ok {
					t.Fatalf("corridor step %d -> %d is not a neighbour link", a, b)
				}
				if polys[a].Island != polys[b].Island {
					t.Fatalf("corridor leaves the island")
				}
			}
			// the wall forces the path over the top row
			top := float32(0)
			for _, p := range path.Points() {
				top = math32.Max(top, p.Y)
			}
			if top < 7-pathTolerance {
				t.Errorf("path never reaches the gap: %v", path.Points())
			}
		})
	}
}

func TestMaxIterations(t *testing.T) {
	nq := newGridQuery(t, 10, 10, nil)
	prefs := DefaultPathPreferences()
	prefs.MaxIterations = 2
	nq.SetPathPreferences(prefs)
	if nq.GetPathPreferences().MaxIterations != 2 {
		t.Fatalf("preferences = %+v", nq.GetPathPreferences())
	}
	if _, err := nq.FindPath(vec(0.5, 0.5, 0), vec(9.5, 9.5, 0), nil); !errors.Is(err, ErrUnreachable) {
		t.Errorf("err = %v, want ErrUnreachable", err)
	}
}

func TestConcurrentQueries(t *testing.T) {
	nq := newGridQuery(t, 8, 8, func(x, y int) bool { return (x == 3 && y < 6) || (x == 5 && y > 1) })
	type pair struct{ start, target math32.Vector3 }
	pairs := []pair{
		{vec(0.5, 0.5, 0), vec(7.5, 7.5, 0)},
		{vec(7.5, 0.5, 0), vec(0.5, 7.5, 0)},
		{vec(4.5, 4.5, 0), vec(0.2, 0.2, 0)},
		{vec(6.5, 0.5, 0), vec(1.5, 6.5, 0)},
	}
	want := make([][]float32, len(pairs))
	for i, p := range pairs {
		path, err := nq.FindPath(p.start, p.target, nil)
		if err != nil {
			t.Fatal(err)
		}
		want[i] = path.Positions
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				i := (w + n) % len(pairs)
				path, err := nq.FindPath(pairs[i].start, pairs[i].target, nil)
				if err != nil {
					errs <- err
					return
				}
				if !reflect.DeepEqual(path.Positions, want[i]) {
					errs <- fmt.Errorf("pair %d: got %v, want %v", i, path.Positions, want[i])
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestLoadAndQuery(t *testing.T) {
	vertices, indices := builder.GenerateGrid(3, 3, 1, nil)
	path := filepath.Join(t.TempDir(), "grid.nav")
	if _, err := builder.BuildAndSave(vertices, indices, builder.DefaultSettings(), path); err != nil {
		t.Fatal(err)
	}
	nq, err := LoadAndQuery(path)
	if err != nil {
		t.Fatalf("LoadAndQuery: %v", err)
	}
	if stats := nq.GetStats(); stats.PolygonCount != 18 || stats.IslandCount != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if _, err := LoadAndQuery(filepath.Join(t.TempDir(), "missing.nav")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestNewNavigationQueryRejectsInvalidMesh(t *testing.T) {
	if _, err := NewNavigationQuery(nil); !errors.Is(err, builder.ErrInvalidMesh) {
		t.Errorf("nil mesh: err = %v", err)
	}
	vertices, indices := builder.GenerateGrid(2, 1, 1, nil)
	mesh, err := builder.Build(vertices, indices)
	if err != nil {
		t.Fatal(err)
	}
	mesh.Islands[0][1].ID = 7
	if _, err := NewNavigationQuery(mesh); !errors.Is(err, builder.ErrInvalidMesh) {
		t.Errorf("broken mesh: err = %v", err)
	}
}
