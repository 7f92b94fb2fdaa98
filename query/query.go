package query

import (
	"fmt"
	"math"
	"time"

	"github.com/o0olele/navmesh-go/builder"
	"github.com/o0olele/navmesh-go/logger"
	"github.com/o0olele/navmesh-go/math32"
)

// NavigationQuery 导航查询器，只负责运行时查询. The mesh is read only, so
// one query object serves any number of goroutines.
type NavigationQuery struct {
	navMesh         *builder.NavMesh
	pathPreferences *PathPreferences // 路径偏好配置
	foldCos         float32
	weldStep        float32 // 焊接精度 10^-Precision
}

// NewNavigationQuery 创建新的导航查询器
func NewNavigationQuery(navMesh *builder.NavMesh) (*NavigationQuery, error) {
	return NewNavigationQueryWithPreferences(navMesh, DefaultPathPreferences())
}

// NewNavigationQueryWithPreferences 创建新的导航查询器，指定路径偏好
func NewNavigationQueryWithPreferences(navMesh *builder.NavMesh, prefs *PathPreferences) (*NavigationQuery, error) {
	if navMesh == nil {
		return nil, fmt.Errorf("%w: nil navmesh", builder.ErrInvalidMesh)
	}
	if err := navMesh.Validate(); err != nil {
		return nil, fmt.Errorf("invalid navmesh: %w", err)
	}

	precision := int(navMesh.Precision)
	if precision <= 0 {
		precision = builder.DEFAULT_PRECISION
	}
	nq := &NavigationQuery{
		navMesh:  navMesh,
		weldStep: float32(math.Pow10(-precision)),
	}
	nq.SetPathPreferences(prefs)
	return nq, nil
}

// GetNavMesh 获取导航网格
func (nq *NavigationQuery) GetNavMesh() *builder.NavMesh {
	return nq.navMesh
}

// Path is the result of FindPath. Positions and Normals are flat xyz buffers;
// Normals is nil unless requested.
type Path struct {
	Island    int       `json:"island"`
	Corridor  []int32   `json:"corridor"`
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals,omitempty"`
}

// Points returns the path positions as vectors
func (p *Path) Points() []math32.Vector3 {
	points := make([]math32.Vector3, len(p.Positions)/3)
	for i := range points {
		points[i] = math32.FromFlat(p.Positions, i)
	}
	return points
}

// NormalVectors returns the path normals as vectors, nil when not requested
func (p *Path) NormalVectors() []math32.Vector3 {
	if p.Normals == nil {
		return nil
	}
	normals := make([]math32.Vector3, len(p.Normals)/3)
	for i := range normals {
		normals[i] = math32.FromFlat(p.Normals, i)
	}
	return normals
}

// Length returns the length of the polyline
func (p *Path) Length() float32 {
	var length float32
	points := p.Points()
	for i := 1; i < len(points); i++ {
		length += points[i-1].Distance(points[i])
	}
	return length
}

// GetIsland returns the island holding the polygon closest to point. distanceFn
// defaults to DistanceToTriangle.
func (nq *NavigationQuery) GetIsland(point math32.Vector3, distanceFn DistanceFunc) (int, bool) {
	if distanceFn == nil {
		distanceFn = DistanceToTriangle
	}

	island := -1
	best := math32.MaxFloat32
	for i := range nq.navMesh.Islands {
		if _, distance, ok := nq.nearestPolygon(i, point, distanceFn, best); ok {
			island = i
			best = distance
		}
	}
	return island, island >= 0
}

// FindNearestPolygon returns the polygon of island closest to point under distanceFn.
func (nq *NavigationQuery) FindNearestPolygon(island int, point math32.Vector3, distanceFn DistanceFunc) (int32, float32, bool) {
	if distanceFn == nil {
		distanceFn = DistanceToTriangle
	}
	if island < 0 || island >= len(nq.navMesh.Islands) {
		return -1, 0, false
	}
	return nq.nearestPolygon(island, point, distanceFn, math32.MaxFloat32)
}

// nearestPolygon scans the island for a polygon strictly closer than best
func (nq *NavigationQuery) nearestPolygon(island int, point math32.Vector3, distanceFn DistanceFunc, best float32) (int32, float32, bool) {
	found := int32(-1)
	vertices := nq.navMesh.Vertices
	for i := range nq.navMesh.Islands[island] {
		poly := &nq.navMesh.Islands[island][i]
		distance := distanceFn(point, poly.Centroid, poly.VertexIDs, vertices, best)
		if distance < best {
			found = poly.ID
			best = distance
		}
	}
	return found, best, found >= 0
}

// FindPath 查找路径. Every failure wraps ErrNoResult.
func (nq *NavigationQuery) FindPath(start, target math32.Vector3, opts *FindPathOptions) (*Path, error) {
	if opts == nil {
		opts = &FindPathOptions{}
	}
	closest := opts.DistanceToClosest
	if closest == nil {
		closest = DistanceToTriangle
	}
	farthest := opts.DistanceToFarthest
	if farthest == nil {
		farthest = DistanceToFootprint
	}

	// 1. 确定所在岛
	island := -1
	if opts.Island != nil {
		island = *opts.Island
		if island < 0 || island >= len(nq.navMesh.Islands) {
			return nil, fmt.Errorf("%w: %d", ErrIslandNotFound, island)
		}
	} else {
		var ok bool
		if island, ok = nq.GetIsland(start, closest); !ok {
			return nil, ErrIslandNotFound
		}
	}

	// 2. 找到起点和终点所在的多边形
	startID, startDistance, ok := nq.nearestPolygon(island, start, closest, math32.MaxFloat32)
	if !ok || (opts.AllowedDistance > 0 && startDistance > opts.AllowedDistance) {
		return nil, ErrStartOffMesh
	}
	targetID, targetDistance, ok := nq.nearestPolygon(island, target, farthest, math32.MaxFloat32)
	if !ok {
		// a target on a shared edge or vertex can miss every footprint by rounding
		targetID, targetDistance, ok = nq.nearestPolygon(island, target, DistanceToTriangle, math32.MaxFloat32)
		ok = ok && targetDistance <= nq.weldStep
	}
	if !ok || (opts.AllowedDistance > 0 && targetDistance > opts.AllowedDistance) {
		return nil, ErrTargetOffMesh
	}

	// 3. 使用A*算法查找多边形通道
	startTime := time.Now()
	polys := nq.navMesh.Islands[island]
	corridor := nq.astar(polys, startID, targetID, start, target)
	if len(corridor) == 0 {
		return nil, ErrUnreachable
	}
	astarTime := time.Since(startTime)

	// 4. 拉直路径
	var line polyline
	if opts.DoNotPullString {
		line = corridorPolyline(polys, corridor)
	} else {
		line = pullString(nq.buildChannel(island, corridor, start, target), start, target, nq.weldStep/10)
		line = simplifyPath(line, math32.Min(nq.pathPreferences.SimplifyTolerance, nq.weldStep))
	}

	path := &Path{
		Island:    island,
		Corridor:  corridor,
		Positions: math32.AppendFlat(make([]float32, 0, len(line.points)*3), line.points...),
	}
	if opts.ReturnNormals {
		path.Normals = math32.AppendFlat(make([]float32, 0, len(line.normals)*3), line.normals...)
	}

	if logger.IsDebug() {
		logger.Debug("find path island %d polygons %d -> %d: corridor %d, points %d, A* took %v, total %v",
			island, startID, targetID, len(corridor), len(line.points), astarTime, time.Since(startTime))
	}
	return path, nil
}

// GetStats 获取统计信息
func (nq *NavigationQuery) GetStats() NavigationStats {
	return NavigationStats{
		VertexCount:  len(nq.navMesh.Vertices),
		PolygonCount: nq.navMesh.PolygonCount(),
		IslandCount:  nq.navMesh.IslandCount(),
		DataSize:     nq.navMesh.GetDataSize(),
	}
}

// NavigationStats 导航统计信息
type NavigationStats struct {
	VertexCount  int `json:"vertex_count"`  // 顶点数量
	PolygonCount int `json:"polygon_count"` // 多边形数量
	IslandCount  int `json:"island_count"`  // 岛数量
	DataSize     int `json:"data_size"`     // 数据大小（字节）
}
