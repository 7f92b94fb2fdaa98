package builder

import (
	"runtime"
	"time"

	"github.com/o0olele/navmesh-go/geometry"
	"github.com/o0olele/navmesh-go/logger"
)

// DEFAULT_PRECISION is the number of decimal digits used to weld vertices
const DEFAULT_PRECISION = 4

// maxPrecision keeps quantized keys inside int64 for any float32 coordinate that matters
const maxPrecision = 9

// Settings controls a build
type Settings struct {
	// Precision is the number of decimal digits kept when welding, <= 0 means DEFAULT_PRECISION.
	Precision int `json:"precision"`
	// AllowNonManifold skips edges shared by 3+ triangles instead of failing.
	AllowNonManifold bool `json:"allow_non_manifold"`
}

// DefaultSettings returns the settings Build uses
func DefaultSettings() Settings {
	return Settings{Precision: DEFAULT_PRECISION}
}

// Builder 导航网格构建器
type Builder struct {
	settings Settings
	mesh     *NavMesh
}

// NewBuilder 创建新的导航网格构建器
func NewBuilder(settings Settings) *Builder {
	if settings.Precision <= 0 {
		settings.Precision = DEFAULT_PRECISION
	}
	if settings.Precision > maxPrecision {
		settings.Precision = maxPrecision
	}
	return &Builder{settings: settings}
}

// GetNavMesh returns the mesh produced by the last successful Build
func (nb *Builder) GetNavMesh() *NavMesh {
	return nb.mesh
}

// Build 构建导航网格: weld, link and partition. The input buffers are not retained.
func (nb *Builder) Build(vertices []float32, indices []uint32) (*NavMesh, error) {
	startTime := time.Now()
	report := BuildReport{}

	// 1. 顶点焊接
	prepareStart := time.Now()
	welded, faces := prepareGeometry(vertices, indices, nb.settings.Precision, &report)
	logger.Debug("geometry prepared in %v, vertices %d -> %d, triangles %d -> %d",
		time.Since(prepareStart), report.InputVertices, len(welded), report.InputTriangles, len(faces))

	// 2. 邻接关系
	graphStart := time.Now()
	neighbours, err := linkNeighbours(faces, nb.settings.AllowNonManifold, &report)
	if err != nil {
		logger.Error("build navmesh failed: %v", err)
		return nil, err
	}
	logger.Debug("polygon graph built in %v", time.Since(graphStart))

	// 3. 连通分量
	islandStart := time.Now()
	islands := partitionIslands(faces, neighbours)
	logger.Debug("islands partitioned in %v, count %d", time.Since(islandStart), len(islands))

	mesh := &NavMesh{
		Vertices:  welded,
		Islands:   islands,
		Bounds:    geometry.BoundsOf(welded),
		Precision: int32(nb.settings.Precision),
		Report:    report,
	}
	nb.mesh = mesh

	if dropped := report.DroppedTriangles(); dropped > 0 || report.TrailingFloats > 0 || report.TrailingIndices > 0 {
		logger.Warn("navmesh input filtered: collapsed %d, zero area %d, duplicates %d, out of range %d, trailing floats %d, trailing indices %d",
			report.Collapsed, report.ZeroArea, report.Duplicates, report.OutOfRange, report.TrailingFloats, report.TrailingIndices)
	}
	if report.NonManifoldEdges > 0 {
		logger.Warn("navmesh skipped %d non-manifold edges", report.NonManifoldEdges)
	}
	logger.Info("navmesh built in %v: %d vertices, %d polygons, %d islands",
		time.Since(startTime), len(welded), mesh.PolygonCount(), len(islands))

	return mesh, nil
}

// Build builds a navmesh with DefaultSettings
func Build(vertices []float32, indices []uint32) (*NavMesh, error) {
	return NewBuilder(DefaultSettings()).Build(vertices, indices)
}

// GetMemoryUsage 获取构建过程的内存使用情况
func (nb *Builder) GetMemoryUsage() BuildMemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := BuildMemoryStats{
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		HeapAlloc:  m.HeapAlloc,
		HeapSys:    m.HeapSys,
		NumGC:      m.NumGC,
	}

	if nb.mesh != nil {
		stats.Vertices = len(nb.mesh.Vertices)
		stats.Polygons = nb.mesh.PolygonCount()
		stats.Islands = len(nb.mesh.Islands)
		stats.DataSize = nb.mesh.GetDataSize()
	}

	return stats
}

// BuildMemoryStats 构建过程的内存统计
type BuildMemoryStats struct {
	TotalAlloc uint64 `json:"total_alloc"` // 总分配内存
	Sys        uint64 `json:"sys"`         // 系统内存
	HeapAlloc  uint64 `json:"heap_alloc"`  // 堆内存
	HeapSys    uint64 `json:"heap_sys"`    // 堆系统内存
	NumGC      uint32 `json:"num_gc"`      // GC次数
	Vertices   int    `json:"vertices"`
	Polygons   int    `json:"polygons"`
	Islands    int    `json:"islands"`
	DataSize   int    `json:"data_size"`
}
