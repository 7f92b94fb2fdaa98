package builder

import (
	"fmt"

	"github.com/o0olele/navmesh-go/geometry"
	"github.com/o0olele/navmesh-go/math32"
)

// file format constants
const (
	NAVMESH_FILE_MAGIC   = 0x534D564E // "NVMS"
	NAVMESH_FILE_VERSION = 1
)

// FileHeader is the header of a baked navmesh file
type FileHeader struct {
	Magic   uint32
	Version uint32
}

// Portal is the edge shared with one neighbour, oriented by the owning
// polygon's winding: Right is where the directed edge starts, Left where it
// ends. Normal is the neighbour's surface normal.
type Portal struct {
	Left   uint32         `json:"left" msgpack:"l"`
	Right  uint32         `json:"right" msgpack:"r"`
	Normal math32.Vector3 `json:"normal" msgpack:"n"`
}

// Polygon is one walkable triangle. Neighbours are indices into the owning
// island and Portals is parallel to Neighbours.
type Polygon struct {
	ID         int32          `json:"id" msgpack:"id"`
	VertexIDs  [3]uint32      `json:"vertex_ids" msgpack:"v"`
	Centroid   math32.Vector3 `json:"centroid" msgpack:"c"`
	Normal     math32.Vector3 `json:"normal" msgpack:"n"`
	Neighbours []int32        `json:"neighbours" msgpack:"nb"`
	Portals    []Portal       `json:"portals" msgpack:"p"`
	Island     int32          `json:"island" msgpack:"i"`
}

// BuildReport counts what the preparation stage filtered out.
type BuildReport struct {
	InputVertices    int `json:"input_vertices" msgpack:"input_vertices"`
	InputTriangles   int `json:"input_triangles" msgpack:"input_triangles"`
	MergedVertices   int `json:"merged_vertices" msgpack:"merged_vertices"`
	TrailingFloats   int `json:"trailing_floats" msgpack:"trailing_floats"`
	TrailingIndices  int `json:"trailing_indices" msgpack:"trailing_indices"`
	OutOfRange       int `json:"out_of_range" msgpack:"out_of_range"`
	Collapsed        int `json:"collapsed" msgpack:"collapsed"`
	ZeroArea         int `json:"zero_area" msgpack:"zero_area"`
	Duplicates       int `json:"duplicates" msgpack:"duplicates"`
	NonManifoldEdges int `json:"non_manifold_edges" msgpack:"non_manifold_edges"`
	BoundaryEdges    int `json:"boundary_edges" msgpack:"boundary_edges"`
}

// DroppedTriangles returns the number of input triangles that did not make it into the mesh.
func (r BuildReport) DroppedTriangles() int {
	return r.OutOfRange + r.Collapsed + r.ZeroArea + r.Duplicates
}

// NavMesh is the baked navigation mesh. It is never modified after Build.
type NavMesh struct {
	Vertices  []math32.Vector3 `json:"vertices" msgpack:"vertices"`
	Islands   [][]Polygon      `json:"islands" msgpack:"islands"`
	Bounds    geometry.AABB    `json:"bounds" msgpack:"bounds"`
	Precision int32            `json:"precision" msgpack:"precision"`
	Report    BuildReport      `json:"report" msgpack:"report"`
}

// IslandCount returns the number of connected components.
func (nm *NavMesh) IslandCount() int {
	return len(nm.Islands)
}

// PolygonCount returns the number of polygons over all islands.
func (nm *NavMesh) PolygonCount() int {
	n := 0
	for _, island := range nm.Islands {
		n += len(island)
	}
	return n
}

// Island returns the polygons of island i, or nil when i is out of range.
func (nm *NavMesh) Island(i int) []Polygon {
	if i < 0 || i >= len(nm.Islands) {
		return nil
	}
	return nm.Islands[i]
}

// Triangle returns the geometry of a polygon.
func (nm *NavMesh) Triangle(poly *Polygon) geometry.Triangle {
	return geometry.NewTriangle(nm.Vertices, poly.VertexIDs)
}

// PortalTo returns the portal leading from polygon a to polygon b of the same island.
func (nm *NavMesh) PortalTo(island int, a, b int32) (Portal, bool) {
	polys := nm.Island(island)
	if a < 0 || int(a) >= len(polys) {
		return Portal{}, false
	}
	poly := &polys[a]
	for i, nb := range poly.Neighbours {
		if nb == b {
			return poly.Portals[i], true
		}
	}
	return Portal{}, false
}

// GetDataSize estimates the in-memory payload size in bytes
func (nm *NavMesh) GetDataSize() int {
	size := 4 * 6 // bounds
	size += len(nm.Vertices) * 12
	for _, island := range nm.Islands {
		for _, poly := range island {
			size += 4 + 12 + 12 + 12 + 4 // id + vertex ids + centroid + normal + island
			size += len(poly.Neighbours) * 4
			size += len(poly.Portals) * (4 + 4 + 12)
		}
	}
	return size
}

// NavMeshStats is a summary used by the CLI and the server
type NavMeshStats struct {
	VertexCount  int           `json:"vertex_count"`
	PolygonCount int           `json:"polygon_count"`
	IslandCount  int           `json:"island_count"`
	IslandSizes  []int         `json:"island_sizes"`
	PortalCount  int           `json:"portal_count"`
	DataSize     int           `json:"data_size"`
	Bounds       geometry.AABB `json:"bounds"`
	Report       BuildReport   `json:"report"`
}

// GetStats collects the mesh summary
func (nm *NavMesh) GetStats() NavMeshStats {
	stats := NavMeshStats{
		VertexCount: len(nm.Vertices),
		IslandCount: len(nm.Islands),
		IslandSizes: make([]int, len(nm.Islands)),
		DataSize:    nm.GetDataSize(),
		Bounds:      nm.Bounds,
		Report:      nm.Report,
	}
	for i, island := range nm.Islands {
		stats.IslandSizes[i] = len(island)
		stats.PolygonCount += len(island)
		for _, poly := range island {
			stats.PortalCount += len(poly.Portals)
		}
	}
	// every portal is stored once per side
	stats.PortalCount /= 2
	return stats
}

// Validate checks the structural invariants of the mesh
func (nm *NavMesh) Validate() error {
	vertexCount := uint32(len(nm.Vertices))
	for islandID, island := range nm.Islands {
		if len(island) == 0 {
			return fmt.Errorf("%w: island %d is empty", ErrInvalidMesh, islandID)
		}
		for i := range island {
			poly := &island[i]
			if poly.ID != int32(i) {
				return fmt.Errorf("%w: island %d polygon %d has id %d", ErrInvalidMesh, islandID, i, poly.ID)
			}
			if poly.Island != int32(islandID) {
				return fmt.Errorf("%w: island %d polygon %d claims island %d", ErrInvalidMesh, islandID, i, poly.Island)
			}
			v := poly.VertexIDs
			if v[0] >= vertexCount || v[1] >= vertexCount || v[2] >= vertexCount {
				return fmt.Errorf("%w: island %d polygon %d references vertex out of range", ErrInvalidMesh, islandID, i)
			}
			if v[0] == v[1] || v[1] == v[2] || v[2] == v[0] {
				return fmt.Errorf("%w: island %d polygon %d has repeated vertices %v", ErrInvalidMesh, islandID, i, v)
			}
			if len(poly.Neighbours) != len(poly.Portals) {
				return fmt.Errorf("%w: island %d polygon %d has %d neighbours and %d portals",
					ErrInvalidMesh, islandID, i, len(poly.Neighbours), len(poly.Portals))
			}
			for k, nb := range poly.Neighbours {
				if nb < 0 || int(nb) >= len(island) || nb == int32(i) {
					return fmt.Errorf("%w: island %d polygon %d has invalid neighbour %d", ErrInvalidMesh, islandID, i, nb)
				}
				other := &island[nb]
				if !containsID(other.Neighbours, int32(i)) {
					return fmt.Errorf("%w: island %d neighbour link %d->%d is not symmetric", ErrInvalidMesh, islandID, i, nb)
				}
				portal := poly.Portals[k]
				if !hasVertex(poly.VertexIDs, portal.Left) || !hasVertex(poly.VertexIDs, portal.Right) ||
					!hasVertex(other.VertexIDs, portal.Left) || !hasVertex(other.VertexIDs, portal.Right) ||
					portal.Left == portal.Right {
					return fmt.Errorf("%w: island %d portal %d->%d is not a shared edge", ErrInvalidMesh, islandID, i, nb)
				}
			}
		}
	}
	return nil
}

func containsID(ids []int32, id int32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func hasVertex(ids [3]uint32, id uint32) bool {
	return ids[0] == id || ids[1] == id || ids[2] == id
}
