package query

import (
	"github.com/o0olele/navmesh-go/geometry"
	"github.com/o0olele/navmesh-go/math32"
)

// RaycastHit is the first polygon hit by a ray
type RaycastHit struct {
	Island   int            `json:"island"`
	Polygon  int32          `json:"polygon"`
	Point    math32.Vector3 `json:"point"`
	Distance float32        `json:"distance"`
}

// Raycast returns the closest polygon hit by the ray, e.g. to snap a picked
// screen point onto the mesh before FindPath.
func (nq *NavigationQuery) Raycast(ray geometry.Ray) (RaycastHit, bool) {
	hit := RaycastHit{Island: -1, Polygon: -1}
	if ray.Dir.LengthSquared() == 0 {
		return hit, false
	}
	_, far, ok := ray.IntersectAABB(nq.navMesh.Bounds)
	if !ok {
		return hit, false
	}

	best := far + 1e-3
	for islandID, island := range nq.navMesh.Islands {
		for i := range island {
			tri := nq.navMesh.Triangle(&island[i])
			if t, ok := ray.IntersectTriangle(&tri); ok && t < best {
				best = t
				hit.Island = islandID
				hit.Polygon = island[i].ID
			}
		}
	}
	if hit.Polygon < 0 {
		return hit, false
	}
	hit.Point = ray.At(best)
	hit.Distance = best * ray.Dir.Length()
	return hit, true
}
