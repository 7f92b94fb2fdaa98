package builder

import "sort"

// partitionIslands groups faces into connected components and turns them
// into island-local polygons with portals.
func partitionIslands(faces []face, neighbours [][]int32) [][]Polygon {
	labels := make([]int32, len(faces))
	for i := range labels {
		labels[i] = -1
	}

	var islands [][]int32
	stack := make([]int32, 0, 64)
	for seed := range faces {
		if labels[seed] >= 0 {
			continue
		}
		islandID := int32(len(islands))
		members := []int32{int32(seed)}
		labels[seed] = islandID
		stack = append(stack[:0], int32(seed))
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range neighbours[cur] {
				if labels[nb] >= 0 {
					continue
				}
				labels[nb] = islandID
				members = append(members, nb)
				stack = append(stack, nb)
			}
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		islands = append(islands, members)
	}

	// global face index -> island local index
	local := make([]int32, len(faces))
	for _, members := range islands {
		for i, g := range members {
			local[g] = int32(i)
		}
	}

	result := make([][]Polygon, len(islands))
	for islandID, members := range islands {
		polys := make([]Polygon, len(members))
		for i, g := range members {
			f := &faces[g]
			poly := Polygon{
				ID:         int32(i),
				VertexIDs:  f.ids,
				Centroid:   f.centroid,
				Normal:     f.normal,
				Island:     int32(islandID),
				Neighbours: make([]int32, 0, len(neighbours[g])),
				Portals:    make([]Portal, 0, len(neighbours[g])),
			}
			for _, nb := range neighbours[g] {
				right, left := sharedEdge(f.ids, faces[nb].ids)
				poly.Neighbours = append(poly.Neighbours, local[nb])
				poly.Portals = append(poly.Portals, Portal{
					Left:   left,
					Right:  right,
					Normal: faces[nb].normal,
				})
			}
			polys[i] = poly
		}
		result[islandID] = polys
	}
	return result
}

// sharedEdge returns the edge shared by a and b as a directed edge of a's
// winding: right is where it starts, left where it ends.
func sharedEdge(a, b [3]uint32) (right, left uint32) {
	shared := collectShared(a, b)
	if shared[0] == a[0] && shared[1] == a[2] {
		// vertex 2 -> 0 wraps around, rotate to walk it in order
		shared = collectShared([3]uint32{a[1], a[2], a[0]}, b)
	}
	return shared[0], shared[1]
}

func collectShared(a, b [3]uint32) [2]uint32 {
	var shared [2]uint32
	n := 0
	for _, v := range a {
		if n < 2 && hasVertex(b, v) {
			shared[n] = v
			n++
		}
	}
	return shared
}
