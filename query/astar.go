package query

import (
	"container/heap"
	"sync"

	"github.com/o0olele/navmesh-go/builder"
	"github.com/o0olele/navmesh-go/math32"
)

// searchNode is the per-search record of one polygon
type searchNode struct {
	g, h, f   float32
	parent    int32
	heapIndex int
}

// searchArena holds the scratch of one A* call. Arenas are pooled and never
// shared between running searches.
type searchArena struct {
	nodes   []searchNode
	visited math32.Bitmap
	closed  math32.Bitmap
	open    openList
}

var arenaPool = sync.Pool{
	New: func() any {
		return &searchArena{}
	},
}

func acquireArena(size int) *searchArena {
	arena := arenaPool.Get().(*searchArena)
	if cap(arena.nodes) < size {
		arena.nodes = make([]searchNode, size)
	}
	arena.nodes = arena.nodes[:size]
	arena.visited.Reset(uint32(size))
	arena.closed.Reset(uint32(size))
	arena.open.reset(arena.nodes)
	return arena
}

func releaseArena(arena *searchArena) {
	arena.open.reset(nil)
	arenaPool.Put(arena)
}

// astar A*寻路算法. It returns the corridor from startID to targetID, both
// included, or nil when the target cannot be reached.
func (nq *NavigationQuery) astar(polys []builder.Polygon, startID, targetID int32, start, target math32.Vector3) []int32 {
	if startID == targetID {
		return []int32{startID}
	}

	arena := acquireArena(len(polys))
	defer releaseArena(arena)

	nodes := arena.nodes
	heuristic := func(id int32) float32 {
		c := polys[id].Centroid
		if nq.pathPreferences.LinearHeuristic {
			return c.Distance(target)
		}
		return c.DistanceSquared(target) + c.DistanceSquared(start)
	}

	first := &nodes[startID]
	first.g = 0
	first.h = heuristic(startID)
	first.f = first.h
	first.parent = -1
	arena.visited.Set(uint32(startID))
	heap.Push(&arena.open, startID)

	maxIterations := nq.pathPreferences.MaxIterations
	for iterations := 0; arena.open.Len() > 0; iterations++ {
		if maxIterations > 0 && iterations >= maxIterations {
			return nil
		}

		currentID := heap.Pop(&arena.open).(int32)

		if currentID == targetID {
			// 重构路径
			length := 0
			for id := targetID; id != -1; id = nodes[id].parent {
				length++
			}
			path := make([]int32, length)
			for id := targetID; id != -1; id = nodes[id].parent {
				length--
				path[length] = id
			}
			return path
		}

		arena.closed.Set(uint32(currentID))
		cur := &nodes[currentID]
		for _, neighbourID := range polys[currentID].Neighbours {
			if arena.closed.Contains(uint32(neighbourID)) {
				continue
			}

			tentativeG := cur.g + polys[currentID].Centroid.Distance(polys[neighbourID].Centroid)
			nb := &nodes[neighbourID]
			if !arena.visited.Contains(uint32(neighbourID)) {
				arena.visited.Set(uint32(neighbourID))
				nb.h = heuristic(neighbourID)
				nb.g = tentativeG
				nb.f = nb.g + nb.h
				nb.parent = currentID
				heap.Push(&arena.open, neighbourID)
				continue
			}

			if tentativeG < nb.g {
				nb.g = tentativeG
				nb.f = nb.g + nb.h
				nb.parent = currentID
				if nb.heapIndex >= 0 {
					heap.Fix(&arena.open, nb.heapIndex)
				}
			}
		}
	}

	return nil // 没有找到路径
}
