package query

// openList is the A* open set. It holds polygon ids and orders them by the
// f score of their arena record; each record remembers its heap position so
// a shorter route can be fixed in place.
type openList struct {
	ids   []int32
	nodes []searchNode
}

func (ol *openList) Len() int { return len(ol.ids) }

func (ol *openList) Less(i, j int) bool {
	return ol.nodes[ol.ids[i]].f < ol.nodes[ol.ids[j]].f
}

func (ol *openList) Swap(i, j int) {
	ol.ids[i], ol.ids[j] = ol.ids[j], ol.ids[i]
	ol.nodes[ol.ids[i]].heapIndex = i
	ol.nodes[ol.ids[j]].heapIndex = j
}

// Push appends a polygon id
func (ol *openList) Push(x any) {
	id := x.(int32)
	ol.nodes[id].heapIndex = len(ol.ids)
	ol.ids = append(ol.ids, id)
}

// Pop removes the last polygon id
func (ol *openList) Pop() any {
	n := len(ol.ids) - 1
	id := ol.ids[n]
	ol.ids = ol.ids[:n]
	ol.nodes[id].heapIndex = -1
	return id
}

// reset empties the list and points it at a new arena
func (ol *openList) reset(nodes []searchNode) {
	ol.ids = ol.ids[:0]
	ol.nodes = nodes
}
