package builder

import "fmt"

// edgeKey is direction independent: a < b
type edgeKey struct {
	a, b uint32
}

func makeEdgeKey(a, b uint32) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

// edgeBucket holds the first two faces using an edge and how many use it in total
type edgeBucket struct {
	faces [2]int32
	count int32
}

func faceEdges(ids [3]uint32) [3]edgeKey {
	return [3]edgeKey{
		makeEdgeKey(ids[0], ids[1]),
		makeEdgeKey(ids[1], ids[2]),
		makeEdgeKey(ids[2], ids[0]),
	}
}

// linkNeighbours returns, per face, the faces sharing an edge with it, in the
// face's own edge order. Edges used by more than two faces fail the build
// unless allowNonManifold is set, in which case they link nothing.
func linkNeighbours(faces []face, allowNonManifold bool, report *BuildReport) ([][]int32, error) {
	buckets := make(map[edgeKey]*edgeBucket, len(faces)*3/2)
	for i := range faces {
		for _, key := range faceEdges(faces[i].ids) {
			bucket, ok := buckets[key]
			if !ok {
				bucket = &edgeBucket{}
				buckets[key] = bucket
			}
			if bucket.count < 2 {
				bucket.faces[bucket.count] = int32(i)
			}
			bucket.count++
		}
	}

	neighbours := make([][]int32, len(faces))
	for i := range faces {
		for _, key := range faceEdges(faces[i].ids) {
			bucket := buckets[key]
			// count each edge once, from the face that registered it first
			first := bucket.faces[0] == int32(i)
			switch {
			case bucket.count == 1:
				report.BoundaryEdges++
			case bucket.count > 2:
				if !allowNonManifold {
					return nil, fmt.Errorf("%w: edge (%d, %d) has %d triangles", ErrNonManifold, key.a, key.b, bucket.count)
				}
				if first {
					report.NonManifoldEdges++
				}
			default:
				other := bucket.faces[0]
				if first {
					other = bucket.faces[1]
				}
				if !containsID(neighbours[i], other) {
					neighbours[i] = append(neighbours[i], other)
				}
			}
		}
	}

	return neighbours, nil
}
