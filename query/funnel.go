package query

import (
	"github.com/o0olele/navmesh-go/builder"
	"github.com/o0olele/navmesh-go/math32"
)

// channelPortal is one portal of the corridor being pulled. normal belongs
// to the surface beyond the portal; crucial marks a fold.
type channelPortal struct {
	left, right         math32.Vector3
	flatLeft, flatRight math32.Vector3
	normal              math32.Vector3
	crucial             bool
}

// turn is positive when c lies left of a->b seen from above normal
func turn(a, b, c, normal math32.Vector3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Dot(normal)
}

// strictlyInside reports whether c is on the side of a->b given by sign.
// A c collinear with a and b but behind a counts as inside, which keeps an
// apex lying on a portal edge from popping.
func strictlyInside(a, b, c, normal math32.Vector3, sign float32) bool {
	t := turn(a, b, c, normal) * sign
	return t > 0 || (t == 0 && c.Sub(a).Dot(b.Sub(a)) < 0)
}

// buildChannel brackets the corridor portals with zero width portals at start and target.
func (nq *NavigationQuery) buildChannel(island int, corridor []int32, start, target math32.Vector3) []channelPortal {
	polys := nq.navMesh.Islands[island]
	vertices := nq.navMesh.Vertices

	channel := make([]channelPortal, 0, len(corridor)+1)
	channel = append(channel, channelPortal{
		left:   start,
		right:  start,
		normal: polys[corridor[0]].Normal,
	})
	for i := 0; i+1 < len(corridor); i++ {
		portal, ok := nq.navMesh.PortalTo(island, corridor[i], corridor[i+1])
		if !ok {
			continue
		}
		channel = append(channel, channelPortal{
			left:   vertices[portal.Left],
			right:  vertices[portal.Right],
			normal: portal.Normal,
		})
	}
	channel = append(channel, channelPortal{
		left:   target,
		right:  target,
		normal: polys[corridor[len(corridor)-1]].Normal,
	})

	for i := 1; i < len(channel); i++ {
		channel[i].crucial = channel[i].normal.Dot(channel[i-1].normal) < nq.foldCos
	}
	return channel
}

// polyline collects path points and the surface normal under each. Points
// closer than epsilon to the previous one are merged into it.
type polyline struct {
	points  []math32.Vector3
	normals []math32.Vector3
	epsilon float32
}

func (pl *polyline) same(a, b math32.Vector3) bool {
	return a.ApproxEqual(b, pl.epsilon*pl.epsilon)
}

func (pl *polyline) push(p, normal math32.Vector3) {
	if n := len(pl.points); n > 0 && pl.same(pl.points[n-1], p) {
		return
	}
	pl.points = append(pl.points, p)
	pl.normals = append(pl.normals, normal)
}

// finish ends the line exactly at p. A last corner merged with p gives way
// to it; the first point never does.
func (pl *polyline) finish(p, normal math32.Vector3) {
	if n := len(pl.points); n > 1 && pl.same(pl.points[n-1], p) {
		pl.points[n-1] = p
		pl.normals[n-1] = normal
		return
	}
	pl.points = append(pl.points, p)
	pl.normals = append(pl.normals, normal)
}

// pullString runs the funnel algorithm over the channel. Left/right tests
// happen in the plane of the current apex; portals beyond a fold are first
// unfolded into that plane by a foldFrame. Points closer than epsilon are
// the same point.
func pullString(channel []channelPortal, start, target math32.Vector3, epsilon float32) polyline {
	out := polyline{epsilon: epsilon}
	var frame foldFrame

	apexIndex, leftIndex, rightIndex := 0, 0, 0
	portalApex, portalLeft, portalRight := start, start, start
	channel[0].flatLeft, channel[0].flatRight = start, start
	frame.reset(channel[0].normal)
	out.push(start, channel[0].normal)

	// foldCorners adds the corners on the folds crossed between the apex and
	// the portal at newIndex, whose flattened point is flat
	foldCorners := func(newIndex int, flat math32.Vector3) {
		normal := channel[apexIndex].normal
		for k := apexIndex + 1; k < newIndex; k++ {
			p := &channel[k]
			if !p.crucial {
				continue
			}
			if corner, ok := foldCorner(portalApex, flat, p.flatLeft, p.flatRight, p.left, p.right, normal); ok {
				out.push(corner, p.normal)
			}
		}
	}
	emitApex := func(newIndex int, raw, flat math32.Vector3) {
		foldCorners(newIndex, flat)
		out.push(raw, channel[newIndex].normal)
	}

	for i := 1; i < len(channel); i++ {
		p := &channel[i]
		p.flatLeft = frame.flatten(p.left)
		p.flatRight = frame.flatten(p.right)
		normal := channel[apexIndex].normal

		// Update right vertex.
		if turn(portalApex, portalRight, p.flatRight, normal) >= 0 {
			if out.same(portalApex, portalRight) || strictlyInside(portalApex, portalLeft, p.flatRight, normal, -1) {
				// Tighten the funnel.
				portalRight = p.flatRight
				rightIndex = i
			} else {
				// Right over left, the left point becomes the new apex.
				raw := channel[leftIndex].left
				emitApex(leftIndex, raw, portalLeft)
				apexIndex = leftIndex
				portalApex, portalLeft, portalRight = raw, raw, raw
				rightIndex = apexIndex
				frame.reset(channel[apexIndex].normal)
				i = apexIndex
				continue
			}
		}

		// Update left vertex.
		if turn(portalApex, portalLeft, p.flatLeft, normal) <= 0 {
			if out.same(portalApex, portalLeft) || strictlyInside(portalApex, portalRight, p.flatLeft, normal, 1) {
				// Tighten the funnel.
				portalLeft = p.flatLeft
				leftIndex = i
			} else {
				// Left over right, the right point becomes the new apex.
				raw := channel[rightIndex].right
				emitApex(rightIndex, raw, portalRight)
				apexIndex = rightIndex
				portalApex, portalLeft, portalRight = raw, raw, raw
				leftIndex = apexIndex
				frame.reset(channel[apexIndex].normal)
				i = apexIndex
				continue
			}
		}

		if p.crucial {
			frame.cross(p.left, p.right, p.normal)
		}
	}

	last := len(channel) - 1
	if apexIndex < last {
		foldCorners(last, channel[last].flatLeft)
	}
	out.finish(target, channel[last].normal)
	return out
}

// corridorPolyline is the cheap path through the corridor centroids
func corridorPolyline(polys []builder.Polygon, corridor []int32) polyline {
	out := polyline{
		points:  make([]math32.Vector3, 0, len(corridor)),
		normals: make([]math32.Vector3, 0, len(corridor)),
	}
	for _, id := range corridor {
		out.points = append(out.points, polys[id].Centroid)
		out.normals = append(out.normals, polys[id].Normal)
	}
	return out
}
