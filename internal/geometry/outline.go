package geometry

// Segment is one cubic Bézier piece of a smoothed outline, running
// from Start to End with control points C1 and C2.
type Segment struct {
	Start Point `json:"start"`
	C1    Point `json:"c1"`
	C2    Point `json:"c2"`
	End   Point `json:"end"`
}

// Outline is the renderable boundary of a grouping for one tick.
type Outline struct {
	// Vertices is the expanded polygon the spline interpolates.
	Vertices []Point `json:"vertices"`
	// Segments traces the closed smoothed boundary.
	Segments []Segment `json:"segments"`
	// Centroid of the member positions, used for label placement.
	Centroid Point `json:"centroid"`
}

// GroupOutline derives the boundary shape for a grouping's current
// member positions.
//
// Zero or one member: no outline (ok=false). Exactly two: a pill
// quadrilateral of the given half-width. Three or more: convex hull,
// expanded away from its centroid by padding. Degenerate member sets
// (coincident or collinear, hull area ~0) produce no outline for the
// tick rather than an error.
func GroupOutline(pts []Point, padding float64) (Outline, bool) {
	switch len(pts) {
	case 0, 1:
		return Outline{}, false
	case 2:
		quad := Pill(pts[0], pts[1], padding)
		if quad == nil {
			return Outline{}, false
		}
		return Outline{
			Vertices: quad,
			Segments: ClosedCardinalSpline(quad, SplineTension),
			Centroid: Centroid(pts),
		}, true
	}

	hull := ConvexHull(pts)
	if polygonArea(hull) < minHullArea {
		return Outline{}, false
	}
	expanded := Expand(hull, padding)
	return Outline{
		Vertices: expanded,
		Segments: ClosedCardinalSpline(expanded, SplineTension),
		Centroid: Centroid(pts),
	}, true
}

// ClosedCardinalSpline converts a closed polygon into a sequence of
// cubic Bézier segments interpolating every vertex, with tangents
// scaled by the cardinal tension: k = (1-tension)/6, control points
// c1 = p1 + k·(p2−p0) and c2 = p2 − k·(p3−p1). Tension 1 degenerates
// to straight edges; lower tension rounds the corners.
func ClosedCardinalSpline(pts []Point, tension float64) []Segment {
	n := len(pts)
	if n < 3 {
		return nil
	}
	k := (1 - tension) / 6
	segs := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		p0 := pts[(i-1+n)%n]
		p1 := pts[i]
		p2 := pts[(i+1)%n]
		p3 := pts[(i+2)%n]
		segs = append(segs, Segment{
			Start: p1,
			C1:    Point{p1.X + k*(p2.X-p0.X), p1.Y + k*(p2.Y-p0.Y)},
			C2:    Point{p2.X - k*(p3.X-p1.X), p2.Y - k*(p3.Y-p1.Y)},
			End:   p2,
		})
	}
	return segs
}
