// Package geometry derives smooth boundary shapes around grouping
// member positions. Everything here is pure: outlines are recomputed
// from current node positions every simulation tick and discarded.
package geometry

import (
	"math"
	"sort"
)

// Point is a position in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Default boundary paddings. Regions hug their members tighter than
// project hulls.
const (
	RegionPadding  = 40.0
	ProjectPadding = 80.0
)

// SplineTension is the cardinal-spline tension used for outline
// smoothing.
const SplineTension = 0.7

// minHullArea is the threshold below which a hull is considered
// degenerate (coincident or collinear members) and not rendered.
const minHullArea = 1e-9

// ConvexHull computes the convex hull of pts via a Graham scan:
// pivot at the lowest-y point (ties broken by lowest x), remaining
// points sorted by polar angle around the pivot, scan popping the last
// hull vertex whenever the turn is not strictly left.
//
// Returns hull vertices in counter-clockwise order. Fewer than three
// input points are returned as-is.
func ConvexHull(pts []Point) []Point {
	if len(pts) < 3 {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}

	sorted := make([]Point, len(pts))
	copy(sorted, pts)

	pivot := sorted[0]
	pivotIdx := 0
	for i, p := range sorted[1:] {
		if p.Y < pivot.Y || (p.Y == pivot.Y && p.X < pivot.X) {
			pivot = p
			pivotIdx = i + 1
		}
	}
	sorted[0], sorted[pivotIdx] = sorted[pivotIdx], sorted[0]

	rest := sorted[1:]
	sort.Slice(rest, func(i, j int) bool {
		c := cross(pivot, rest[i], rest[j])
		if c != 0 {
			return c > 0
		}
		// Collinear with the pivot: nearer point first.
		return distSq(pivot, rest[i]) < distSq(pivot, rest[j])
	})

	hull := make([]Point, 0, len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull
}

// Centroid returns the arithmetic mean of pts. The zero Point is
// returned for an empty set.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
	}
	c.X /= float64(len(pts))
	c.Y /= float64(len(pts))
	return c
}

// Expand translates every hull vertex away from the hull centroid
// along the centroid→vertex ray by padding. A vertex coinciding with
// the centroid has no defined direction and is left unmoved.
func Expand(hull []Point, padding float64) []Point {
	c := Centroid(hull)
	out := make([]Point, len(hull))
	for i, p := range hull {
		dx, dy := p.X-c.X, p.Y-c.Y
		d := math.Hypot(dx, dy)
		if d == 0 {
			out[i] = p
			continue
		}
		out[i] = Point{
			X: p.X + dx/d*padding,
			Y: p.Y + dy/d*padding,
		}
	}
	return out
}

// Pill synthesizes a quadrilateral around the segment a–b by offsetting
// both endpoints perpendicular to the segment by halfWidth on each
// side. It is the two-member stand-in for a hull, a visual
// approximation rather than a geometric one. Coincident endpoints have
// no defined perpendicular; no shape is produced.
func Pill(a, b Point, halfWidth float64) []Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return nil
	}
	// Unit perpendicular.
	px, py := -dy/d, dx/d
	return []Point{
		{a.X + px*halfWidth, a.Y + py*halfWidth},
		{b.X + px*halfWidth, b.Y + py*halfWidth},
		{b.X - px*halfWidth, b.Y - py*halfWidth},
		{a.X - px*halfWidth, a.Y - py*halfWidth},
	}
}

// polygonArea returns the absolute shoelace area of a closed polygon.
func polygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

// cross returns the z component of (b-a) × (c-a); positive means the
// turn a→b→c is counter-clockwise.
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func distSq(a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dx*dx + dy*dy
}
