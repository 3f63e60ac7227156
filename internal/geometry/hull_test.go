package geometry

import (
	"math"
	"math/rand"
	"testing"
)

// containsPoint reports whether p lies inside or on the boundary of a
// counter-clockwise convex polygon.
func containsPoint(hull []Point, p Point) bool {
	const eps = 1e-9
	for i := range hull {
		j := (i + 1) % len(hull)
		if cross(hull[i], hull[j], p) < -eps {
			return false
		}
	}
	return true
}

func TestConvexHullContainsAllPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := 3 + rng.Intn(120)
		pts := make([]Point, n)
		for i := range pts {
			pts[i] = Point{rng.Float64()*1000 - 500, rng.Float64()*1000 - 500}
		}

		hull := ConvexHull(pts)
		if len(hull) < 3 {
			t.Fatalf("trial %d: hull has %d vertices for %d points", trial, len(hull), n)
		}
		for _, p := range pts {
			if !containsPoint(hull, p) {
				t.Fatalf("trial %d: point %+v outside hull %+v", trial, p, hull)
			}
		}
	}
}

func TestConvexHullKnownSquare(t *testing.T) {
	pts := []Point{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{5, 5}, {2, 3}, {7, 8}, // interior points
	}
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("expected 4 hull vertices, got %d: %+v", len(hull), hull)
	}
	if hull[0] != (Point{0, 0}) {
		t.Errorf("expected pivot (0,0) first, got %+v", hull[0])
	}
}

func TestConvexHullCollinear(t *testing.T) {
	pts := []Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	hull := ConvexHull(pts)
	if polygonArea(hull) > minHullArea {
		t.Errorf("collinear points should yield zero-area hull, got area %v", polygonArea(hull))
	}
}

func TestExpandMovesVerticesByPadding(t *testing.T) {
	hull := []Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	const padding = 40.0

	c := Centroid(hull)
	expanded := Expand(hull, padding)

	for i, v := range hull {
		before := math.Hypot(v.X-c.X, v.Y-c.Y)
		after := math.Hypot(expanded[i].X-c.X, expanded[i].Y-c.Y)
		if math.Abs(after-before-padding) > 1e-9 {
			t.Errorf("vertex %d moved %v, want exactly %v", i, after-before, padding)
		}
	}
}

func TestExpandVertexAtCentroidUnmoved(t *testing.T) {
	// All vertices coincident: centroid equals every vertex, direction
	// is undefined, vertices stay put.
	hull := []Point{{5, 5}, {5, 5}, {5, 5}}
	expanded := Expand(hull, 40)
	for i, v := range expanded {
		if v != (Point{5, 5}) {
			t.Errorf("vertex %d moved to %+v, want (5,5)", i, v)
		}
	}
}

func TestPillSymmetry(t *testing.T) {
	a, b := Point{0, 0}, Point{100, 0}
	quad := Pill(a, b, 40)
	if len(quad) != 4 {
		t.Fatalf("expected quadrilateral, got %d points", len(quad))
	}

	var cx, cy float64
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range quad {
		cx += p.X
		cy += p.Y
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	cx /= 4
	cy /= 4

	if math.Abs(cx-50) > 1e-9 || math.Abs(cy) > 1e-9 {
		t.Errorf("quad center = (%v,%v), want (50,0)", cx, cy)
	}
	if math.Abs((maxY-minY)-80) > 1e-9 {
		t.Errorf("y-extent = %v, want 80", maxY-minY)
	}
}

func TestPillCoincidentEndpoints(t *testing.T) {
	if quad := Pill(Point{3, 3}, Point{3, 3}, 40); quad != nil {
		t.Errorf("coincident endpoints should produce no pill, got %+v", quad)
	}
}

func TestCentroid(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want Point
	}{
		{"empty", nil, Point{}},
		{"single", []Point{{3, 7}}, Point{3, 7}},
		{"square", []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, Point{5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Centroid(tt.pts); got != tt.want {
				t.Errorf("Centroid(%+v) = %+v, want %+v", tt.pts, got, tt.want)
			}
		})
	}
}
