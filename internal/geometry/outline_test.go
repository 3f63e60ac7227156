package geometry

import "testing"

func TestGroupOutlineMemberCounts(t *testing.T) {
	tests := []struct {
		name   string
		pts    []Point
		wantOK bool
	}{
		{"empty", nil, false},
		{"single", []Point{{1, 1}}, false},
		{"pair", []Point{{0, 0}, {100, 0}}, true},
		{"coincident pair", []Point{{5, 5}, {5, 5}}, false},
		{"triangle", []Point{{0, 0}, {100, 0}, {50, 80}}, true},
		{"collinear", []Point{{0, 0}, {50, 0}, {100, 0}}, false},
		{"all coincident", []Point{{7, 7}, {7, 7}, {7, 7}, {7, 7}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := GroupOutline(tt.pts, RegionPadding)
			if ok != tt.wantOK {
				t.Fatalf("GroupOutline ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && len(out.Segments) != len(out.Vertices) {
				t.Errorf("closed spline should have one segment per vertex, got %d for %d vertices",
					len(out.Segments), len(out.Vertices))
			}
		})
	}
}

func TestClosedCardinalSplineIsClosed(t *testing.T) {
	pts := []Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	segs := ClosedCardinalSpline(pts, SplineTension)
	if len(segs) != len(pts) {
		t.Fatalf("expected %d segments, got %d", len(pts), len(segs))
	}
	for i, s := range segs {
		next := segs[(i+1)%len(segs)]
		if s.End != next.Start {
			t.Errorf("segment %d end %+v does not meet next start %+v", i, s.End, next.Start)
		}
		if s.Start != pts[i] {
			t.Errorf("segment %d starts at %+v, want vertex %+v", i, s.Start, pts[i])
		}
	}
}

func TestGroupOutlineExpansion(t *testing.T) {
	// Members form a triangle; the outline polygon must strictly
	// contain the member positions after expansion.
	pts := []Point{{0, 0}, {200, 0}, {100, 160}}
	out, ok := GroupOutline(pts, ProjectPadding)
	if !ok {
		t.Fatal("expected an outline for a triangle")
	}
	for _, p := range pts {
		if !containsPoint(out.Vertices, p) {
			t.Errorf("member %+v outside expanded outline", p)
		}
	}
}
