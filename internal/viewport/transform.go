// Package viewport models the pan/zoom transform owned by the view.
package viewport

// Scale bounds for the zoom gesture.
const (
	KMin = 0.1
	KMax = 4.0
)

// Transform is the current zoom scale plus pan offset. Screen
// coordinates relate to world (layout) coordinates by
// screen = world*K + (TX, TY).
type Transform struct {
	K  float64 `json:"scale"`
	TX float64 `json:"translateX"`
	TY float64 `json:"translateY"`
}

// Identity is the untransformed viewport.
func Identity() Transform {
	return Transform{K: 1}
}

// Clamped returns the transform with its scale bounded to [KMin, KMax].
func (t Transform) Clamped() Transform {
	if t.K < KMin {
		t.K = KMin
	}
	if t.K > KMax {
		t.K = KMax
	}
	return t
}

// ToWorld converts a screen-space pointer position into layout space,
// correcting for the current pan and zoom. Used for drag pinning and
// hit-testing.
func (t Transform) ToWorld(sx, sy float64) (float64, float64) {
	return (sx - t.TX) / t.K, (sy - t.TY) / t.K
}

// ToScreen converts a layout-space position into screen space.
func (t Transform) ToScreen(wx, wy float64) (float64, float64) {
	return wx*t.K + t.TX, wy*t.K + t.TY
}
