// Package zoom maps a continuous view scale to visual parameters,
// piecewise-linear between named breakpoints.
package zoom

import "time"

// Scale breakpoints. Labels fade over [0.3,0.5] (items) and [0.4,0.6]
// (link similarity); nodes shrink below 0.5; link strokes dim below
// 0.3; project hulls brighten as the view zooms out past 0.6.
const (
	itemLabelLow   = 0.3
	itemLabelHigh  = 0.5
	linkLabelLow   = 0.4
	linkLabelHigh  = 0.6
	nodeFullRadius = 8.0
	nodeMinRadius  = 3.0
	strokeKnee     = 0.3
	strokeFloor    = 0.3
	hullKnee       = 0.6
	hullBase       = 0.2
)

// TransitionDuration is the easing window between successive
// parameter evaluations, smoothing continuous zoom gestures.
const TransitionDuration = 150 * time.Millisecond

// Params are the visual parameters derived from one zoom scale.
type Params struct {
	// ItemLabelOpacity fades item titles in above scale 0.5.
	ItemLabelOpacity float64 `json:"item_label_opacity"`
	// LinkLabelOpacity fades similarity labels in above scale 0.6.
	LinkLabelOpacity float64 `json:"link_label_opacity"`
	// NodeRadius is the rendered node radius in layout units.
	NodeRadius float64 `json:"node_radius"`
	// LinkOpacityScale multiplies each link's base opacity.
	LinkOpacityScale float64 `json:"link_opacity_scale"`
	// ProjectHullOpacity applies to project hull fills; regions are
	// unaffected by zoom.
	ProjectHullOpacity float64 `json:"project_hull_opacity"`
}

// ParamsAt evaluates the visual parameters for scale k. Every segment
// is linear and every boundary is continuous.
func ParamsAt(k float64) Params {
	return Params{
		ItemLabelOpacity:   fadeIn(k, itemLabelLow, itemLabelHigh),
		LinkLabelOpacity:   fadeIn(k, linkLabelLow, linkLabelHigh),
		NodeRadius:         nodeRadius(k),
		LinkOpacityScale:   strokeScale(k),
		ProjectHullOpacity: hullOpacity(k),
	}
}

// fadeIn is 0 below low, 1 above high, linear in between.
func fadeIn(k, low, high float64) float64 {
	switch {
	case k <= low:
		return 0
	case k >= high:
		return 1
	}
	return (k - low) / (high - low)
}

func nodeRadius(k float64) float64 {
	if k > itemLabelHigh {
		return nodeFullRadius
	}
	r := nodeFullRadius * (k / itemLabelHigh)
	if r < nodeMinRadius {
		return nodeMinRadius
	}
	return r
}

func strokeScale(k float64) float64 {
	if k > strokeKnee {
		return 1
	}
	s := k / strokeKnee
	if s < strokeFloor {
		return strokeFloor
	}
	return s
}

func hullOpacity(k float64) float64 {
	if k >= hullKnee {
		return hullBase
	}
	o := (hullKnee-k)*3 + hullBase
	if o > 1 {
		return 1
	}
	return o
}
