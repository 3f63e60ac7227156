package zoom

import (
	"sync"
	"time"
)

// Controller owns the eased transition between successive parameter
// evaluations. Instantaneous jumps during continuous zoom gestures
// cause visual popping; instead each SetScale starts a short ease
// from the currently displayed parameters to the new targets.
//
// The clock is injected so the easing is testable without wall time.
type Controller struct {
	now func() time.Time

	mu     sync.Mutex
	scale  float64
	from   Params
	to     Params
	begun  time.Time
	easing bool
}

// NewController creates a controller at the given initial scale.
// A nil clock defaults to time.Now.
func NewController(initialScale float64, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	p := ParamsAt(initialScale)
	return &Controller{
		now:   now,
		scale: initialScale,
		from:  p,
		to:    p,
	}
}

// SetScale re-evaluates the parameter table for k and begins easing
// from whatever is currently displayed toward the new values.
func (c *Controller) SetScale(k float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if k == c.scale {
		return
	}
	c.from = c.currentLocked()
	c.to = ParamsAt(k)
	c.scale = k
	c.begun = c.now()
	c.easing = true
}

// Scale returns the scale of the latest evaluation.
func (c *Controller) Scale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale
}

// Current returns the displayed parameters at this instant,
// interpolated along the active ease if one is in flight.
func (c *Controller) Current() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *Controller) currentLocked() Params {
	if !c.easing {
		return c.to
	}
	t := float64(c.now().Sub(c.begun)) / float64(TransitionDuration)
	if t >= 1 {
		c.easing = false
		return c.to
	}
	if t < 0 {
		t = 0
	}
	e := easeInOut(t)
	return Params{
		ItemLabelOpacity:   lerp(c.from.ItemLabelOpacity, c.to.ItemLabelOpacity, e),
		LinkLabelOpacity:   lerp(c.from.LinkLabelOpacity, c.to.LinkLabelOpacity, e),
		NodeRadius:         lerp(c.from.NodeRadius, c.to.NodeRadius, e),
		LinkOpacityScale:   lerp(c.from.LinkOpacityScale, c.to.LinkOpacityScale, e),
		ProjectHullOpacity: lerp(c.from.ProjectHullOpacity, c.to.ProjectHullOpacity, e),
	}
}

// easeInOut is the cubic smoothstep over [0,1].
func easeInOut(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
