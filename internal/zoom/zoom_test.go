package zoom

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsAtKnownScales(t *testing.T) {
	tests := []struct {
		name string
		k    float64
		want Params
	}{
		{
			name: "far out",
			k:    0.1,
			want: Params{
				ItemLabelOpacity:   0,
				LinkLabelOpacity:   0,
				NodeRadius:         3, // clamped floor
				LinkOpacityScale:   1.0 / 3.0,
				ProjectHullOpacity: 1, // (0.6-0.1)*3+0.2 clamps at 1
			},
		},
		{
			name: "stroke knee",
			k:    0.3,
			want: Params{
				ItemLabelOpacity:   0,
				LinkLabelOpacity:   0,
				NodeRadius:         4.8,
				LinkOpacityScale:   1,
				ProjectHullOpacity: 1,
			},
		},
		{
			name: "link label low edge",
			k:    0.4,
			want: Params{
				ItemLabelOpacity:   0.5,
				LinkLabelOpacity:   0,
				NodeRadius:         6.4,
				LinkOpacityScale:   1,
				ProjectHullOpacity: 0.8,
			},
		},
		{
			name: "item labels fully in",
			k:    0.5,
			want: Params{
				ItemLabelOpacity:   1,
				LinkLabelOpacity:   0.5,
				NodeRadius:         8,
				LinkOpacityScale:   1,
				ProjectHullOpacity: 0.5,
			},
		},
		{
			name: "hull knee",
			k:    0.6,
			want: Params{
				ItemLabelOpacity:   1,
				LinkLabelOpacity:   1,
				NodeRadius:         8,
				LinkOpacityScale:   1,
				ProjectHullOpacity: 0.2,
			},
		},
		{
			name: "zoomed in",
			k:    2.0,
			want: Params{
				ItemLabelOpacity:   1,
				LinkLabelOpacity:   1,
				NodeRadius:         8,
				LinkOpacityScale:   1,
				ProjectHullOpacity: 0.2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParamsAt(tt.k)
			assert.InDelta(t, tt.want.ItemLabelOpacity, got.ItemLabelOpacity, 1e-9)
			assert.InDelta(t, tt.want.LinkLabelOpacity, got.LinkLabelOpacity, 1e-9)
			assert.InDelta(t, tt.want.NodeRadius, got.NodeRadius, 1e-9)
			assert.InDelta(t, tt.want.LinkOpacityScale, got.LinkOpacityScale, 1e-9)
			assert.InDelta(t, tt.want.ProjectHullOpacity, got.ProjectHullOpacity, 1e-9)
		})
	}
}

// Every segment boundary must be continuous: evaluating a hair on
// either side of a breakpoint yields nearly identical parameters.
func TestParamsContinuousAtBreakpoints(t *testing.T) {
	const eps = 1e-7
	for _, k := range []float64{0.3, 0.4, 0.5, 0.6} {
		lo := ParamsAt(k - eps)
		hi := ParamsAt(k + eps)
		assert.InDelta(t, lo.ItemLabelOpacity, hi.ItemLabelOpacity, 1e-5, "item label at %v", k)
		assert.InDelta(t, lo.LinkLabelOpacity, hi.LinkLabelOpacity, 1e-5, "link label at %v", k)
		assert.InDelta(t, lo.NodeRadius, hi.NodeRadius, 1e-5, "node radius at %v", k)
		assert.InDelta(t, lo.LinkOpacityScale, hi.LinkOpacityScale, 1e-5, "stroke at %v", k)
		assert.InDelta(t, lo.ProjectHullOpacity, hi.ProjectHullOpacity, 1e-5, "hull at %v", k)
	}
}

func TestParamsMonotonicity(t *testing.T) {
	prev := ParamsAt(0.05)
	for k := 0.06; k <= 4.0; k += 0.01 {
		cur := ParamsAt(k)
		assert.GreaterOrEqual(t, cur.ItemLabelOpacity, prev.ItemLabelOpacity)
		assert.GreaterOrEqual(t, cur.LinkLabelOpacity, prev.LinkLabelOpacity)
		assert.GreaterOrEqual(t, cur.NodeRadius, prev.NodeRadius)
		assert.GreaterOrEqual(t, cur.LinkOpacityScale, prev.LinkOpacityScale)
		// Hull opacity runs the other way: zooming in dims project hulls.
		assert.LessOrEqual(t, cur.ProjectHullOpacity, prev.ProjectHullOpacity)
		prev = cur
	}
}

func TestControllerEasesBetweenScales(t *testing.T) {
	clock := time.Unix(0, 0)
	now := func() time.Time { return clock }

	c := NewController(1.0, now)
	require.Equal(t, ParamsAt(1.0), c.Current())

	c.SetScale(0.2)
	assert.Equal(t, 0.2, c.Scale())

	// At t=0 the displayed parameters are still the old ones.
	start := c.Current()
	assert.InDelta(t, ParamsAt(1.0).NodeRadius, start.NodeRadius, 1e-9)

	// Halfway through the window we are strictly between the two.
	clock = clock.Add(TransitionDuration / 2)
	mid := c.Current()
	lo, hi := ParamsAt(0.2).NodeRadius, ParamsAt(1.0).NodeRadius
	assert.Greater(t, mid.NodeRadius, lo)
	assert.Less(t, mid.NodeRadius, hi)

	// After the window, exactly the target.
	clock = clock.Add(TransitionDuration)
	assert.Equal(t, ParamsAt(0.2), c.Current())
}

func TestControllerRetargetsMidEase(t *testing.T) {
	clock := time.Unix(0, 0)
	now := func() time.Time { return clock }

	c := NewController(1.0, now)
	c.SetScale(0.2)
	clock = clock.Add(TransitionDuration / 2)
	mid := c.Current()

	// A new gesture mid-ease starts from the displayed value, not the
	// original endpoint, so there is no pop.
	c.SetScale(1.0)
	got := c.Current()
	assert.InDelta(t, mid.NodeRadius, got.NodeRadius, 1e-9)

	clock = clock.Add(2 * TransitionDuration)
	assert.Equal(t, ParamsAt(1.0), c.Current())
}

func TestControllerSameScaleIsNoop(t *testing.T) {
	clock := time.Unix(0, 0)
	c := NewController(0.7, func() time.Time { return clock })
	before := c.Current()
	c.SetScale(0.7)
	assert.Equal(t, before, c.Current())
}

func TestEaseInOutShape(t *testing.T) {
	assert.Equal(t, 0.0, easeInOut(0))
	assert.Equal(t, 1.0, easeInOut(1))
	assert.Equal(t, 0.5, easeInOut(0.5))
	// Symmetric about the midpoint.
	for _, v := range []float64{0.1, 0.25, 0.4} {
		assert.InDelta(t, easeInOut(v), 1-easeInOut(1-v), 1e-12)
	}
	// Strictly increasing on (0,1).
	prev := math.Inf(-1)
	for v := 0.0; v <= 1.0; v += 0.05 {
		e := easeInOut(v)
		assert.Greater(t, e, prev)
		prev = e
	}
}
