package layout

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spencrmartin/brainmap/internal/models"
)

// manualTicker drives the frame loop explicitly, no wall clock.
type manualTicker struct{ ch chan time.Time }

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               {}
func (m *manualTicker) Tick()               { m.ch <- time.Now() }

func testNodes(ids ...string) []*models.Node {
	nodes := make([]*models.Node, len(ids))
	for i, id := range ids {
		nodes[i] = &models.Node{ID: id, ProjectID: "p1"}
	}
	return nodes
}

// batchConfig is the caller-driven tuning used by most tests.
func batchConfig() Config {
	cfg := DefaultConfig()
	cfg.FrameInterval = 0
	return cfg
}

func TestStartEmptyNodeSet(t *testing.T) {
	engine := NewEngine(batchConfig(), nil, nil)
	_, err := engine.Start(nil, nil, ModeFlat, nil)
	require.ErrorIs(t, err, ErrEmptyGraph)
}

func TestTargetDistanceOrdering(t *testing.T) {
	cfg := DefaultConfig()
	// Higher similarity pulls nodes closer.
	assert.Less(t, cfg.TargetDistance(0.8), cfg.TargetDistance(0.2))
	assert.InDelta(t, 150/0.9, cfg.TargetDistance(0.8), 1e-9)
	assert.InDelta(t, 150/0.3, cfg.TargetDistance(0.2), 1e-9)
}

func TestSimilarLinksEndUpCloser(t *testing.T) {
	nodes := testNodes("a", "b", "c")
	links := []models.Link{
		{Source: "a", Target: "b", Similarity: 0.8},
		{Source: "b", Target: "c", Similarity: 0.2},
	}

	engine := NewEngine(batchConfig(), nil, nil)
	sim, err := engine.Start(nodes, links, ModeFlat, nil)
	require.NoError(t, err)
	defer engine.Stop()

	for i := 0; i < 600; i++ {
		if _, advanced := sim.Step(); !advanced {
			break
		}
	}

	dist := func(a, b *models.Node) float64 {
		return math.Hypot(a.X-b.X, a.Y-b.Y)
	}
	assert.Less(t, dist(nodes[0], nodes[1]), dist(nodes[1], nodes[2]),
		"the 0.8-similarity pair should settle closer than the 0.2 pair")
}

func TestAlphaDecaysMonotonically(t *testing.T) {
	engine := NewEngine(batchConfig(), nil, nil)
	sim, err := engine.Start(testNodes("a", "b"), nil, ModeFlat, nil)
	require.NoError(t, err)
	defer engine.Stop()

	prev := sim.Alpha()
	for i := 0; i < 400; i++ {
		info, advanced := sim.Step()
		if !advanced {
			assert.Equal(t, StateSettled, info.State)
			break
		}
		assert.LessOrEqual(t, info.Alpha, prev, "alpha must never rise absent interaction")
		prev = info.Alpha
	}
	assert.Equal(t, StateSettled, sim.State())
}

func TestReheatAfterRelease(t *testing.T) {
	engine := NewEngine(batchConfig(), nil, nil)
	sim, err := engine.Start(testNodes("a", "b"), nil, ModeFlat, nil)
	require.NoError(t, err)
	defer engine.Stop()

	for {
		if _, advanced := sim.Step(); !advanced {
			break
		}
	}
	require.Equal(t, StateSettled, sim.State())

	sim.Reheat(DragAlpha)

	// Alpha is strictly positive immediately after release, then
	// monotonically non-increasing back toward settled.
	assert.Equal(t, DragAlpha, sim.Alpha())
	assert.Equal(t, StateRunning, sim.State())

	prev := sim.Alpha()
	for i := 0; i < 400; i++ {
		info, advanced := sim.Step()
		if !advanced {
			break
		}
		assert.Positive(t, info.Alpha)
		assert.LessOrEqual(t, info.Alpha, prev)
		prev = info.Alpha
	}
}

func TestStateTransitions(t *testing.T) {
	engine := NewEngine(batchConfig(), nil, nil)
	sim, err := engine.Start(testNodes("a", "b", "c"), nil, ModeFlat, nil)
	require.NoError(t, err)
	defer engine.Stop()

	var seen []State
	last := State("")
	for i := 0; i < 2000; i++ {
		info, advanced := sim.Step()
		if info.State != last {
			seen = append(seen, info.State)
			last = info.State
		}
		if !advanced {
			break
		}
	}
	assert.Equal(t, []State{StateRunning, StateCooling, StateSettled}, seen)
}

func TestPinnedNodeSnapsToPin(t *testing.T) {
	nodes := testNodes("a", "b")
	engine := NewEngine(batchConfig(), nil, nil)
	sim, err := engine.Start(nodes, nil, ModeFlat, nil)
	require.NoError(t, err)
	defer engine.Stop()

	sim.PinNode("a", 42, 77)
	for i := 0; i < 10; i++ {
		sim.Step()
		assert.Equal(t, 42.0, nodes[0].X)
		assert.Equal(t, 77.0, nodes[0].Y)
	}

	sim.UnpinNode("a")
	assert.False(t, nodes[0].Pinned())
	assert.GreaterOrEqual(t, sim.Alpha(), DragAlpha, "unpin reheats the simulation")
}

func TestPinReheatsSettledSimulation(t *testing.T) {
	engine := NewEngine(batchConfig(), nil, nil)
	sim, err := engine.Start(testNodes("a", "b"), nil, ModeFlat, nil)
	require.NoError(t, err)
	defer engine.Stop()

	for {
		if _, advanced := sim.Step(); !advanced {
			break
		}
	}
	require.Equal(t, StateSettled, sim.State())

	sim.PinNode("a", 0, 0)
	assert.Equal(t, StateRunning, sim.State())
	_, advanced := sim.Step()
	assert.True(t, advanced)
}

func TestUniverseModeSeparatesProjects(t *testing.T) {
	nodes := []*models.Node{
		{ID: "a1", ProjectID: "p1"}, {ID: "a2", ProjectID: "p1"},
		{ID: "b1", ProjectID: "p2"}, {ID: "b2", ProjectID: "p2"},
	}

	engine := NewEngine(batchConfig(), nil, nil)
	sim, err := engine.Start(nodes, nil, ModeUniverse, nil)
	require.NoError(t, err)
	defer engine.Stop()

	for i := 0; i < 600; i++ {
		if _, advanced := sim.Step(); !advanced {
			break
		}
	}

	centroid := func(a, b *models.Node) (float64, float64) {
		return (a.X + b.X) / 2, (a.Y + b.Y) / 2
	}
	x1, y1 := centroid(nodes[0], nodes[1])
	x2, y2 := centroid(nodes[2], nodes[3])
	assert.Greater(t, math.Hypot(x1-x2, y1-y2), 200.0,
		"project clusters should settle around distinct slots")
}

func TestCollisionKeepsMinimumSeparation(t *testing.T) {
	cfg := batchConfig()
	nodes := testNodes("a", "b", "c", "d")
	engine := NewEngine(cfg, nil, nil)
	sim, err := engine.Start(nodes, nil, ModeFlat, nil)
	require.NoError(t, err)
	defer engine.Stop()

	for i := 0; i < 600; i++ {
		if _, advanced := sim.Step(); !advanced {
			break
		}
	}

	minDist := 2 * cfg.CollisionRadius
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			d := math.Hypot(nodes[i].X-nodes[j].X, nodes[i].Y-nodes[j].Y)
			assert.GreaterOrEqual(t, d, minDist*0.9,
				"nodes %s and %s overlap: %v", nodes[i].ID, nodes[j].ID, d)
		}
	}
}

func TestLoopTicksAndStops(t *testing.T) {
	cfg := DefaultConfig() // FrameInterval > 0: loop-driven
	ticker := newManualTicker()

	ticks := make(chan TickInfo, 16)
	engine := NewEngine(cfg, nil, nil, WithTickerFactory(func(time.Duration) Ticker {
		return ticker
	}))
	sim, err := engine.Start(testNodes("a", "b"), nil, ModeFlat, func(info TickInfo) {
		ticks <- info
	})
	require.NoError(t, err)

	ticker.Tick()
	select {
	case info := <-ticks:
		assert.Equal(t, 1, info.Frame)
		assert.Len(t, info.Positions, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("no tick delivered")
	}

	// Stop joins the loop: afterwards no further ticks are produced
	// and the handle reports idle.
	sim.Stop()
	assert.Equal(t, StateIdle, sim.State())
	select {
	case <-ticks:
		t.Fatal("tick delivered after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStartStopsPreviousSimulation(t *testing.T) {
	cfg := DefaultConfig()
	engine := NewEngine(cfg, nil, nil, WithTickerFactory(func(time.Duration) Ticker {
		return newManualTicker()
	}))

	first, err := engine.Start(testNodes("a"), nil, ModeFlat, nil)
	require.NoError(t, err)

	// The previous loop must be joined before the new simulation can
	// produce its first tick; two loops never write positions
	// concurrently.
	second, err := engine.Start(testNodes("b"), nil, ModeFlat, nil)
	require.NoError(t, err)

	assert.Equal(t, StateIdle, first.State())
	assert.Equal(t, StateRunning, second.State())
	engine.Stop()
}

func TestPositionsAreCommittedSnapshots(t *testing.T) {
	engine := NewEngine(batchConfig(), nil, nil)
	sim, err := engine.Start(testNodes("a", "b"), nil, ModeFlat, nil)
	require.NoError(t, err)
	defer engine.Stop()

	info, _ := sim.Step()
	before := info.Positions[0]
	sim.Step()
	assert.Equal(t, before, info.Positions[0], "delivered positions must not alias live state")
}
