package layout

import (
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/spencrmartin/brainmap/internal/metrics"
	"github.com/spencrmartin/brainmap/internal/models"
)

// ErrEmptyGraph is returned when Start is called with no nodes; no
// simulation is started and callers should surface an explicit empty
// state instead.
var ErrEmptyGraph = errors.New("layout: empty node set")

// DragAlpha is the energy injected when a drag begins or ends so
// neighbors relax around the change.
const DragAlpha = 0.3

// initialRadius spaces freshly placed nodes on a phyllotaxis spiral
// around the canvas center.
const initialRadius = 12.0

var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Position is one entry of the per-tick position stream.
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// TickInfo is delivered to the tick callback synchronously once per
// frame. Positions is a committed snapshot; it never aliases live
// simulation state.
type TickInfo struct {
	Frame     int
	Alpha     float64
	State     State
	Positions []Position
}

// TickFunc receives TickInfo each frame. It runs on the simulation
// goroutine; it must not call Stop on its own simulation.
type TickFunc func(TickInfo)

// Ticker abstracts the frame clock so tests can drive ticks manually.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates the frame ticker for a simulation run.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func realTickerFactory(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Option configures an Engine.
type Option func(*Engine)

// WithTickerFactory overrides the frame clock, used by tests to drive
// ticks without wall time.
func WithTickerFactory(f TickerFactory) Option {
	return func(e *Engine) { e.tickers = f }
}

// Engine creates and tears down simulations. At most one simulation
// runs at a time: Start stops the previous run before the new one
// produces its first tick, so two loops never write the same position
// state concurrently.
type Engine struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Collector
	tickers TickerFactory

	mu      sync.Mutex
	current *Simulation
}

// NewEngine creates an engine. logger and collector may be nil.
func NewEngine(cfg Config, logger *slog.Logger, mc *metrics.Collector, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		metrics: mc,
		tickers: realTickerFactory,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start tears down any running simulation, then starts a new one over
// the given entity set and returns its handle. Nodes at the origin are
// seeded onto a phyllotaxis spiral so the first ticks have defined
// directions. onTick may be nil.
func (e *Engine) Start(nodes []*models.Node, links []models.Link, mode Mode, onTick TickFunc) (*Simulation, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyGraph
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.current.Stop()
		e.current = nil
	}

	byID := make(map[string]*models.Node, len(nodes))
	cx, cy := e.cfg.Width/2, e.cfg.Height/2
	for i, n := range nodes {
		byID[n.ID] = n
		if n.X == 0 && n.Y == 0 {
			r := initialRadius * math.Sqrt(float64(i)+0.5)
			a := float64(i) * goldenAngle
			n.X = cx + r*math.Cos(a)
			n.Y = cy + r*math.Sin(a)
		}
	}

	s := &Simulation{
		cfg:      e.cfg,
		mode:     mode,
		nodes:    nodes,
		links:    links,
		byID:     byID,
		onTick:   onTick,
		logger:   e.logger,
		metrics:  e.metrics,
		state:    StateRunning,
		alpha:    1,
		rngState: 1,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	if mode == ModeUniverse {
		s.slots = computeSlots(nodes, e.cfg)
	}
	e.current = s

	e.logger.Info("simulation started",
		"nodes", len(nodes), "links", len(links), "mode", string(mode))

	// A zero frame interval means the caller drives ticks through
	// Step directly; no loop goroutine is started.
	if e.cfg.FrameInterval > 0 {
		s.ticker = e.tickers(e.cfg.FrameInterval)
		go s.loop()
	} else {
		close(s.stopped)
	}
	return s, nil
}

// Stop tears down the current simulation, if any, returning the
// engine to idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.current.Stop()
		e.current = nil
	}
}

// Simulation is a handle to one running layout. All state mutation
// happens under its lock; position reads always observe the last
// fully committed tick.
type Simulation struct {
	cfg     Config
	mode    Mode
	nodes   []*models.Node
	links   []models.Link
	byID    map[string]*models.Node
	slots   map[string]slot
	onTick  TickFunc
	logger  *slog.Logger
	metrics *metrics.Collector

	mu          sync.Mutex
	state       State
	alpha       float64
	alphaTarget float64
	frame       int
	rngState    uint64

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	ticker   Ticker
}

// loop drives the simulation off the frame ticker until stopped.
func (s *Simulation) loop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C():
			info, advanced := s.Step()
			if advanced && s.onTick != nil {
				s.onTick(info)
			}
		}
	}
}

// Step advances the simulation by one tick and reports whether it
// advanced (a settled simulation skips force work until reheated).
// It is exported so callers without a frame loop, like the CLI's
// run-to-convergence mode, can drive ticks directly.
func (s *Simulation) Step() (TickInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSettled || s.state == StateIdle {
		return s.tickInfoLocked(), false
	}

	start := time.Now()

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay
	if s.alpha < s.cfg.AlphaMin {
		s.state = StateSettled
		s.logger.Debug("simulation settled", "frame", s.frame)
		return s.tickInfoLocked(), false
	}
	if s.alpha < s.cfg.CoolingAlpha {
		s.state = StateCooling
	} else {
		s.state = StateRunning
	}

	s.applyRepulsion(s.alpha)
	s.applyLinks(s.alpha)
	s.applyGravity(s.alpha)
	s.applyCollision()
	s.integrate()
	s.frame++

	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpTick, time.Since(start))
	}
	return s.tickInfoLocked(), true
}

// tickInfoLocked builds a committed snapshot. Caller holds the lock.
func (s *Simulation) tickInfoLocked() TickInfo {
	positions := make([]Position, len(s.nodes))
	for i, n := range s.nodes {
		positions[i] = Position{ID: n.ID, X: n.X, Y: n.Y}
	}
	return TickInfo{
		Frame:     s.frame,
		Alpha:     s.alpha,
		State:     s.state,
		Positions: positions,
	}
}

// Stop halts the tick loop deterministically: when it returns, the
// loop goroutine has exited and no further ticks will be produced.
// Safe to call more than once. Must not be called from the tick
// callback of the same simulation.
func (s *Simulation) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.ticker != nil {
			s.ticker.Stop()
		}
		<-s.stopped
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		s.logger.Info("simulation stopped", "frames", s.frame)
	})
}

// Reheat injects energy back into the simulation, raising alpha to at
// least target so the layout relaxes after an interaction. A settled
// simulation resumes running.
func (s *Simulation) Reheat(target float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return
	}
	if s.alpha < target {
		s.alpha = target
	}
	s.state = StateRunning
}

// PinNode fixes a node at (x, y), overriding physics until unpinned,
// and reheats so neighbors adjust. Unknown ids are ignored.
func (s *Simulation) PinNode(id string, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok {
		return
	}
	n.Pin(x, y)
	if s.alpha < DragAlpha {
		s.alpha = DragAlpha
	}
	if s.state != StateIdle {
		s.state = StateRunning
	}
}

// MovePin updates an existing pin; a node without a pin is left alone.
func (s *Simulation) MovePin(id string, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok || !n.Pinned() {
		return
	}
	n.Pin(x, y)
}

// UnpinNode clears a node's pin and reheats so the layout relaxes
// around the released node.
func (s *Simulation) UnpinNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok {
		return
	}
	n.Unpin()
	if s.alpha < DragAlpha {
		s.alpha = DragAlpha
	}
	if s.state != StateIdle {
		s.state = StateRunning
	}
}

// Alpha returns the current kinetic energy scalar.
func (s *Simulation) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha
}

// State returns the current lifecycle state.
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Positions returns a committed snapshot of all node positions.
func (s *Simulation) Positions() []Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickInfoLocked().Positions
}

// NodePositions returns the current member positions for the given
// ids, skipping unknown ids. Used for hull recomputation each tick.
func (s *Simulation) NodePositions(ids []string) []Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Position, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.byID[id]; ok {
			out = append(out, Position{ID: id, X: n.X, Y: n.Y})
		}
	}
	return out
}
