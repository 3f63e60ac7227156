// Package interaction implements the drag, hover, selection and
// pulsing state machine that sits alongside the layout engine.
package interaction

import (
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spencrmartin/brainmap/internal/layout"
	"github.com/spencrmartin/brainmap/internal/models"
	"github.com/spencrmartin/brainmap/internal/viewport"
)

// ErrNoMembers is returned when a grouping intent is emitted with an
// empty member set.
var ErrNoMembers = errors.New("interaction: grouping needs at least one member")

// HitRadius is the world-space pick radius for pointer hit-testing.
const HitRadius = 12.0

// PulsePeriod is the loop length of the selection emphasis.
const PulsePeriod = 1600 * time.Millisecond

// Emphasis scaling applied to a hovered node.
const hoverRadiusScale = 1.4

// IntentSink receives opaque write-intents. The engine never knows
// how they are persisted.
type IntentSink interface {
	CreateGrouping(id, label, color string, itemIDs []string)
	ToggleGroupingVisibility(id string)
	DeleteGrouping(id string)
}

// Events are the outbound notification callbacks. Any may be nil.
type Events struct {
	OnNodeSelect     func(id string)
	OnNodeHoverStart func(id string)
	OnNodeHoverEnd   func(id string)
	OnZoomChange     func(scale float64)
}

// NodeEmphasis is the per-node visual overlay computed from the
// interaction state. Zero value means no emphasis.
type NodeEmphasis struct {
	RadiusScale float64 // 0 means 1 (no scaling)
	Glow        float64 // selection pulse intensity in [0,1]
	Highlight   string  // tag color, empty when not highlighted
}

// LinkEmphasis is the per-link visual overlay.
type LinkEmphasis struct {
	WidthScale float64 // 0 means 1
	Highlight  string  // tag color, empty when not highlighted
	Hovered    bool    // touches the hovered node
}

// Controller tracks interaction state and mutates engine pins. All
// methods are safe for concurrent use; emphasis outputs are pure
// value objects so rendering never mutates controller state.
//
// Priority when several emphases apply to one node:
// selection > node hover > tag hover.
type Controller struct {
	now    func() time.Time
	logger *slog.Logger
	sink   IntentSink
	events Events

	mu         sync.Mutex
	sim        *layout.Simulation
	transform  viewport.Transform
	dragID     string
	hoverID    string
	hoverTag   string
	selectedID string
	selectedAt time.Time
}

// NewController creates a controller. A nil clock defaults to
// time.Now; sink may be nil when no persistence collaborator exists.
func NewController(sink IntentSink, events Events, logger *slog.Logger, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		now:       now,
		logger:    logger,
		sink:      sink,
		events:    events,
		transform: viewport.Identity(),
	}
}

// AttachSimulation points the controller at a freshly started
// simulation. Any in-flight drag belongs to the torn-down run and is
// discarded; no partial state carries over.
func (c *Controller) AttachSimulation(sim *layout.Simulation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sim = sim
	c.dragID = ""
}

// SetTransform records the viewport transform used to correct pointer
// coordinates, clamping the scale, and reports the zoom change.
func (c *Controller) SetTransform(t viewport.Transform) {
	t = t.Clamped()
	c.mu.Lock()
	c.transform = t
	cb := c.events.OnZoomChange
	c.mu.Unlock()
	if cb != nil {
		cb(t.K)
	}
}

// Transform returns the current viewport transform.
func (c *Controller) Transform() viewport.Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform
}

// NodeAt hit-tests a screen-space pointer position against current
// node positions, returning the closest node id within the pick
// radius, or "".
func (c *Controller) NodeAt(sx, sy float64) string {
	c.mu.Lock()
	sim := c.sim
	t := c.transform
	c.mu.Unlock()
	if sim == nil {
		return ""
	}

	wx, wy := t.ToWorld(sx, sy)
	best := ""
	bestD := HitRadius
	for _, p := range sim.Positions() {
		d := math.Hypot(p.X-wx, p.Y-wy)
		if d <= bestD {
			best, bestD = p.ID, d
		}
	}
	return best
}

// PointerDown begins a drag if the pointer lands on a node: the node
// is pinned at the pointer's world position and follows it until
// release.
func (c *Controller) PointerDown(sx, sy float64) {
	id := c.NodeAt(sx, sy)
	if id == "" {
		return
	}
	c.mu.Lock()
	sim := c.sim
	wx, wy := c.transform.ToWorld(sx, sy)
	c.dragID = id
	c.mu.Unlock()
	if sim != nil {
		sim.PinNode(id, wx, wy)
	}
}

// PointerMove updates the in-flight drag pin.
func (c *Controller) PointerMove(sx, sy float64) {
	c.mu.Lock()
	id := c.dragID
	sim := c.sim
	wx, wy := c.transform.ToWorld(sx, sy)
	c.mu.Unlock()
	if id == "" || sim == nil {
		return
	}
	sim.MovePin(id, wx, wy)
}

// PointerUp ends the drag: the pin is cleared and the simulation
// reheated so neighbors relax around the released node.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	id := c.dragID
	sim := c.sim
	c.dragID = ""
	c.mu.Unlock()
	if id == "" || sim == nil {
		return
	}
	sim.UnpinNode(id)
	sim.Reheat(layout.DragAlpha)
}

// Dragging returns the id of the node under drag, or "".
func (c *Controller) Dragging() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragID
}

// HoverNode marks a node as hovered.
func (c *Controller) HoverNode(id string) {
	c.mu.Lock()
	prev := c.hoverID
	c.hoverID = id
	cbStart := c.events.OnNodeHoverStart
	cbEnd := c.events.OnNodeHoverEnd
	c.mu.Unlock()
	if prev != "" && prev != id && cbEnd != nil {
		cbEnd(prev)
	}
	if id != "" && id != prev && cbStart != nil {
		cbStart(id)
	}
}

// ClearNodeHover ends the node hover.
func (c *Controller) ClearNodeHover() {
	c.HoverNode("")
}

// HoverTag highlights every node carrying the tag and every link
// whose both endpoints carry it. Independent of node hover.
func (c *Controller) HoverTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hoverTag = tag
}

// ClearTagHover ends the theme hover.
func (c *Controller) ClearTagHover() {
	c.HoverTag("")
}

// Select makes the node the single selected node, starting the pulse
// cycle from phase zero. Selecting a new node cancels the previous
// cycle deterministically; selecting "" deselects.
func (c *Controller) Select(id string) {
	c.mu.Lock()
	c.selectedID = id
	c.selectedAt = c.now()
	cb := c.events.OnNodeSelect
	c.mu.Unlock()
	if id != "" && cb != nil {
		cb(id)
	}
}

// Deselect clears the selection and stops the pulse.
func (c *Controller) Deselect() {
	c.Select("")
}

// Selected returns the selected node id, or "".
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

// pulseGlow evaluates the selection pulse at the controller's clock:
// an eased rise and fall looping every PulsePeriod, starting at zero
// when the selection was made so switching never flashes the old
// emphasis.
func (c *Controller) pulseGlow(since time.Time) float64 {
	elapsed := c.now().Sub(since) % PulsePeriod
	t := float64(elapsed) / float64(PulsePeriod)
	// Triangle wave 0→1→0, smoothed.
	tri := 1 - math.Abs(2*t-1)
	return tri * tri * (3 - 2*tri)
}

// NodeEmphasisFor computes the visual overlay for one node given its
// tag set. Pure with respect to render state; reading it never
// mutates anything but the clock.
func (c *Controller) NodeEmphasisFor(n *models.Node) NodeEmphasis {
	c.mu.Lock()
	defer c.mu.Unlock()

	var e NodeEmphasis
	if n.ID == c.selectedID {
		e.Glow = c.pulseGlow(c.selectedAt)
		e.RadiusScale = hoverRadiusScale
		return e
	}
	if n.ID == c.hoverID {
		e.RadiusScale = hoverRadiusScale
		return e
	}
	if c.hoverTag != "" && n.HasTag(c.hoverTag) {
		e.Highlight = TagColor(c.hoverTag)
	}
	return e
}

// LinkEmphasisFor computes the visual overlay for one link given its
// endpoint nodes.
func (c *Controller) LinkEmphasisFor(l models.Link, src, dst *models.Node) LinkEmphasis {
	c.mu.Lock()
	defer c.mu.Unlock()

	var e LinkEmphasis
	if c.hoverID != "" && (l.Source == c.hoverID || l.Target == c.hoverID) {
		e.Hovered = true
		e.WidthScale = 2
		return e
	}
	if c.hoverTag != "" && src != nil && dst != nil &&
		src.HasTag(c.hoverTag) && dst.HasTag(c.hoverTag) {
		e.Highlight = TagColor(c.hoverTag)
	}
	return e
}

// CreateGrouping emits a create-grouping intent for a non-empty node
// subset. The id is generated client-side; persistence is the sink's
// concern.
func (c *Controller) CreateGrouping(label, color string, itemIDs []string) (string, error) {
	if len(itemIDs) == 0 {
		return "", ErrNoMembers
	}
	id := uuid.NewString()
	c.logger.Info("grouping intent", "id", id, "label", label, "members", len(itemIDs))
	if c.sink != nil {
		c.sink.CreateGrouping(id, label, color, itemIDs)
	}
	return id, nil
}

// ToggleGroupingVisibility forwards a visibility toggle intent.
func (c *Controller) ToggleGroupingVisibility(id string) {
	if c.sink != nil {
		c.sink.ToggleGroupingVisibility(id)
	}
}

// DeleteGrouping forwards a delete intent.
func (c *Controller) DeleteGrouping(id string) {
	if c.sink != nil {
		c.sink.DeleteGrouping(id)
	}
}
