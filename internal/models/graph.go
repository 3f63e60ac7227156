package models

// Node is a knowledge item placed in the layout. Position and velocity
// are mutated by the layout engine only; FX/FY, when non-nil, pin the
// node and override physics until cleared.
type Node struct {
	ID        string
	Title     string
	Type      ItemType
	Tags      []string
	ProjectID string

	X, Y   float64
	VX, VY float64
	FX, FY *float64
}

// Pinned reports whether the node currently has a pin override.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// Pin fixes the node at (x, y) until Unpin is called.
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = &x, &y
}

// Unpin releases the pin, returning the node to physics control.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}

// HasTag reports whether the node carries the given tag.
func (n *Node) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Link is a validated similarity edge. Both endpoints are guaranteed
// by the adapter to exist in the node set; Similarity is in [0,1].
type Link struct {
	Source     string
	Target     string
	Similarity float64
}

// GroupingKind distinguishes explicit regions from implicit
// per-project groupings.
type GroupingKind string

const (
	GroupingRegion  GroupingKind = "region"
	GroupingProject GroupingKind = "project"
)

// Grouping is a named subset of nodes rendered with a hull overlay.
// Regions carry an explicit member list and a visibility flag;
// project groupings are derived from node project ids and are always
// eligible (the zoom controller fades them instead of hiding them).
type Grouping struct {
	ID        string
	Label     string
	Color     string
	Kind      GroupingKind
	MemberIDs []string
	Visible   bool
}

// Graph is the adapter's validated output: the entity set one
// simulation run operates on.
type Graph struct {
	Nodes     []*Node
	Links     []Link
	Groupings []Grouping

	// DroppedConnections counts input connections discarded because
	// an endpoint id was absent from the item set.
	DroppedConnections int
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
