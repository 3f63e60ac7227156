// Package adapter normalizes raw data-service snapshots into the
// validated entity set the layout engine operates on.
package adapter

import (
	"fmt"
	"log/slog"

	"github.com/spencrmartin/brainmap/internal/models"
)

// ErrDuplicateID is returned when a snapshot contains two items with
// the same id. Duplicate ids are a caller contract violation; the
// adapter rejects the snapshot rather than silently merging.
var ErrDuplicateID = fmt.Errorf("duplicate item id in snapshot")

// Adapter validates snapshots. A nil logger disables data-quality
// warnings.
type Adapter struct {
	logger *slog.Logger
}

// New creates an adapter.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{logger: logger}
}

// Adapt converts a snapshot into a Graph.
//
// Connections referencing an item id absent from the snapshot are
// dropped and counted; that is a normal data-quality condition, logged
// at WARN, never an error. Similarity values are clamped to [0,1].
// Input order is preserved for nodes, links and groupings.
func (a *Adapter) Adapt(snap models.Snapshot) (*models.Graph, error) {
	nodes := make([]*models.Node, 0, len(snap.Items))
	byID := make(map[string]*models.Node, len(snap.Items))

	for _, it := range snap.Items {
		if _, dup := byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, it.ID)
		}
		n := &models.Node{
			ID:        it.ID,
			Title:     it.Title,
			Type:      it.ItemType,
			Tags:      it.Tags,
			ProjectID: it.ProjectID,
		}
		byID[it.ID] = n
		nodes = append(nodes, n)
	}

	links := make([]models.Link, 0, len(snap.Connections))
	dropped := 0
	for _, c := range snap.Connections {
		if _, ok := byID[c.SourceItemID]; !ok {
			dropped++
			continue
		}
		if _, ok := byID[c.TargetItemID]; !ok {
			dropped++
			continue
		}
		links = append(links, models.Link{
			Source:     c.SourceItemID,
			Target:     c.TargetItemID,
			Similarity: clamp01(c.Similarity),
		})
	}
	if dropped > 0 {
		a.logger.Warn("dropped connections with missing endpoints",
			"dropped", dropped, "kept", len(links))
	}

	groupings := a.adaptGroupings(snap, byID, nodes)

	return &models.Graph{
		Nodes:              nodes,
		Links:              links,
		Groupings:          groupings,
		DroppedConnections: dropped,
	}, nil
}

// adaptGroupings builds region groupings from explicit member lists
// and project groupings from node project ids. Region members that do
// not resolve to a node are dropped; projects with no member nodes are
// omitted entirely.
func (a *Adapter) adaptGroupings(snap models.Snapshot, byID map[string]*models.Node, nodes []*models.Node) []models.Grouping {
	groupings := make([]models.Grouping, 0, len(snap.Regions)+len(snap.Projects))

	for _, r := range snap.Regions {
		members := make([]string, 0, len(r.ItemIDs))
		for _, id := range r.ItemIDs {
			if _, ok := byID[id]; ok {
				members = append(members, id)
			}
		}
		groupings = append(groupings, models.Grouping{
			ID:        r.ID,
			Label:     r.Name,
			Color:     r.Color,
			Kind:      models.GroupingRegion,
			MemberIDs: members,
			Visible:   r.IsVisible,
		})
	}

	memberOf := make(map[string][]string)
	for _, n := range nodes {
		if n.ProjectID != "" {
			memberOf[n.ProjectID] = append(memberOf[n.ProjectID], n.ID)
		}
	}
	for _, p := range snap.Projects {
		members := memberOf[p.ID]
		if len(members) == 0 {
			continue
		}
		groupings = append(groupings, models.Grouping{
			ID:        p.ID,
			Label:     p.Name,
			Color:     p.Color,
			Kind:      models.GroupingProject,
			MemberIDs: members,
			Visible:   true,
		})
	}

	return groupings
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
