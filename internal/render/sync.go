package render

import (
	"time"

	"github.com/spencrmartin/brainmap/internal/geometry"
	"github.com/spencrmartin/brainmap/internal/interaction"
	"github.com/spencrmartin/brainmap/internal/layout"
	"github.com/spencrmartin/brainmap/internal/metrics"
	"github.com/spencrmartin/brainmap/internal/models"
	"github.com/spencrmartin/brainmap/internal/zoom"
)

// Sync builds a Frame from each layout tick and pushes it to the
// renderer. It is the engine's only write path toward rendering;
// data flows one way.
type Sync struct {
	graph    *models.Graph
	ctrl     *interaction.Controller
	zoomCtrl *zoom.Controller
	renderer Renderer
	metrics  *metrics.Collector
}

// NewSync wires a render sync over the adapted graph. ctrl, zoomCtrl,
// collector may be nil; renderer must not be.
func NewSync(graph *models.Graph, ctrl *interaction.Controller, zoomCtrl *zoom.Controller, renderer Renderer, mc *metrics.Collector) *Sync {
	return &Sync{
		graph:    graph,
		ctrl:     ctrl,
		zoomCtrl: zoomCtrl,
		renderer: renderer,
		metrics:  mc,
	}
}

// OnTick is the layout.TickFunc: it assembles the frame for the
// committed positions and hands it to the renderer synchronously.
func (s *Sync) OnTick(info layout.TickInfo) {
	s.renderer.RenderFrame(s.BuildFrame(info))
}

// BuildFrame assembles the frame value object for one tick.
func (s *Sync) BuildFrame(info layout.TickInfo) Frame {
	start := time.Now()

	scale := 1.0
	params := zoom.ParamsAt(scale)
	if s.zoomCtrl != nil {
		scale = s.zoomCtrl.Scale()
		params = s.zoomCtrl.Current()
	}

	pos := make(map[string]layout.Position, len(info.Positions))
	for _, p := range info.Positions {
		pos[p.ID] = p
	}

	frame := Frame{
		Seq:   info.Frame,
		Alpha: info.Alpha,
		State: info.State,
		Scale: scale,
		Zoom:  params,
		Nodes: s.buildNodes(pos, params),
		Links: s.buildLinks(params),
		Hulls: s.buildHulls(pos, params),
	}

	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpFrame, time.Since(start))
	}
	return frame
}

func (s *Sync) buildNodes(pos map[string]layout.Position, params zoom.Params) []NodeVisual {
	out := make([]NodeVisual, 0, len(s.graph.Nodes))
	for _, n := range s.graph.Nodes {
		p, ok := pos[n.ID]
		if !ok {
			continue
		}
		v := NodeVisual{
			ID:           n.ID,
			Title:        n.Title,
			Type:         n.Type,
			X:            p.X,
			Y:            p.Y,
			Radius:       params.NodeRadius,
			LabelOpacity: params.ItemLabelOpacity,
		}
		if s.ctrl != nil {
			e := s.ctrl.NodeEmphasisFor(n)
			if e.RadiusScale > 0 {
				v.Radius *= e.RadiusScale
			}
			v.Glow = e.Glow
			v.Highlight = e.Highlight
		}
		out = append(out, v)
	}
	return out
}

func (s *Sync) buildLinks(params zoom.Params) []LinkVisual {
	out := make([]LinkVisual, 0, len(s.graph.Links))
	for _, l := range s.graph.Links {
		v := LinkVisual{
			Source:       l.Source,
			Target:       l.Target,
			Similarity:   l.Similarity,
			Width:        linkWidth(l.Similarity),
			Opacity:      linkOpacity(l.Similarity) * params.LinkOpacityScale,
			LabelOpacity: params.LinkLabelOpacity,
		}
		if s.ctrl != nil {
			e := s.ctrl.LinkEmphasisFor(l, s.graph.NodeByID(l.Source), s.graph.NodeByID(l.Target))
			if e.WidthScale > 0 {
				v.Width *= e.WidthScale
			}
			v.Highlight = e.Highlight
		}
		out = append(out, v)
	}
	return out
}

// buildHulls recomputes grouping outlines from current member
// positions. Hidden regions are skipped; degenerate member sets
// simply produce no hull this tick.
func (s *Sync) buildHulls(pos map[string]layout.Position, params zoom.Params) []HullVisual {
	start := time.Now()
	out := make([]HullVisual, 0, len(s.graph.Groupings))
	for _, g := range s.graph.Groupings {
		if g.Kind == models.GroupingRegion && !g.Visible {
			continue
		}

		pts := make([]geometry.Point, 0, len(g.MemberIDs))
		for _, id := range g.MemberIDs {
			if p, ok := pos[id]; ok {
				pts = append(pts, geometry.Point{X: p.X, Y: p.Y})
			}
		}

		padding := geometry.RegionPadding
		opacity := regionHullOpacity
		if g.Kind == models.GroupingProject {
			padding = geometry.ProjectPadding
			opacity = params.ProjectHullOpacity
		}

		outline, ok := geometry.GroupOutline(pts, padding)
		if !ok {
			continue
		}
		out = append(out, HullVisual{
			GroupingID: g.ID,
			Label:      g.Label,
			Color:      g.Color,
			Kind:       g.Kind,
			Outline:    outline,
			Opacity:    opacity,
		})
	}
	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpHulls, time.Since(start))
	}
	return out
}
