package layout

import (
	"math"

	"github.com/spencrmartin/brainmap/internal/models"
)

// jiggle returns a small deterministic pseudo-random offset used to
// separate exactly coincident nodes so direction vectors are defined.
func (s *Simulation) jiggle() float64 {
	s.rngState = s.rngState*1664525 + 1013904223
	return (float64(s.rngState%1000000)/1000000 - 0.5) * 1e-6
}

// applyRepulsion adds pairwise inverse-square push between all node
// pairs. All-pairs is fine for the expected tens to low hundreds of
// nodes; the loop is the dominant per-tick cost.
func (s *Simulation) applyRepulsion(alpha float64) {
	nodes := s.nodes
	for i := 0; i < len(nodes); i++ {
		a := nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				dx, dy = s.jiggle(), s.jiggle()
				d2 = dx*dx + dy*dy
			}
			// Clamp very short ranges so the force stays bounded.
			if d2 < 1 {
				d2 = 1
			}
			f := s.cfg.RepulsionStrength * alpha / d2
			a.VX += dx * f
			a.VY += dy * f
			b.VX -= dx * f
			b.VY -= dy * f
		}
	}
}

// applyLinks pulls linked nodes toward their similarity-derived rest
// length; higher similarity means a shorter target separation.
func (s *Simulation) applyLinks(alpha float64) {
	for _, l := range s.links {
		a, b := s.byID[l.Source], s.byID[l.Target]
		dx := b.X + b.VX - a.X - a.VX
		dy := b.Y + b.VY - a.Y - a.VY
		d := math.Hypot(dx, dy)
		if d == 0 {
			dx, dy = s.jiggle(), s.jiggle()
			d = math.Hypot(dx, dy)
		}
		target := s.cfg.TargetDistance(l.Similarity)
		f := (d - target) / d * alpha * s.cfg.LinkStrength
		a.VX += dx * f * 0.5
		a.VY += dy * f * 0.5
		b.VX -= dx * f * 0.5
		b.VY -= dy * f * 0.5
	}
}

// applyGravity pulls each node toward its attraction point: the canvas
// center in flat mode, the node's project slot in universe mode. Each
// axis is attracted independently.
func (s *Simulation) applyGravity(alpha float64) {
	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	for _, n := range s.nodes {
		tx, ty := cx, cy
		strength := s.cfg.CenterStrength
		if s.mode == ModeUniverse {
			if slot, ok := s.slots[n.ProjectID]; ok {
				tx, ty = slot.x, slot.y
				strength = s.cfg.ClusterStrength
			}
		}
		n.VX += (tx - n.X) * strength * alpha
		n.VY += (ty - n.Y) * strength * alpha
	}
}

// applyCollision resolves overlaps positionally so no two nodes sit
// closer than twice the collision radius. Pinned nodes do not yield;
// their counterpart absorbs the full correction.
func (s *Simulation) applyCollision() {
	minDist := 2 * s.cfg.CollisionRadius
	nodes := s.nodes
	for i := 0; i < len(nodes); i++ {
		a := nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			d := math.Hypot(dx, dy)
			if d >= minDist {
				continue
			}
			if d == 0 {
				dx, dy = s.jiggle(), s.jiggle()
				d = math.Hypot(dx, dy)
			}
			overlap := (minDist - d) / d
			switch {
			case a.Pinned() && b.Pinned():
				// Both fixed; nothing to resolve.
			case a.Pinned():
				b.X += dx * overlap
				b.Y += dy * overlap
			case b.Pinned():
				a.X -= dx * overlap
				a.Y -= dy * overlap
			default:
				a.X -= dx * overlap * 0.5
				a.Y -= dy * overlap * 0.5
				b.X += dx * overlap * 0.5
				b.Y += dy * overlap * 0.5
			}
		}
	}
}

// integrate advances positions by the damped velocities. A pinned
// node ignores force-derived displacement and snaps to its pin.
func (s *Simulation) integrate() {
	for _, n := range s.nodes {
		if n.Pinned() {
			n.X, n.Y = *n.FX, *n.FY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= s.cfg.VelocityDecay
		n.VY *= s.cfg.VelocityDecay
		n.X += n.VX
		n.Y += n.VY
	}
}

// slot is a universe-mode cluster attraction point.
type slot struct {
	x, y float64
}

// computeSlots places one attraction point per project at equal
// angular spacing around a circle of radius spread centered on the
// canvas. Slot order follows project first-appearance order in the
// node list so placement is stable across restarts of the same
// snapshot.
func computeSlots(nodes []*models.Node, cfg Config) map[string]slot {
	var order []string
	seen := make(map[string]bool)
	for _, n := range nodes {
		if n.ProjectID != "" && !seen[n.ProjectID] {
			seen[n.ProjectID] = true
			order = append(order, n.ProjectID)
		}
	}
	slots := make(map[string]slot, len(order))
	cx, cy := cfg.Width/2, cfg.Height/2
	for i, id := range order {
		angle := 2 * math.Pi * float64(i) / float64(len(order))
		slots[id] = slot{
			x: cx + cfg.ClusterSpread*math.Cos(angle),
			y: cy + cfg.ClusterSpread*math.Sin(angle),
		}
	}
	return slots
}
