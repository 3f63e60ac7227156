// Package layout implements the iterative force simulation that
// positions graph nodes.
package layout

import (
	"math"
	"time"
)

// Mode selects the clustering behavior of the simulation.
type Mode string

const (
	// ModeFlat pulls every node toward the canvas center.
	ModeFlat Mode = "flat"
	// ModeUniverse pulls each node toward its project's cluster slot,
	// slots placed at equal angular spacing around the canvas center.
	ModeUniverse Mode = "universe"
)

// State is the simulation lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateCooling State = "cooling"
	StateSettled State = "settled"
)

// Config holds the force constants and integration parameters.
// Overrides load from the tuning file via the config package.
type Config struct {
	// Canvas dimensions; the center anchors the flat-mode attraction
	// and the universe-mode cluster circle.
	Width  float64
	Height float64

	// RepulsionStrength is the many-body charge; negative pushes
	// nodes apart, stronger at short range.
	RepulsionStrength float64

	// Link springs aim for baseDistance / (similarity + epsilon), so
	// higher similarity pulls nodes closer together.
	LinkBaseDistance  float64
	SimilarityEpsilon float64
	LinkStrength      float64

	// CollisionRadius is the hard minimum separation per node.
	CollisionRadius float64

	// CenterStrength applies in flat mode; ClusterStrength applies
	// per axis in universe mode, toward slots on a circle of radius
	// ClusterSpread.
	CenterStrength  float64
	ClusterStrength float64
	ClusterSpread   float64

	// Alpha decays from 1 toward AlphaMin; VelocityDecay is the
	// per-tick velocity retention factor.
	AlphaMin      float64
	AlphaDecay    float64
	VelocityDecay float64

	// CoolingAlpha is the threshold below which the simulation is
	// considered to be cooling rather than actively running.
	CoolingAlpha float64

	// FrameInterval is the tick cadence of the driven loop.
	FrameInterval time.Duration
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		Width:             1200,
		Height:            800,
		RepulsionStrength: -300,
		LinkBaseDistance:  150,
		SimilarityEpsilon: 0.1,
		LinkStrength:      0.5,
		CollisionRadius:   30,
		CenterStrength:    0.05,
		ClusterStrength:   0.3,
		ClusterSpread:     400,
		AlphaMin:          0.001,
		AlphaDecay:        1 - math.Pow(0.001, 1.0/300),
		VelocityDecay:     0.6,
		CoolingAlpha:      0.1,
		FrameInterval:     16 * time.Millisecond,
	}
}

// TargetDistance returns the spring rest length for a link of the
// given similarity.
func (c Config) TargetDistance(similarity float64) float64 {
	return c.LinkBaseDistance / (similarity + c.SimilarityEpsilon)
}
