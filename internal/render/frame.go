// Package render assembles the per-tick frame contract: a value
// object of everything a renderer needs, pushed through a one-way
// interface so rendering never mutates engine state.
package render

import (
	"github.com/spencrmartin/brainmap/internal/geometry"
	"github.com/spencrmartin/brainmap/internal/layout"
	"github.com/spencrmartin/brainmap/internal/models"
	"github.com/spencrmartin/brainmap/internal/zoom"
)

// NodeVisual is the complete rendering state for one node this tick.
type NodeVisual struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Type         models.ItemType `json:"type"`
	X            float64         `json:"x"`
	Y            float64         `json:"y"`
	Radius       float64         `json:"radius"`
	LabelOpacity float64         `json:"label_opacity"`
	Glow         float64         `json:"glow"`
	Highlight    string          `json:"highlight,omitempty"`
}

// LinkVisual is the complete rendering state for one link this tick.
type LinkVisual struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	Similarity   float64 `json:"similarity"`
	Width        float64 `json:"width"`
	Opacity      float64 `json:"opacity"`
	LabelOpacity float64 `json:"label_opacity"`
	Highlight    string  `json:"highlight,omitempty"`
}

// HullVisual is a grouping boundary for one tick. Hulls are ephemeral;
// they are recomputed from current member positions every tick and
// never persisted.
type HullVisual struct {
	GroupingID string              `json:"grouping_id"`
	Label      string              `json:"label"`
	Color      string              `json:"color"`
	Kind       models.GroupingKind `json:"kind"`
	Outline    geometry.Outline    `json:"outline"`
	Opacity    float64             `json:"opacity"`
}

// Frame is the committed render state for one tick.
type Frame struct {
	Seq    int          `json:"seq"`
	Alpha  float64      `json:"alpha"`
	State  layout.State `json:"state"`
	Scale  float64      `json:"scale"`
	Zoom   zoom.Params  `json:"zoom"`
	Nodes  []NodeVisual `json:"nodes"`
	Links  []LinkVisual `json:"links"`
	Hulls  []HullVisual `json:"hulls"`
}

// Renderer consumes frames. Implementations must treat the frame as
// immutable.
type Renderer interface {
	RenderFrame(Frame)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Frame)

// RenderFrame implements Renderer.
func (f RendererFunc) RenderFrame(fr Frame) { f(fr) }

// Base link stroke derived from similarity before zoom scaling.
func linkWidth(similarity float64) float64 {
	return 1 + 3*similarity
}

func linkOpacity(similarity float64) float64 {
	return 0.2 + 0.6*similarity
}

// regionHullOpacity is the flat fill opacity for region hulls; only
// project hulls respond to zoom.
const regionHullOpacity = 0.3
