// Package models defines the wire snapshot types and the engine entity
// types for the brainmap graph visualization.
package models

// ItemType classifies a knowledge item.
type ItemType string

const (
	ItemTypeLink    ItemType = "link"
	ItemTypeNote    ItemType = "note"
	ItemTypeSnippet ItemType = "snippet"
	ItemTypePaper   ItemType = "paper"
	ItemTypeSkill   ItemType = "skill"
)

// Item is a knowledge item as delivered by the data service.
type Item struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	ItemType  ItemType `json:"item_type"`
	Tags      []string `json:"tags"`
	ProjectID string   `json:"project_id"`
}

// Connection is a weighted similarity edge between two items.
// Similarity is expected in [0,1]; out-of-range values are clamped
// by the adapter.
type Connection struct {
	SourceItemID string  `json:"source_item_id"`
	TargetItemID string  `json:"target_item_id"`
	Similarity   float64 `json:"similarity"`
}

// Region is a user-defined named subset of items.
type Region struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	ItemIDs   []string `json:"item_ids"`
	IsVisible bool     `json:"is_visible"`
}

// Project is a top-level container; in universe mode every project
// doubles as an implicit grouping of the items that belong to it.
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Snapshot is the full read-only graph state fetched from the data
// service. Snapshots are replaced wholesale; the engine never patches
// one incrementally.
type Snapshot struct {
	Items       []Item       `json:"items"`
	Connections []Connection `json:"connections"`
	Regions     []Region     `json:"regions"`
	Projects    []Project    `json:"projects"`
}
