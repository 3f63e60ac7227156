package interaction

import "hash/fnv"

// tagPalette is the fixed set of highlight colors for theme hovers.
// A tag hashes to the same entry for the whole session, so the same
// tag always lights up in the same color.
var tagPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff", "#9a6324", "#fffac8", "#800000",
	"#aaffc3",
}

// TagColor deterministically assigns a palette color to a tag via an
// FNV-1a hash of the tag string. Pure function; no ambient cache.
func TagColor(tag string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	return tagPalette[h.Sum32()%uint32(len(tagPalette))]
}
