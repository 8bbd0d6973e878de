// Package tags folds the metadata cache's path → tags mapping into the
// tag index the sidebar renders: each tag with the set of notes carrying
// it, ordered by descending note count.
package tags

import (
	"sort"
	"sync"
)

// Count is one row of the tag index.
type Count struct {
	Tag   string
	Paths []string // Absolute note paths carrying the tag, sorted
}

// Fold computes the tag index from a path → tags snapshot. Tags with no
// notes never appear; the displayed count is always len(Paths). Order is
// descending note count, ties broken alphabetically by tag.
func Fold(snapshot map[string][]string) []Count {
	byTag := make(map[string][]string)
	for path, tags := range snapshot {
		for _, tag := range tags {
			byTag[tag] = append(byTag[tag], path)
		}
	}

	counts := make([]Count, 0, len(byTag))
	for tag, paths := range byTag {
		sort.Strings(paths)
		counts = append(counts, Count{Tag: tag, Paths: paths})
	}

	sort.Slice(counts, func(i, j int) bool {
		if len(counts[i].Paths) != len(counts[j].Paths) {
			return len(counts[i].Paths) > len(counts[j].Paths)
		}
		return counts[i].Tag < counts[j].Tag
	})

	return counts
}

// Aggregator holds the most recent fold result so views can read it
// without recomputing. Refold replaces the result wholesale; there is no
// incremental maintenance, matching the recompute-on-signal contract.
type Aggregator struct {
	mu     sync.RWMutex
	counts []Count
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Refold recomputes the index from a fresh snapshot and returns the new
// result.
func (a *Aggregator) Refold(snapshot map[string][]string) []Count {
	counts := Fold(snapshot)
	a.mu.Lock()
	a.counts = counts
	a.mu.Unlock()
	return counts
}

// Counts returns the current index.
func (a *Aggregator) Counts() []Count {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.counts
}

// FilesFor returns the note paths carrying the given tag, or nil when the
// tag is not in the current index.
func (a *Aggregator) FilesFor(tag string) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, c := range a.counts {
		if c.Tag == tag {
			return c.Paths
		}
	}
	return nil
}

// Has reports whether the tag is present in the current index.
func (a *Aggregator) Has(tag string) bool {
	return a.FilesFor(tag) != nil
}
