package dashboard

import "sync"

// SearchHistoryLimit caps how many named locations are remembered.
const SearchHistoryLimit = 5

// SearchHistory is a bounded most-recently-used list of named locations,
// unique by display name. Nothing is persisted across sessions.
type SearchHistory struct {
	mu      sync.Mutex
	entries []SearchEntry
}

// NewSearchHistory creates an empty history.
func NewSearchHistory() *SearchHistory {
	return &SearchHistory{}
}

// Add records a selected location. Any existing entry with the same display
// name is removed first, the new entry is prepended, and the list is
// truncated to the cap.
func (h *SearchHistory) Add(entry SearchEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	kept := make([]SearchEntry, 0, len(h.entries)+1)
	kept = append(kept, entry)
	for _, e := range h.entries {
		if e.DisplayName == entry.DisplayName {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > SearchHistoryLimit {
		kept = kept[:SearchHistoryLimit]
	}
	h.entries = kept
}

// List returns the entries most-recent-first.
func (h *SearchHistory) List() []SearchEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]SearchEntry, len(h.entries))
	copy(out, h.entries)
	return out
}
