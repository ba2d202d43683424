// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-18

package issue

import "fmt"

// IndexEntry is one destination issue as seen by the title index.
type IndexEntry struct {
	ID    int
	Title string
}

// TitleIndex maps destination issue ids to titles. It is captured once per
// run and has no mutating methods, so issues created during a run never
// show up in it.
//
// Titles are the only identity key between trackers: two unrelated issues
// that happen to share a title are treated as the same issue. This is the
// documented matching contract, not an accident.
type TitleIndex struct {
	entries []IndexEntry
	byID    map[int]int
	titles  map[string]int
}

// NewTitleIndex builds an index from entries in traversal order. It fails
// when an id appears more than once.
func NewTitleIndex(entries []IndexEntry) (*TitleIndex, error) {
	idx := &TitleIndex{
		entries: make([]IndexEntry, 0, len(entries)),
		byID:    make(map[int]int, len(entries)),
		titles:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := idx.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: destination issue id %d appears more than once", ErrConstruction, e.ID)
		}
		idx.byID[e.ID] = len(idx.entries)
		idx.entries = append(idx.entries, e)
		idx.titles[e.Title]++
	}
	return idx, nil
}

// Contains reports whether any destination issue carries exactly this title.
func (x *TitleIndex) Contains(title string) bool {
	if x == nil {
		return false
	}
	return x.titles[title] > 0
}

// Title returns the title of destination issue id.
func (x *TitleIndex) Title(id int) (string, bool) {
	if x == nil {
		return "", false
	}
	i, ok := x.byID[id]
	if !ok {
		return "", false
	}
	return x.entries[i].Title, true
}

// Len returns the number of destination issues in the index.
func (x *TitleIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Entries returns a copy of the entries in traversal order.
func (x *TitleIndex) Entries() []IndexEntry {
	if x == nil {
		return nil
	}
	out := make([]IndexEntry, len(x.entries))
	copy(out, x.entries)
	return out
}
