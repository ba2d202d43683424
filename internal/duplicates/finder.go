// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-15

// Package duplicates finds destination issues that share a title.
package duplicates

import (
	"sort"

	"github.com/similigh/labmigrate/internal/core/issue"
)

// Group is a set of destination issues sharing one title. IDs keep the
// index traversal order.
type Group struct {
	Title string
	IDs   []int
}

// Survivor returns the member kept when the others are deleted: the highest
// id, which is the most recently created issue.
func (g Group) Survivor() int {
	survivor := 0
	for i, id := range g.IDs {
		if i == 0 || id > survivor {
			survivor = id
		}
	}
	return survivor
}

// Redundant returns every member except the survivor, highest id first.
func (g Group) Redundant() []int {
	if len(g.IDs) < 2 {
		return nil
	}
	sorted := make([]int, len(g.IDs))
	copy(sorted, g.IDs)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	return sorted[1:]
}

// Find groups the index by title and keeps the groups with more than one
// member, ordered by the first appearance of each title.
func Find(idx *issue.TitleIndex) []Group {
	var order []string
	byTitle := make(map[string][]int)

	for _, e := range idx.Entries() {
		if _, seen := byTitle[e.Title]; !seen {
			order = append(order, e.Title)
		}
		byTitle[e.Title] = append(byTitle[e.Title], e.ID)
	}

	var groups []Group
	for _, title := range order {
		ids := byTitle[title]
		if len(ids) < 2 {
			continue
		}
		groups = append(groups, Group{Title: title, IDs: ids})
	}
	return groups
}

// Directives renders one deletion directive per redundant issue, group by
// group, highest id first within each group.
func Directives(groups []Group, format func(id int) string) []string {
	var out []string
	for _, g := range groups {
		for _, id := range g.Redundant() {
			out = append(out, format(id))
		}
	}
	return out
}

// RedundantIDs flattens the redundant members of every group in directive
// order.
func RedundantIDs(groups []Group) []int {
	var ids []int
	for _, g := range groups {
		ids = append(ids, g.Redundant()...)
	}
	return ids
}
