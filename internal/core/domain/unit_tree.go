package domain

import (
	"sort"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
)

// UnitTree is an arena of units keyed by ID with a parent index for children.
// It is built once per request from a snapshot of the units table and is
// safe for concurrent reads.
type UnitTree struct {
	units    map[string]Unit
	children map[string][]string
	roots    []string
}

// NewUnitTree indexes units. Units whose parent is not part of the snapshot
// are treated as roots.
func NewUnitTree(units []Unit) *UnitTree {
	t := &UnitTree{
		units:    make(map[string]Unit, len(units)),
		children: make(map[string][]string),
	}
	for _, u := range units {
		t.units[u.UnitID] = u
	}
	for _, u := range units {
		if u.ParentID != nil {
			if _, ok := t.units[*u.ParentID]; ok {
				t.children[*u.ParentID] = append(t.children[*u.ParentID], u.UnitID)
				continue
			}
		}
		t.roots = append(t.roots, u.UnitID)
	}
	for parent := range t.children {
		t.sortIDs(t.children[parent])
	}
	t.sortIDs(t.roots)
	return t
}

// sortIDs orders sibling IDs by order number, then name.
func (t *UnitTree) sortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := t.units[ids[i]], t.units[ids[j]]
		if a.OrderNumber != b.OrderNumber {
			return a.OrderNumber < b.OrderNumber
		}
		return a.Name < b.Name
	})
}

// Len returns the number of units in the tree.
func (t *UnitTree) Len() int {
	return len(t.units)
}

// Unit looks up a unit by ID.
func (t *UnitTree) Unit(id string) (Unit, bool) {
	u, ok := t.units[id]
	return u, ok
}

// Roots returns the top-level units in display order.
func (t *UnitTree) Roots() []Unit {
	return t.collect(t.roots)
}

// Children returns the direct children of id in display order.
func (t *UnitTree) Children(id string) []Unit {
	return t.collect(t.children[id])
}

func (t *UnitTree) collect(ids []string) []Unit {
	out := make([]Unit, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.units[id])
	}
	return out
}

// Ancestors walks parent links from id. The nearest parent comes first and
// the root-most unit last; the unit itself is not included.
// A parent chain that revisits a unit yields ErrCycleDetected.
func (t *UnitTree) Ancestors(id string) ([]Unit, error) {
	u, ok := t.units[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	visited := map[string]struct{}{id: {}}
	var out []Unit
	for u.ParentID != nil {
		parent, ok := t.units[*u.ParentID]
		if !ok {
			break
		}
		if _, seen := visited[parent.UnitID]; seen {
			return nil, apperrors.ErrCycleDetected
		}
		visited[parent.UnitID] = struct{}{}
		out = append(out, parent)
		u = parent
	}
	return out, nil
}

// Descendants returns every unit below id, breadth first. Each unit appears
// once even if the parent links are malformed, and id itself is never returned.
func (t *UnitTree) Descendants(id string) []Unit {
	ids := t.DescendantIDs(id)
	return t.collect(ids)
}

// DescendantIDs is Descendants returning IDs only.
func (t *UnitTree) DescendantIDs(id string) []string {
	visited := map[string]struct{}{id: {}}
	var out []string
	queue := append([]string(nil), t.children[id]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, seen := visited[next]; seen {
			continue
		}
		visited[next] = struct{}{}
		out = append(out, next)
		queue = append(queue, t.children[next]...)
	}
	return out
}

// SubtreeIDs returns id followed by all of its descendants.
// An unknown id yields an empty slice.
func (t *UnitTree) SubtreeIDs(id string) []string {
	if _, ok := t.units[id]; !ok {
		return nil
	}
	return append([]string{id}, t.DescendantIDs(id)...)
}

// WouldCreateCycle reports whether making parentID the parent of unitID
// would make unitID its own ancestor.
func (t *UnitTree) WouldCreateCycle(unitID, parentID string) bool {
	if unitID == parentID {
		return true
	}
	for _, d := range t.DescendantIDs(unitID) {
		if d == parentID {
			return true
		}
	}
	return false
}
