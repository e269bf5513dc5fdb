package domain

import "sort"

// ScopeKind distinguishes the three shapes a unit scope can take.
type ScopeKind int

const (
	// ScopeAll places no restriction.
	ScopeAll ScopeKind = iota
	// ScopeSelf limits visibility to the caller's own records.
	ScopeSelf
	// ScopeUnits limits visibility to members of a set of units.
	ScopeUnits
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "all"
	case ScopeSelf:
		return "self"
	case ScopeUnits:
		return "units"
	}
	return "unknown"
}

// UnitScope is the set of units whose members a caller may see.
type UnitScope struct {
	Kind    ScopeKind
	SelfID  string
	UnitIDs []string
}

// ResolveUnitScope decides which units a caller may look into:
//   - staff and unit/system managers and admins see everything
//   - callers without a unit, or whose unit no longer exists, see only themselves
//   - plain users see only themselves
//   - team and section managers see their own unit, without descendants
//   - every other manager sees their unit and all its descendants
func ResolveUnitScope(c Caller, tree *UnitTree) UnitScope {
	if c.IsUnrestricted() {
		return UnitScope{Kind: ScopeAll}
	}
	self := UnitScope{Kind: ScopeSelf, SelfID: c.UserID}
	if c.UnitID == nil || tree == nil {
		return self
	}
	if _, ok := tree.Unit(*c.UnitID); !ok {
		return self
	}
	if !c.Role.IsManager() {
		return self
	}
	if c.Role.IsFlat() {
		return UnitScope{Kind: ScopeUnits, SelfID: c.UserID, UnitIDs: []string{*c.UnitID}}
	}
	return UnitScope{Kind: ScopeUnits, SelfID: c.UserID, UnitIDs: tree.SubtreeIDs(*c.UnitID)}
}

// VisibleUsers is the resolved set of user IDs a caller may see: either
// every user, or an explicit set.
type VisibleUsers struct {
	all bool
	ids map[string]struct{}
}

// AllUsers is the unrestricted scope.
func AllUsers() VisibleUsers {
	return VisibleUsers{all: true}
}

// NewVisibleUsers builds an explicit scope.
func NewVisibleUsers(ids ...string) VisibleUsers {
	v := VisibleUsers{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		v.ids[id] = struct{}{}
	}
	return v
}

// IsAll reports whether the scope is unrestricted.
func (v VisibleUsers) IsAll() bool {
	return v.all
}

// Contains reports whether userID is visible.
func (v VisibleUsers) Contains(userID string) bool {
	if v.all {
		return true
	}
	_, ok := v.ids[userID]
	return ok
}

// IDs returns the explicit IDs in sorted order. It is nil for the unrestricted scope.
func (v VisibleUsers) IDs() []string {
	if v.all {
		return nil
	}
	out := make([]string, 0, len(v.ids))
	for id := range v.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len is the number of explicit IDs, or -1 for the unrestricted scope.
func (v VisibleUsers) Len() int {
	if v.all {
		return -1
	}
	return len(v.ids)
}

// Narrow intersects the scope with another one. Narrowing can never
// widen visibility.
func (v VisibleUsers) Narrow(other VisibleUsers) VisibleUsers {
	switch {
	case v.all:
		return other
	case other.all:
		return v
	}
	out := NewVisibleUsers()
	for id := range v.ids {
		if other.Contains(id) {
			out.ids[id] = struct{}{}
		}
	}
	return out
}

// ResolveVisibleUserIDs applies ResolveUnitScope and maps the unit set onto
// users through their profiles. It never fails: anything that cannot be
// resolved degrades to the self-only scope.
func ResolveVisibleUserIDs(c Caller, tree *UnitTree, profiles []Profile) VisibleUsers {
	scope := ResolveUnitScope(c, tree)
	switch scope.Kind {
	case ScopeAll:
		return AllUsers()
	case ScopeSelf:
		return NewVisibleUsers(c.UserID)
	}
	return NewVisibleUsers(MembersOf(scope.UnitIDs, profiles)...)
}

// MembersOf returns the IDs of users whose profile unit is one of unitIDs.
func MembersOf(unitIDs []string, profiles []Profile) []string {
	units := make(map[string]struct{}, len(unitIDs))
	for _, id := range unitIDs {
		units[id] = struct{}{}
	}
	var out []string
	for _, p := range profiles {
		if p.UnitID == nil {
			continue
		}
		if _, ok := units[*p.UnitID]; ok {
			out = append(out, p.UserID)
		}
	}
	return out
}
