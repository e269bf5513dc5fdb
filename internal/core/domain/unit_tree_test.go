package domain_test

import (
	"testing"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string {
	return &s
}

func unit(id string, parent *string, t domain.UnitType, order int) domain.Unit {
	return domain.Unit{UnitID: id, Name: id, ParentID: parent, UnitType: t, OrderNumber: order}
}

// sampleTree builds:
//
//	Unit1
//	├── Branch1
//	│   ├── Section1
//	│   │   └── Team1
//	│   └── Section2
//	└── Branch2
//	Unit2
func sampleTree() *domain.UnitTree {
	return domain.NewUnitTree([]domain.Unit{
		unit("Unit1", nil, domain.UnitTypeUnit, 1),
		unit("Unit2", nil, domain.UnitTypeUnit, 2),
		unit("Branch1", stringPtr("Unit1"), domain.UnitTypeBranch, 1),
		unit("Branch2", stringPtr("Unit1"), domain.UnitTypeBranch, 2),
		unit("Section2", stringPtr("Branch1"), domain.UnitTypeSection, 2),
		unit("Section1", stringPtr("Branch1"), domain.UnitTypeSection, 1),
		unit("Team1", stringPtr("Section1"), domain.UnitTypeTeam, 1),
	})
}

func ids(units []domain.Unit) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.UnitID)
	}
	return out
}

func TestUnitTree_Ancestors(t *testing.T) {
	tree := sampleTree()

	got, err := tree.Ancestors("Team1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Section1", "Branch1", "Unit1"}, ids(got))

	got, err = tree.Ancestors("Unit1")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = tree.Ancestors("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUnitTree_Descendants(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, []string{"Branch1", "Branch2", "Section1", "Section2", "Team1"}, ids(tree.Descendants("Unit1")))
	assert.Equal(t, []string{"Team1"}, ids(tree.Descendants("Section1")))
	assert.Empty(t, tree.Descendants("Team1"))
	assert.Equal(t, []string{"Section1", "Team1"}, tree.SubtreeIDs("Section1"))
	assert.Nil(t, tree.SubtreeIDs("missing"))
}

func TestUnitTree_DescendantAncestorDuality(t *testing.T) {
	tree := sampleTree()
	all := []string{"Unit1", "Unit2", "Branch1", "Branch2", "Section1", "Section2", "Team1"}

	for _, a := range all {
		desc := map[string]bool{}
		for _, d := range tree.DescendantIDs(a) {
			desc[d] = true
		}
		for _, b := range all {
			anc, err := tree.Ancestors(b)
			require.NoError(t, err)
			assert.Equal(t, desc[b], contains(ids(anc), a), "a=%s b=%s", a, b)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestUnitTree_CycleGuard(t *testing.T) {
	tree := domain.NewUnitTree([]domain.Unit{
		unit("A", stringPtr("C"), domain.UnitTypeUnit, 1),
		unit("B", stringPtr("A"), domain.UnitTypeBranch, 1),
		unit("C", stringPtr("B"), domain.UnitTypeSection, 1),
	})

	_, err := tree.Ancestors("A")
	assert.ErrorIs(t, err, apperrors.ErrCycleDetected)

	// Descendants terminate and never repeat a unit or include the start.
	assert.ElementsMatch(t, []string{"B", "C"}, tree.DescendantIDs("A"))
}

func TestUnitTree_WouldCreateCycle(t *testing.T) {
	tree := sampleTree()

	assert.True(t, tree.WouldCreateCycle("Branch1", "Team1"))
	assert.True(t, tree.WouldCreateCycle("Branch1", "Branch1"))
	assert.False(t, tree.WouldCreateCycle("Team1", "Branch2"))
	assert.False(t, tree.WouldCreateCycle("Unit2", "Unit1"))
}

func TestUnitTree_RootsAndChildrenOrdering(t *testing.T) {
	tree := domain.NewUnitTree([]domain.Unit{
		unit("b", nil, domain.UnitTypeUnit, 1),
		unit("a", nil, domain.UnitTypeUnit, 1),
		unit("z", nil, domain.UnitTypeUnit, 0),
		unit("orphan", stringPtr("gone"), domain.UnitTypeTeam, 5),
	})

	assert.Equal(t, []string{"z", "a", "b", "orphan"}, ids(tree.Roots()))
	assert.Equal(t, 4, tree.Len())
}
