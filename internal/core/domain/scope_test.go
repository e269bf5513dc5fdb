package domain_test

import (
	"testing"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func sampleProfiles() []domain.Profile {
	return []domain.Profile{
		{UserID: "u-unit1", UnitID: stringPtr("Unit1"), Role: domain.RoleUser},
		{UserID: "u-branch1", UnitID: stringPtr("Branch1"), Role: domain.RoleUser},
		{UserID: "u-section1", UnitID: stringPtr("Section1"), Role: domain.RoleUser},
		{UserID: "u-team1", UnitID: stringPtr("Team1"), Role: domain.RoleUser},
		{UserID: "u-team1-b", UnitID: stringPtr("Team1"), Role: domain.RoleUser},
		{UserID: "u-branch2", UnitID: stringPtr("Branch2"), Role: domain.RoleUser},
		{UserID: "u-unassigned", Role: domain.RoleUser},
	}
}

func TestResolveVisibleUserIDs(t *testing.T) {
	tree := sampleTree()
	profiles := sampleProfiles()

	tests := []struct {
		name    string
		caller  domain.Caller
		wantAll bool
		want    []string
	}{
		{
			name:    "staff sees everyone",
			caller:  domain.Caller{UserID: "staff", IsStaff: true, Role: domain.RoleUser},
			wantAll: true,
		},
		{
			name:    "system manager sees everyone",
			caller:  domain.Caller{UserID: "sm", Role: domain.RoleSystemManager},
			wantAll: true,
		},
		{
			name:    "unit manager without unit still sees everyone",
			caller:  domain.Caller{UserID: "um", Role: domain.RoleUnitManager},
			wantAll: true,
		},
		{
			name:    "admin sees everyone",
			caller:  domain.Caller{UserID: "adm", Role: domain.RoleAdmin, UnitID: stringPtr("Team1")},
			wantAll: true,
		},
		{
			name:   "manager without unit sees only self",
			caller: domain.Caller{UserID: "bm", Role: domain.RoleBranchManager},
			want:   []string{"bm"},
		},
		{
			name:   "dangling unit degrades to self",
			caller: domain.Caller{UserID: "bm", Role: domain.RoleBranchManager, UnitID: stringPtr("deleted")},
			want:   []string{"bm"},
		},
		{
			name:   "team manager sees own unit members only",
			caller: domain.Caller{UserID: "u-team1", Role: domain.RoleTeamManager, UnitID: stringPtr("Team1")},
			want:   []string{"u-team1", "u-team1-b"},
		},
		{
			name:   "section manager does not see descendant teams",
			caller: domain.Caller{UserID: "u-section1", Role: domain.RoleSectionManager, UnitID: stringPtr("Section1")},
			want:   []string{"u-section1"},
		},
		{
			name:   "branch manager sees the whole subtree",
			caller: domain.Caller{UserID: "u-branch1", Role: domain.RoleBranchManager, UnitID: stringPtr("Branch1")},
			want:   []string{"u-branch1", "u-section1", "u-team1", "u-team1-b"},
		},
		{
			name:   "plain user sees only self",
			caller: domain.Caller{UserID: "u-team1", Role: domain.RoleUser, UnitID: stringPtr("Team1")},
			want:   []string{"u-team1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ResolveVisibleUserIDs(tt.caller, tree, profiles)
			assert.Equal(t, tt.wantAll, got.IsAll())
			if !tt.wantAll {
				assert.ElementsMatch(t, tt.want, got.IDs())
			}
		})
	}
}

func TestResolveVisibleUserIDs_TeamManagerExcludesParentSection(t *testing.T) {
	caller := domain.Caller{UserID: "tm", Role: domain.RoleTeamManager, UnitID: stringPtr("Team1")}
	got := domain.ResolveVisibleUserIDs(caller, sampleTree(), sampleProfiles())

	assert.True(t, got.Contains("u-team1"))
	assert.False(t, got.Contains("u-section1"))
}

func TestVisibleUsers_Narrow(t *testing.T) {
	scoped := domain.NewVisibleUsers("a", "b", "c")
	filter := domain.NewVisibleUsers("b", "c", "d")

	assert.ElementsMatch(t, []string{"b", "c"}, scoped.Narrow(filter).IDs())
	assert.ElementsMatch(t, []string{"b", "c", "d"}, domain.AllUsers().Narrow(filter).IDs())
	assert.ElementsMatch(t, []string{"a", "b", "c"}, scoped.Narrow(domain.AllUsers()).IDs())
	assert.True(t, domain.AllUsers().Narrow(domain.AllUsers()).IsAll())
	assert.False(t, scoped.Narrow(filter).Contains("d"))
}

func TestRole_Breadth(t *testing.T) {
	assert.Less(t, domain.RoleUser.Breadth(), domain.RoleTeamManager.Breadth())
	assert.Equal(t, domain.RoleTeamManager.Breadth(), domain.RoleSectionManager.Breadth())
	assert.Less(t, domain.RoleSectionManager.Breadth(), domain.RoleBranchManager.Breadth())
	assert.Less(t, domain.RoleBranchManager.Breadth(), domain.RoleAdmin.Breadth())
	assert.False(t, domain.Role("root").IsValid())
	assert.False(t, domain.Role("root").IsManager())
}
