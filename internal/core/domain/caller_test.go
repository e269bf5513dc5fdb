package domain_test

import (
	"testing"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestCaller_CanGrant(t *testing.T) {
	testCases := []struct {
		name   string
		caller domain.Caller
		role   domain.Role
		want   bool
	}{
		{"team lead grants user", domain.Caller{Role: domain.RoleTeamManager}, domain.RoleUser, true},
		{"team lead grants team lead", domain.Caller{Role: domain.RoleTeamManager}, domain.RoleTeamManager, false},
		{"team lead grants section lead", domain.Caller{Role: domain.RoleTeamManager}, domain.RoleSectionManager, false},
		{"branch lead grants section lead", domain.Caller{Role: domain.RoleBranchManager}, domain.RoleSectionManager, true},
		{"branch lead grants branch lead", domain.Caller{Role: domain.RoleBranchManager}, domain.RoleBranchManager, false},
		{"unit manager grants admin", domain.Caller{Role: domain.RoleUnitManager}, domain.RoleAdmin, true},
		{"staff grants anything", domain.Caller{IsStaff: true, Role: domain.RoleUser}, domain.RoleSystemManager, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.caller.CanGrant(tc.role))
		})
	}
}
