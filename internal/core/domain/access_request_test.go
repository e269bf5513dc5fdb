package domain_test

import (
	"testing"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAccessRequest_CheckTransition(t *testing.T) {
	assert.NoError(t, domain.AccessRequest{Status: domain.AccessRequestPending}.CheckTransition())

	err := domain.AccessRequest{Status: domain.AccessRequestApproved}.CheckTransition()
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApproved)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	err = domain.AccessRequest{Status: domain.AccessRequestRejected}.CheckTransition()
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.NotErrorIs(t, err, apperrors.ErrAlreadyApproved)
}

func TestApprovalOverrides_Apply(t *testing.T) {
	role := domain.RoleBranchManager
	user := domain.User{UserID: "u1", Email: "old@x.com", FirstName: "Old"}
	profile := domain.Profile{UserID: "u1", UnitID: stringPtr("Team1"), Role: domain.RoleUser}

	gotUser, gotProfile := domain.ApprovalOverrides{
		Role:      &role,
		FirstName: stringPtr("New"),
		Email:     stringPtr("new@x.com"),
		ClearUnit: true,
	}.Apply(user, profile)

	assert.Equal(t, "New", gotUser.FirstName)
	assert.Equal(t, "new@x.com", gotUser.Email)
	assert.Equal(t, domain.RoleBranchManager, gotProfile.Role)
	assert.Nil(t, gotProfile.UnitID)
	// the inputs are untouched
	assert.Equal(t, "Old", user.FirstName)
	assert.NotNil(t, profile.UnitID)
}
