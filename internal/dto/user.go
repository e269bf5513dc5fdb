package dto

import (
	"time"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// UserResponse is the public view of a user and its profile.
type UserResponse struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Phone      string    `json:"phone"`
	IsApproved bool      `json:"isApproved"`
	IsStaff    bool      `json:"isStaff"`
	Role       string    `json:"role"`
	UnitID     *string   `json:"unitId,omitempty"`
	Address    string    `json:"address,omitempty"`
	CityID     *string   `json:"cityId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UpdatePermissionsRequest changes role and unit placement.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdatePermissionsRequest struct {
	Role      *string `json:"role,omitempty"`
	UnitID    *string `json:"unitId,omitempty"`
	ClearUnit bool    `json:"clearUnit,omitempty"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
	Count int            `json:"count"`
}

// ToUserResponse converts a domain user to its response DTO.
func ToUserResponse(u domain.UserWithProfile) UserResponse {
	resp := UserResponse{
		UserID:     u.UserID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Phone:      u.Phone,
		IsApproved: u.IsApproved,
		IsStaff:    u.IsStaff,
		Role:       string(u.Role()),
		UnitID:     u.UnitID(),
		CreatedAt:  u.CreatedAt,
	}
	if u.Profile != nil {
		resp.Address = u.Profile.Address
		resp.CityID = u.Profile.CityID
	}
	return resp
}

// ToListUserResponse converts a slice of users to ListUsersResponse DTO
func ToListUserResponse(users []domain.UserWithProfile) ListUsersResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	return ListUsersResponse{Users: out, Count: len(out)}
}
