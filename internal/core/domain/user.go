package domain

import "time"

// User represents an account in the system.
type User struct {
	UserID       string  `json:"userID"` // Primary Key (UUID)
	Email        string  `json:"email"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Phone        string  `json:"phone"`
	PasswordHash *string `json:"-"` // nil for passwordless (OTP only) accounts
	IsApproved   bool    `json:"isApproved"`
	IsActive     bool    `json:"isActive"`
	IsStaff      bool    `json:"isStaff"`

	RefreshTokenHash       *string    `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins first and last name, falling back to the e-mail.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Email
}

// CanLogin reports whether the account may start a session.
func (u User) CanLogin() bool {
	return u.IsActive && u.IsApproved
}

// Profile carries the organizational placement of a user. Every user has at most one.
type Profile struct {
	UserID       string    `json:"userID"`
	UnitID       *string   `json:"unitID,omitempty"`
	Role         Role      `json:"role"`
	ServiceType  string    `json:"serviceType,omitempty"`
	Address      string    `json:"address,omitempty"`
	CityID       *string   `json:"cityID,omitempty"`
	ContactName  string    `json:"contactName,omitempty"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserWithProfile is a user together with its (optional) profile.
type UserWithProfile struct {
	User
	Profile *Profile `json:"profile,omitempty"`
}

// Role returns the profile role, or RoleUser when there is no profile.
func (u UserWithProfile) Role() Role {
	if u.Profile == nil {
		return RoleUser
	}
	return u.Profile.Role
}

// UnitID returns the profile unit, if any.
func (u UserWithProfile) UnitID() *string {
	if u.Profile == nil {
		return nil
	}
	return u.Profile.UnitID
}
