package domain

// Caller is the authenticated principal of a request with its current
// role and unit placement.
type Caller struct {
	UserID     string
	Email      string
	IsStaff    bool
	IsApproved bool
	Role       Role
	UnitID     *string
}

// NewCaller derives a Caller from a user and its profile.
func NewCaller(u UserWithProfile) Caller {
	return Caller{
		UserID:     u.UserID,
		Email:      u.Email,
		IsStaff:    u.IsStaff,
		IsApproved: u.IsApproved,
		Role:       u.Role(),
		UnitID:     u.UnitID(),
	}
}

// IsUnrestricted reports whether the caller sees the whole organization.
func (c Caller) IsUnrestricted() bool {
	return c.IsStaff || c.Role.IsUnrestricted()
}

// CanGrant reports whether the caller may hand out role r. Scoped managers
// may only grant manager roles strictly narrower than their own.
func (c Caller) CanGrant(r Role) bool {
	if c.IsUnrestricted() || !r.IsManager() {
		return true
	}
	return r.Breadth() < c.Role.Breadth()
}

// CanManage reports whether the caller holds any manager capability.
func (c Caller) CanManage() bool {
	return c.IsStaff || c.Role.IsManager()
}
