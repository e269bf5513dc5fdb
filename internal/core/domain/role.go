package domain

// Role is the organizational role stored on a profile.
type Role string

const (
	RoleUser           Role = "user"
	RoleTeamManager    Role = "team_manager"
	RoleSectionManager Role = "section_manager"
	RoleBranchManager  Role = "branch_manager"
	RoleUnitManager    Role = "unit_manager"
	RoleAdmin          Role = "admin"
	RoleSystemManager  Role = "system_manager"
)

// AllRoles lists every known role ordered by scope breadth.
var AllRoles = []Role{
	RoleUser,
	RoleTeamManager,
	RoleSectionManager,
	RoleBranchManager,
	RoleUnitManager,
	RoleSystemManager,
	RoleAdmin,
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Breadth ranks roles by how much of the organization they can see.
// Roles sharing a rank are equally broad.
func (r Role) Breadth() int {
	switch r {
	case RoleTeamManager, RoleSectionManager:
		return 1
	case RoleBranchManager:
		return 2
	case RoleUnitManager, RoleSystemManager, RoleAdmin:
		return 3
	}
	return 0
}

// IsManager is true for every role above plain user.
func (r Role) IsManager() bool {
	return r.IsValid() && r != RoleUser
}

// IsUnrestricted is true for roles that see the whole organization.
func (r Role) IsUnrestricted() bool {
	return r.Breadth() == 3
}

// IsFlat is true for manager roles limited to their own unit's direct members.
func (r Role) IsFlat() bool {
	return r == RoleTeamManager || r == RoleSectionManager
}
