package domain

// AlertAudience selects who receives an alert.
type AlertAudience string

const (
	AlertToUsers    AlertAudience = "users"
	AlertToManagers AlertAudience = "managers"
	AlertToAll      AlertAudience = "all"
)

// IsValid reports whether a is a known audience.
func (a AlertAudience) IsValid() bool {
	return a == AlertToUsers || a == AlertToManagers || a == AlertToAll
}

// Includes reports whether a user with role r belongs to the audience.
func (a AlertAudience) Includes(r Role) bool {
	switch a {
	case AlertToUsers:
		return !r.IsManager()
	case AlertToManagers:
		return r.IsManager()
	}
	return true
}

// Alert is a manager broadcast.
type Alert struct {
	Subject  string
	Message  string
	UnitID   *string
	Audience AlertAudience
}

// AlertResult reports how many recipients were selected and queued.
type AlertResult struct {
	Recipients int `json:"recipients"`
	Queued     int `json:"queued"`
	Failed     int `json:"failed"`
}
