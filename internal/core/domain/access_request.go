package domain

import (
	"time"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
)

// AccessRequestStatus is the workflow state of an access request.
type AccessRequestStatus string

const (
	AccessRequestPending  AccessRequestStatus = "pending"
	AccessRequestApproved AccessRequestStatus = "approved"
	AccessRequestRejected AccessRequestStatus = "rejected"
)

// IsValid reports whether s is a known status.
func (s AccessRequestStatus) IsValid() bool {
	switch s {
	case AccessRequestPending, AccessRequestApproved, AccessRequestRejected:
		return true
	}
	return false
}

// AccessRequest gates a newly registered user's activation.
// Once it leaves pending it never returns.
type AccessRequest struct {
	AccessRequestID string              `json:"accessRequestID"`
	UserID          string              `json:"userID"`
	Status          AccessRequestStatus `json:"status"`
	SubmittedAt     time.Time           `json:"submittedAt"`
	ApprovedBy      *string             `json:"approvedBy,omitempty"` // set on approve and reject
	ApprovedAt      *time.Time          `json:"approvedAt,omitempty"`
	RejectionReason string              `json:"rejectionReason,omitempty"`
}

// CheckTransition returns nil when the request may leave pending.
func (r AccessRequest) CheckTransition() error {
	switch r.Status {
	case AccessRequestPending:
		return nil
	case AccessRequestApproved:
		return apperrors.ErrAlreadyApproved
	}
	return apperrors.ErrInvalidState
}

// AccessRequestDetails is an access request joined with its user and placement,
// as shown to managers.
type AccessRequestDetails struct {
	AccessRequest
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"phone"`
	Role      Role    `json:"role"`
	UnitID    *string `json:"unitID,omitempty"`
	UnitName  string  `json:"unitName,omitempty"`
}

// ApprovalOverrides are optional profile and user corrections applied
// together with an approval.
type ApprovalOverrides struct {
	Role      *Role
	UnitID    *string
	ClearUnit bool
	Address   *string
	CityID    *string
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
}

// Apply writes the overrides onto copies of user and profile.
func (o ApprovalOverrides) Apply(u User, p Profile) (User, Profile) {
	if o.Role != nil {
		p.Role = *o.Role
	}
	if o.ClearUnit {
		p.UnitID = nil
	} else if o.UnitID != nil {
		id := *o.UnitID
		p.UnitID = &id
	}
	if o.Address != nil {
		p.Address = *o.Address
	}
	if o.CityID != nil {
		id := *o.CityID
		p.CityID = &id
	}
	if o.FirstName != nil {
		u.FirstName = *o.FirstName
	}
	if o.LastName != nil {
		u.LastName = *o.LastName
	}
	if o.Phone != nil {
		u.Phone = *o.Phone
	}
	if o.Email != nil {
		u.Email = *o.Email
	}
	return u, p
}

// AccessRequestDecision is the CAS write performed when a request leaves pending.
// User and Profile are only set on approval.
type AccessRequestDecision struct {
	AccessRequestID string
	Status          AccessRequestStatus
	DecidedBy       string
	DecidedAt       time.Time
	RejectionReason string
	User            *User
	Profile         *Profile
}
