package dto

import (
	"time"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// ApproveAccessRequestRequest carries optional corrections applied with the approval.
type ApproveAccessRequestRequest struct {
	Role      *string `json:"role,omitempty"`
	UnitID    *string `json:"unitId,omitempty"`
	ClearUnit bool    `json:"clearUnit,omitempty"`
	Address   *string `json:"address,omitempty"`
	CityID    *string `json:"cityId,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
}

// ToOverrides converts the request into domain overrides.
func (r ApproveAccessRequestRequest) ToOverrides() domain.ApprovalOverrides {
	o := domain.ApprovalOverrides{
		UnitID:    r.UnitID,
		ClearUnit: r.ClearUnit,
		Address:   r.Address,
		CityID:    r.CityID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Email:     r.Email,
	}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		o.Role = &role
	}
	return o
}

// RejectAccessRequestRequest carries the rejection reason.
type RejectAccessRequestRequest struct {
	Reason string `json:"reason"`
}

// AccessRequestResponse is the manager view of an access request.
type AccessRequestResponse struct {
	AccessRequestID string     `json:"accessRequestId"`
	UserID          string     `json:"userId"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submittedAt"`
	ApprovedBy      *string    `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	Email           string     `json:"email,omitempty"`
	FirstName       string     `json:"firstName,omitempty"`
	LastName        string     `json:"lastName,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Role            string     `json:"role,omitempty"`
	UnitID          *string    `json:"unitId,omitempty"`
	UnitName        string     `json:"unitName,omitempty"`
}

// ApproveAccessRequestResponse is the approval outcome.
type ApproveAccessRequestResponse struct {
	Message  string                `json:"message"`
	Request  AccessRequestResponse `json:"request"`
	Warning  string                `json:"warning,omitempty"`
	Warnings []string              `json:"warnings,omitempty"`
	OTPCode  string                `json:"otpCode,omitempty"`
}

// ListAccessRequestsResponse wraps a listing.
type ListAccessRequestsResponse struct {
	Requests []AccessRequestResponse `json:"requests"`
	Count    int                     `json:"count"`
}

// ToAccessRequestResponse converts a bare request.
func ToAccessRequestResponse(r domain.AccessRequest) AccessRequestResponse {
	return AccessRequestResponse{
		AccessRequestID: r.AccessRequestID,
		UserID:          r.UserID,
		Status:          string(r.Status),
		SubmittedAt:     r.SubmittedAt,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
	}
}

// ToListAccessRequestsResponse converts a listing.
func ToListAccessRequestsResponse(items []domain.AccessRequestDetails) ListAccessRequestsResponse {
	out := make([]AccessRequestResponse, len(items))
	for i, d := range items {
		resp := ToAccessRequestResponse(d.AccessRequest)
		resp.Email = d.Email
		resp.FirstName = d.FirstName
		resp.LastName = d.LastName
		resp.Phone = d.Phone
		resp.Role = string(d.Role)
		resp.UnitID = d.UnitID
		resp.UnitName = d.UnitName
		out[i] = resp
	}
	return ListAccessRequestsResponse{Requests: out, Count: len(out)}
}
