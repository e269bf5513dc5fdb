package services

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// AccessRequestFilter narrows an access request listing.
type AccessRequestFilter struct {
	Status *domain.AccessRequestStatus
	UnitID *string
}

// ApprovalResult is the outcome of an approval. The transition itself always
// succeeded; Warnings lists side effects that could not be performed.
type ApprovalResult struct {
	Request  domain.AccessRequest
	OTP      *domain.OTPIssue
	Warnings []string
}

// AccessRequestSvcFacade drives the access request workflow.
type AccessRequestSvcFacade interface {
	// ListAccessRequests returns the requests visible to the caller.
	ListAccessRequests(ctx context.Context, caller domain.Caller, filter AccessRequestFilter) ([]domain.AccessRequestDetails, error)

	// ApproveAccessRequest approves a pending request, applying overrides to the
	// target user, then issues a login code and notifies the user.
	ApproveAccessRequest(ctx context.Context, caller domain.Caller, requestID string, overrides domain.ApprovalOverrides) (*ApprovalResult, error)

	// RejectAccessRequest rejects a pending request.
	RejectAccessRequest(ctx context.Context, caller domain.Caller, requestID string, reason string) (*domain.AccessRequest, error)
}
