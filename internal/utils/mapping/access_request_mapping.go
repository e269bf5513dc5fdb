package mapping

import (
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/SscSPs/unit_availability_app/internal/models"
)

// ToModelAccessRequest converts a domain AccessRequest to a model AccessRequest
func ToModelAccessRequest(d domain.AccessRequest) models.AccessRequest {
	return models.AccessRequest{
		AccessRequestID: d.AccessRequestID,
		UserID:          d.UserID,
		Status:          string(d.Status),
		SubmittedAt:     d.SubmittedAt,
		ApprovedBy:      ToNullString(d.ApprovedBy),
		ApprovedAt:      ToNullTime(d.ApprovedAt),
		RejectionReason: d.RejectionReason,
	}
}

// ToDomainAccessRequest converts a model AccessRequest to a domain AccessRequest
func ToDomainAccessRequest(m models.AccessRequest) domain.AccessRequest {
	return domain.AccessRequest{
		AccessRequestID: m.AccessRequestID,
		UserID:          m.UserID,
		Status:          domain.AccessRequestStatus(m.Status),
		SubmittedAt:     m.SubmittedAt,
		ApprovedBy:      FromNullString(m.ApprovedBy),
		ApprovedAt:      FromNullTime(m.ApprovedAt),
		RejectionReason: m.RejectionReason,
	}
}

// ToModelOTPToken converts a domain OTPToken to a model OTPToken
func ToModelOTPToken(d domain.OTPToken) models.OTPToken {
	return models.OTPToken{
		OTPTokenID: d.OTPTokenID,
		UserID:     d.UserID,
		Code:       d.Code,
		Purpose:    string(d.Purpose),
		CreatedAt:  d.CreatedAt,
		ExpiresAt:  d.ExpiresAt,
		Used:       d.Used,
	}
}

// ToDomainOTPToken converts a model OTPToken to a domain OTPToken
func ToDomainOTPToken(m models.OTPToken) domain.OTPToken {
	return domain.OTPToken{
		OTPTokenID: m.OTPTokenID,
		UserID:     m.UserID,
		Code:       m.Code,
		Purpose:    domain.OTPPurpose(m.Purpose),
		CreatedAt:  m.CreatedAt,
		ExpiresAt:  m.ExpiresAt,
		Used:       m.Used,
	}
}
