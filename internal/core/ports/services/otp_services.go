package services

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// OTPSvcFacade issues and redeems one-time login codes.
type OTPSvcFacade interface {
	// RequestCode issues a code for the approved user with email and queues its delivery.
	RequestCode(ctx context.Context, email string) (*domain.OTPIssue, error)

	// IssueCode issues a code for a known user without charging the request rate limit.
	IssueCode(ctx context.Context, user domain.User) (*domain.OTPIssue, error)

	// VerifyCode redeems a code and opens a session.
	VerifyCode(ctx context.Context, email, code string) (*domain.AuthSession, error)
}
