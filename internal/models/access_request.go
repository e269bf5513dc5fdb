package models

import (
	"database/sql"
	"time"
)

// AccessRequest is a row of the access_requests table.
type AccessRequest struct {
	AccessRequestID string         `db:"access_request_id"`
	UserID          string         `db:"user_id"`
	Status          string         `db:"status"`
	SubmittedAt     time.Time      `db:"submitted_at"`
	ApprovedBy      sql.NullString `db:"approved_by"`
	ApprovedAt      sql.NullTime   `db:"approved_at"`
	RejectionReason string         `db:"rejection_reason"`
}

// OTPToken is a row of the otp_tokens table.
type OTPToken struct {
	OTPTokenID string    `db:"otp_token_id"`
	UserID     string    `db:"user_id"`
	Code       string    `db:"code"`
	Purpose    string    `db:"purpose"`
	CreatedAt  time.Time `db:"created_at"`
	ExpiresAt  time.Time `db:"expires_at"`
	Used       bool      `db:"used"`
}
