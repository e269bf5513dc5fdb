package domain

import "time"

// OTPPurpose tags what a one-time code was issued for.
type OTPPurpose string

const OTPPurposeLogin OTPPurpose = "login"

// OTPToken is a one-time login code. Many may be outstanding per user.
type OTPToken struct {
	OTPTokenID string     `json:"otpTokenID"`
	UserID     string     `json:"userID"`
	Code       string     `json:"-"`
	Purpose    OTPPurpose `json:"purpose"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	Used       bool       `json:"used"`
}

// IsRedeemable reports whether the token can still be consumed at now.
func (t OTPToken) IsRedeemable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// OTPIssue describes a freshly issued code.
type OTPIssue struct {
	UserID           string
	Code             string
	ExpiresAt        time.Time
	ExpiresInMinutes int
	Warning          string // set when the code was created but delivery could not be queued
}

// SessionTokens is the pair handed to a client after authentication.
type SessionTokens struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// AuthSession is the result of a successful login.
type AuthSession struct {
	Tokens SessionTokens
	User   UserWithProfile
}
