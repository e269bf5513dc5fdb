package dto

import "time"

// RegisterRequest is the payload of a self registration.
type RegisterRequest struct {
	Email           string  `json:"email" binding:"required,email"`
	Password        string  `json:"password,omitempty" binding:"omitempty,min=8"`
	ConfirmPassword string  `json:"confirmPassword,omitempty" binding:"omitempty,eqfield=Password"`
	FirstName       string  `json:"firstName" binding:"max=150"`
	LastName        string  `json:"lastName" binding:"max=150"`
	Phone           string  `json:"phone" binding:"max=20"`
	UnitID          *string `json:"unitId,omitempty"`
	Role            string  `json:"role,omitempty"`
	ServiceType     string  `json:"serviceType,omitempty"`
	Address         string  `json:"address,omitempty"`
	CityID          *string `json:"cityId,omitempty"`
	ContactName     string  `json:"contactName,omitempty"`
	ContactPhone    string  `json:"contactPhone,omitempty"`
}

// RegisterResponse reports the pending registration.
type RegisterResponse struct {
	UserID          string `json:"userId"`
	AccessRequestID string `json:"accessRequestId"`
	Status          string `json:"status"`
	Message         string `json:"message"`
}

// LoginRequest is an e-mail and password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RequestOTPRequest asks for a login code.
type RequestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestOTPResponse confirms a code was issued.
type RequestOTPResponse struct {
	Message          string `json:"message"`
	ExpiresInMinutes int    `json:"expiresInMinutes"`
	Warning          string `json:"warning,omitempty"`
	OTPCode          string `json:"otpCode,omitempty"` // only when debug exposure is enabled
}

// VerifyOTPRequest redeems a login code.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// RefreshTokenRequest rotates a refresh token.
type RefreshTokenRequest struct {
	UserID       string `json:"userId" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	AccessToken           string       `json:"accessToken"`
	AccessTokenExpiresAt  time.Time    `json:"accessTokenExpiresAt"`
	RefreshToken          string       `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time    `json:"refreshTokenExpiresAt"`
	User                  *UserResponse `json:"user,omitempty"`
}

// GoogleExchangeCodeRequest carries the authorization code returned by Google.
type GoogleExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// GoogleLoginURLResponse is the URL and CSRF state to start a Google sign-in.
type GoogleLoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}
