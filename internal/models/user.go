package models

import (
	"database/sql"
	"time"
)

// User is a row of the users table.
type User struct {
	UserID       string         `db:"user_id"`
	Email        string         `db:"email"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Phone        string         `db:"phone"`
	PasswordHash sql.NullString `db:"password_hash"`
	IsApproved   bool           `db:"is_approved"`
	IsActive     bool           `db:"is_active"`
	IsStaff      bool           `db:"is_staff"`
	Timestamps

	// Refresh Token Fields
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`        // Store hash of the refresh token
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"` // Expiry of the stored refresh token
}

// Profile is a row of the profiles table.
type Profile struct {
	UserID       string         `db:"user_id"`
	UnitID       sql.NullString `db:"unit_id"`
	Role         string         `db:"role"`
	ServiceType  string         `db:"service_type"`
	Address      string         `db:"address"`
	CityID       sql.NullString `db:"city_id"`
	ContactName  string         `db:"contact_name"`
	ContactPhone string         `db:"contact_phone"`
	Timestamps
}

// Timestamps are the bookkeeping columns shared by mutable tables.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
