package mapping

import (
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/SscSPs/unit_availability_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:                 d.UserID,
		Email:                  d.Email,
		FirstName:              d.FirstName,
		LastName:               d.LastName,
		Phone:                  d.Phone,
		PasswordHash:           ToNullString(d.PasswordHash),
		IsApproved:             d.IsApproved,
		IsActive:               d.IsActive,
		IsStaff:                d.IsStaff,
		Timestamps:             models.Timestamps{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		RefreshTokenHash:       ToNullString(d.RefreshTokenHash),
		RefreshTokenExpiryTime: ToNullTime(d.RefreshTokenExpiryTime),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:                 m.UserID,
		Email:                  m.Email,
		FirstName:              m.FirstName,
		LastName:               m.LastName,
		Phone:                  m.Phone,
		PasswordHash:           FromNullString(m.PasswordHash),
		IsApproved:             m.IsApproved,
		IsActive:               m.IsActive,
		IsStaff:                m.IsStaff,
		RefreshTokenHash:       FromNullString(m.RefreshTokenHash),
		RefreshTokenExpiryTime: FromNullTime(m.RefreshTokenExpiryTime),
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// ToModelProfile converts a domain Profile to a model Profile
func ToModelProfile(d domain.Profile) models.Profile {
	return models.Profile{
		UserID:       d.UserID,
		UnitID:       ToNullString(d.UnitID),
		Role:         string(d.Role),
		ServiceType:  d.ServiceType,
		Address:      d.Address,
		CityID:       ToNullString(d.CityID),
		ContactName:  d.ContactName,
		ContactPhone: d.ContactPhone,
		Timestamps:   models.Timestamps{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
	}
}

// ToDomainProfile converts a model Profile to a domain Profile
func ToDomainProfile(m models.Profile) domain.Profile {
	return domain.Profile{
		UserID:       m.UserID,
		UnitID:       FromNullString(m.UnitID),
		Role:         domain.Role(m.Role),
		ServiceType:  m.ServiceType,
		Address:      m.Address,
		CityID:       FromNullString(m.CityID),
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
