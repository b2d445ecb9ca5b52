package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateProvinceRequest struct {
	Name        string `json:"name"         validate:"required,min=2,max=255"`
	Code        string `json:"code"         validate:"required,max=10"`
	CountryCode string `json:"country_code" validate:"omitempty,len=2"`
}

type CreateLocalityRequest struct {
	Name       string `json:"name"        validate:"required,min=2,max=255"`
	ProvinceID string `json:"province_id" validate:"required,uuid"`
}

type CreateAddressRequest struct {
	UserID     string `json:"user_id"     validate:"required,uuid"`
	Street     string `json:"street"      validate:"required,max=255"`
	Number     string `json:"number"      validate:"omitempty,max=20"`
	City       string `json:"city"        validate:"omitempty,max=255"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
	ProvinceID string `json:"province_id" validate:"required,uuid"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ProvinceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	CountryCode string    `json:"country_code"`
}

type LocalityResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProvinceID   uuid.UUID `json:"province_id"`
	ProvinceName string    `json:"province_name,omitempty"`
}

type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Street     string    `json:"street"`
	Number     string    `json:"number,omitempty"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	ProvinceID uuid.UUID `json:"province_id"`
}
