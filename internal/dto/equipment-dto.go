package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Name           string      `json:"name" validate:"required,min=2,max=100"`
	SerialNumber   string      `json:"serial_number" validate:"required,min=2,max=100"`
	Department     string      `json:"department" validate:"required,max=100"`
	Category       string      `json:"category" validate:"required,oneof=Printer Computer Vehicle Machinery HVAC Power Other"`
	AssignedTo     null.String `json:"assigned_to,omitempty"`
	PurchaseDate   string      `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	WarrantyExpiry null.String `json:"warranty_expiry,omitempty" validate:"omitempty"`
	Location       string      `json:"location" validate:"required,max=100"`
	TeamID         null.Uint64 `json:"team_id,omitempty"`
}

type UpdateEquipmentDTO struct {
	Name           *string     `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Department     *string     `json:"department,omitempty" validate:"omitempty,max=100"`
	Category       *string     `json:"category,omitempty" validate:"omitempty,oneof=Printer Computer Vehicle Machinery HVAC Power Other"`
	AssignedTo     null.String `json:"assigned_to,omitempty"`
	WarrantyExpiry null.String `json:"warranty_expiry,omitempty"`
	Location       *string     `json:"location,omitempty" validate:"omitempty,max=100"`
	TeamID         null.Uint64 `json:"team_id,omitempty"`
}

type EquipmentDTO struct {
	ID                uint64       `json:"id"`
	Name              string       `json:"name"`
	SerialNumber      string       `json:"serial_number"`
	Department        string       `json:"department"`
	Category          string       `json:"category"`
	AssignedTo        *string      `json:"assigned_to,omitempty"`
	PurchaseDate      string       `json:"purchase_date"`
	WarrantyExpiry    *string      `json:"warranty_expiry,omitempty"`
	Location          string       `json:"location"`
	Team              *ShortTeamDTO `json:"team,omitempty"`
	IsScrapped        bool         `json:"is_scrapped"`
	OpenRequestsCount uint64       `json:"open_requests_count"`
	CreatedAt         string       `json:"created_at"`
}
