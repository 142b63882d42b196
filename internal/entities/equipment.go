package entities

import (
	"time"

	"gearguard/pkg/types"
)

type EquipmentCategory string

const (
	CategoryPrinter   EquipmentCategory = "Printer"
	CategoryComputer  EquipmentCategory = "Computer"
	CategoryVehicle   EquipmentCategory = "Vehicle"
	CategoryMachinery EquipmentCategory = "Machinery"
	CategoryHVAC      EquipmentCategory = "HVAC"
	CategoryPower     EquipmentCategory = "Power"
	CategoryOther     EquipmentCategory = "Other"
)

func (c EquipmentCategory) Valid() bool {
	switch c {
	case CategoryPrinter, CategoryComputer, CategoryVehicle,
		CategoryMachinery, CategoryHVAC, CategoryPower, CategoryOther:
		return true
	}
	return false
}

type Equipment struct {
	ID             uint64            `json:"id"`
	Name           string            `json:"name"`
	SerialNumber   string            `json:"serial_number"`
	Department     string            `json:"department"`
	Category       EquipmentCategory `json:"category"`
	AssignedTo     *string           `json:"assigned_to,omitempty"`
	PurchaseDate   time.Time         `json:"purchase_date"`
	WarrantyExpiry *time.Time        `json:"warranty_expiry,omitempty"`
	Location       string            `json:"location"`
	TeamID         *uint64           `json:"team_id,omitempty"`
	IsScrapped     bool              `json:"is_scrapped"`

	types.BaseEntity

	Team *MaintenanceTeam `db:"-" json:"team,omitempty"`
}
