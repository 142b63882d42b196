package entities

import "gearguard/pkg/types"

type MaintenanceTeam struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`

	types.BaseEntity

	Members []User `db:"-" json:"members,omitempty"`
}
