package entities

import "gearguard/pkg/types"

type User struct {
	ID           uint64 `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	types.BaseEntity
}
