package dto

import "github.com/aarondl/null/v8"

type CreateRequestDTO struct {
	Subject       string      `json:"subject" validate:"required,min=3,max=200"`
	EquipmentID   uint64      `json:"equipment_id" validate:"required,gt=0"`
	RequestType   string      `json:"request_type" validate:"required,oneof=COR PRE"`
	Priority      string      `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	TeamID        null.Uint64 `json:"team_id,omitempty"`
	ScheduledDate null.String `json:"scheduled_date,omitempty" validate:"omitempty"`
}

type UpdateRequestDTO struct {
	Subject       *string      `json:"subject,omitempty" validate:"omitempty,min=3,max=200"`
	Priority      *string      `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	TeamID        null.Uint64  `json:"team_id,omitempty"`
	TechnicianID  null.Uint64  `json:"technician_id,omitempty"`
	ScheduledDate null.String  `json:"scheduled_date,omitempty"`
	DurationHours null.Float64 `json:"duration_hours,omitempty"`
}

type TransitionRequestDTO struct {
	Status string `json:"status" validate:"required,oneof=NEW PRO REP SCR"`
}

type SetDurationDTO struct {
	Hours float64 `json:"hours" validate:"gte=0"`
}

type CompleteRequestDTO struct {
	Hours float64 `json:"hours" validate:"gte=0"`
}

type RequestDTO struct {
	ID            uint64            `json:"id"`
	DisplayID     string            `json:"display_id"`
	Subject       string            `json:"subject"`
	Equipment     ShortEquipmentDTO `json:"equipment"`
	RequestType   string            `json:"request_type"`
	Priority      string            `json:"priority"`
	Team          *ShortTeamDTO     `json:"team,omitempty"`
	Technician    *ShortUserDTO     `json:"technician,omitempty"`
	Status        string            `json:"status"`
	StatusLabel   string            `json:"status_label"`
	ScheduledDate *string           `json:"scheduled_date,omitempty"`
	DurationHours *float64          `json:"duration_hours,omitempty"`
	IsOverdue     bool              `json:"is_overdue"`
	CreatedAt     string            `json:"created_at"`
}

type KanbanColumnDTO struct {
	Status      string       `json:"status"`
	StatusLabel string       `json:"status_label"`
	Count       uint64       `json:"count"`
	Requests    []RequestDTO `json:"requests"`
}

type KanbanBoardDTO struct {
	Columns []KanbanColumnDTO `json:"columns"`
}

type CalendarEventDTO struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Equipment string `json:"equipment"`
	Subject   string `json:"subject"`
}
