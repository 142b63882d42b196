package entities

import (
	"fmt"
	"time"
)

type RequestStatus string

const (
	StatusNew        RequestStatus = "NEW"
	StatusInProgress RequestStatus = "PRO"
	StatusRepaired   RequestStatus = "REP"
	StatusScrap      RequestStatus = "SCR"
)

var statusLabels = map[RequestStatus]string{
	StatusNew:        "New",
	StatusInProgress: "In Progress",
	StatusRepaired:   "Repaired",
	StatusScrap:      "Scrap",
}

// AllowedTransitions is the full status state machine. Repaired and Scrap are
// terminal: no outgoing edges.
var AllowedTransitions = map[RequestStatus][]RequestStatus{
	StatusNew:        {StatusInProgress, StatusScrap},
	StatusInProgress: {StatusRepaired, StatusScrap},
	StatusRepaired:   {},
	StatusScrap:      {},
}

func (s RequestStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s RequestStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range AllowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RequestStatus) Terminal() bool {
	return len(AllowedTransitions[s]) == 0
}

type RequestType string

const (
	TypeCorrective RequestType = "COR"
	TypePreventive RequestType = "PRE"
)

func (t RequestType) Valid() bool {
	return t == TypeCorrective || t == TypePreventive
}

func (t RequestType) Label() string {
	switch t {
	case TypeCorrective:
		return "Corrective"
	case TypePreventive:
		return "Preventive"
	}
	return string(t)
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type MaintenanceRequest struct {
	ID            uint64         `json:"id"`
	Subject       string         `json:"subject"`
	EquipmentID   uint64         `json:"equipment_id"`
	RequestType   RequestType    `json:"request_type"`
	Priority      Priority       `json:"priority"`
	TeamID        *uint64        `json:"team_id,omitempty"`
	TechnicianID  *uint64        `json:"technician_id,omitempty"`
	Status        RequestStatus  `json:"status"`
	ScheduledDate *time.Time     `json:"scheduled_date,omitempty"`
	DurationHours *float64       `json:"duration_hours,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`

	Equipment  *Equipment       `db:"-" json:"equipment,omitempty"`
	Team       *MaintenanceTeam `db:"-" json:"team,omitempty"`
	Technician *User            `db:"-" json:"technician,omitempty"`
}

// DisplayID returns the formatted request id, e.g. REQ-2026-0001.
func (r *MaintenanceRequest) DisplayID() string {
	return fmt.Sprintf("REQ-%d-%04d", r.CreatedAt.Year(), r.ID)
}

// IsOverdue reports whether the scheduled date has passed while the request
// is still open (New or In Progress). Derived, never stored.
func (r *MaintenanceRequest) IsOverdue(now time.Time) bool {
	if r.ScheduledDate == nil {
		return false
	}
	if r.Status != StatusNew && r.Status != StatusInProgress {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return r.ScheduledDate.Before(today)
}
