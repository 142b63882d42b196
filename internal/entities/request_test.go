package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{StatusNew, StatusInProgress, true},
		{StatusNew, StatusScrap, true},
		{StatusNew, StatusRepaired, false},
		{StatusNew, StatusNew, false},
		{StatusInProgress, StatusRepaired, true},
		{StatusInProgress, StatusScrap, true},
		{StatusInProgress, StatusNew, false},
		{StatusRepaired, StatusNew, false},
		{StatusRepaired, StatusInProgress, false},
		{StatusRepaired, StatusScrap, false},
		{StatusScrap, StatusNew, false},
		{StatusScrap, StatusRepaired, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestRequestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusNew.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusRepaired.Terminal())
	assert.True(t, StatusScrap.Terminal())
}

func TestRequestStatus_Labels(t *testing.T) {
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "Scrap", StatusScrap.Label())
	assert.True(t, StatusNew.Valid())
	assert.False(t, RequestStatus("DONE").Valid())
}

func TestMaintenanceRequest_DisplayID(t *testing.T) {
	req := MaintenanceRequest{
		ID:        7,
		CreatedAt: time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "REQ-2024-0007", req.DisplayID())

	req.ID = 12345
	assert.Equal(t, "REQ-2024-12345", req.DisplayID())
}

func TestMaintenanceRequest_IsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	req := MaintenanceRequest{Status: StatusNew}
	assert.False(t, req.IsOverdue(now), "no scheduled date")

	req.ScheduledDate = &yesterday
	assert.True(t, req.IsOverdue(now))

	req.Status = StatusInProgress
	assert.True(t, req.IsOverdue(now))

	req.Status = StatusRepaired
	assert.False(t, req.IsOverdue(now), "terminal status is never overdue")

	req.Status = StatusScrap
	assert.False(t, req.IsOverdue(now))

	req.Status = StatusNew
	req.ScheduledDate = &tomorrow
	assert.False(t, req.IsOverdue(now))

	// scheduled for today is not overdue yet
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	req.ScheduledDate = &today
	assert.False(t, req.IsOverdue(now))
}

func TestEquipmentCategory_Valid(t *testing.T) {
	for _, c := range []EquipmentCategory{
		CategoryPrinter, CategoryComputer, CategoryVehicle,
		CategoryMachinery, CategoryHVAC, CategoryPower, CategoryOther,
	} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, EquipmentCategory("Furniture").Valid())
}

func TestPriority_Valid(t *testing.T) {
	assert.True(t, PriorityMedium.Valid())
	assert.False(t, Priority("urgent").Valid())
}
