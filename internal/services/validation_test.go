package services

import (
	"testing"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestValidationRuleOrder(t *testing.T) {
	hours := -2.0
	teamID, technicianID := uint64(1), uint64(2)

	// Several rules fail at once; the scrapped-equipment rule wins because it
	// runs first, then duration, then team membership.
	in := requestRuleInput{
		request: &entities.MaintenanceRequest{
			Status:        entities.StatusNew,
			TeamID:        &teamID,
			TechnicianID:  &technicianID,
			DurationHours: &hours,
		},
		equipment:        &entities.Equipment{IsScrapped: true},
		technicianInTeam: false,
		isCreate:         true,
	}
	assert.ErrorIs(t, validateRequest(in), apperrors.ErrEquipmentScrapped)

	in.isCreate = false
	assert.ErrorIs(t, validateRequest(in), apperrors.ErrInvalidDuration)

	in.request.DurationHours = nil
	assert.ErrorIs(t, validateRequest(in), apperrors.ErrTechnicianNotInTeam)

	in.technicianInTeam = true
	assert.NoError(t, validateRequest(in))
}

func TestDurationRuleAcceptsRepaired(t *testing.T) {
	hours := 0.0
	in := requestRuleInput{
		request: &entities.MaintenanceRequest{
			Status:        entities.StatusRepaired,
			DurationHours: &hours,
		},
	}
	assert.NoError(t, validateRequest(in))
}
