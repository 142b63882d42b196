package services

import (
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

// requestRuleInput is the state a validation rule sees: the record as it
// would be AFTER all pending field changes are applied, plus the resolved
// related entities. Rules are pure; all lookups happen before the pipeline
// runs.
type requestRuleInput struct {
	request   *entities.MaintenanceRequest
	equipment *entities.Equipment
	// technicianInTeam is the membership truth for (request.TeamID,
	// request.TechnicianID), resolved by the caller when both are set.
	technicianInTeam bool
	isCreate         bool
}

type requestRule func(in requestRuleInput) error

// requestRules is the ordered validation pipeline. Every create and every
// update passes through it before anything is written; the first failing
// rule aborts the whole operation.
var requestRules = []requestRule{
	ruleEquipmentNotScrapped,
	ruleDurationRequiresRepaired,
	ruleTechnicianBelongsToTeam,
}

func validateRequest(in requestRuleInput) error {
	for _, rule := range requestRules {
		if err := rule(in); err != nil {
			return err
		}
	}
	return nil
}

// ruleEquipmentNotScrapped blocks creation against scrapped equipment.
// Creation-only by design: requests that already exist when their equipment
// gets scrapped stay valid and updatable.
func ruleEquipmentNotScrapped(in requestRuleInput) error {
	if in.isCreate && in.equipment != nil && in.equipment.IsScrapped {
		return apperrors.ErrEquipmentScrapped
	}
	return nil
}

// ruleDurationRequiresRepaired allows duration_hours only on a record whose
// (post-change) status is Repaired, and never a negative value.
func ruleDurationRequiresRepaired(in requestRuleInput) error {
	if in.request.DurationHours == nil {
		return nil
	}
	if *in.request.DurationHours < 0 {
		return apperrors.ErrInvalidDuration
	}
	if in.request.Status != entities.StatusRepaired {
		return apperrors.ErrInvalidDuration
	}
	return nil
}

func ruleTechnicianBelongsToTeam(in requestRuleInput) error {
	if in.request.TeamID == nil || in.request.TechnicianID == nil {
		return nil
	}
	if !in.technicianInTeam {
		return apperrors.ErrTechnicianNotInTeam
	}
	return nil
}
