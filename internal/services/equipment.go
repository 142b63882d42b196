package services

import (
	"context"
	"time"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"

	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, params utils.QueryParams) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
	DeleteEquipment(ctx context.Context, id uint64) error
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, params utils.QueryParams) ([]dto.EquipmentDTO, uint64, error) {
	list, openCounts, total, err := s.equipmentRepo.GetEquipments(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.EquipmentDTO, 0, len(list))
	for i := range list {
		item := s.toEquipmentDTO(ctx, &list[i])
		item.OpenRequestsCount = openCounts[list[i].ID]
		result = append(result, item)
	}
	return result, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	result := s.toEquipmentDTO(ctx, equipment)
	return &result, nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	category := entities.EquipmentCategory(payload.Category)
	if !category.Valid() {
		return nil, apperrors.NewInvalidInputError("unknown equipment category %q", payload.Category)
	}

	purchaseDate, err := time.Parse(dateLayout, payload.PurchaseDate)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("invalid purchase date %q, expected YYYY-MM-DD", payload.PurchaseDate)
	}
	warrantyExpiry, err := parseOptionalDate(payload.WarrantyExpiry.Ptr())
	if err != nil {
		return nil, err
	}

	equipment := &entities.Equipment{
		Name:           payload.Name,
		SerialNumber:   payload.SerialNumber,
		Department:     payload.Department,
		Category:       category,
		AssignedTo:     payload.AssignedTo.Ptr(),
		PurchaseDate:   purchaseDate,
		WarrantyExpiry: warrantyExpiry,
		Location:       payload.Location,
	}
	if payload.TeamID.Valid {
		teamID := payload.TeamID.Uint64
		if _, err := s.teamRepo.FindTeam(ctx, teamID); err != nil {
			return nil, err
		}
		equipment.TeamID = &teamID
	}

	id, err := s.equipmentRepo.CreateEquipment(ctx, equipment)
	if err != nil {
		s.logger.Error("failed to create equipment", zap.Error(err))
		return nil, err
	}

	s.logger.Info("equipment created", zap.Uint64("equipmentId", id), zap.String("serial", equipment.SerialNumber))
	return s.FindEquipment(ctx, id)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		equipment.Name = *payload.Name
	}
	if payload.Department != nil {
		equipment.Department = *payload.Department
	}
	if payload.Category != nil {
		category := entities.EquipmentCategory(*payload.Category)
		if !category.Valid() {
			return nil, apperrors.NewInvalidInputError("unknown equipment category %q", *payload.Category)
		}
		equipment.Category = category
	}
	if payload.AssignedTo.Valid {
		equipment.AssignedTo = payload.AssignedTo.Ptr()
	}
	if payload.WarrantyExpiry.Valid {
		warrantyExpiry, err := parseOptionalDate(payload.WarrantyExpiry.Ptr())
		if err != nil {
			return nil, err
		}
		equipment.WarrantyExpiry = warrantyExpiry
	}
	if payload.Location != nil {
		equipment.Location = *payload.Location
	}
	if payload.TeamID.Valid {
		teamID := payload.TeamID.Uint64
		if _, err := s.teamRepo.FindTeam(ctx, teamID); err != nil {
			return nil, err
		}
		equipment.TeamID = &teamID
	}

	if err := s.equipmentRepo.UpdateEquipment(ctx, equipment); err != nil {
		return nil, err
	}
	return s.FindEquipment(ctx, id)
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	return s.equipmentRepo.DeleteEquipment(ctx, id)
}

func (s *EquipmentService) toEquipmentDTO(ctx context.Context, equipment *entities.Equipment) dto.EquipmentDTO {
	result := dto.EquipmentDTO{
		ID:           equipment.ID,
		Name:         equipment.Name,
		SerialNumber: equipment.SerialNumber,
		Department:   equipment.Department,
		Category:     string(equipment.Category),
		AssignedTo:   equipment.AssignedTo,
		PurchaseDate: equipment.PurchaseDate.Format(dateLayout),
		Location:     equipment.Location,
		IsScrapped:   equipment.IsScrapped,
	}
	if equipment.WarrantyExpiry != nil {
		formatted := equipment.WarrantyExpiry.Format(dateLayout)
		result.WarrantyExpiry = &formatted
	}
	if equipment.CreatedAt != nil {
		result.CreatedAt = equipment.CreatedAt.Format(timestampLayout)
	}
	if equipment.TeamID != nil {
		if team, err := s.teamRepo.FindTeam(ctx, *equipment.TeamID); err == nil {
			result.Team = &dto.ShortTeamDTO{ID: team.ID, Name: team.Name}
		}
	}
	return result
}
