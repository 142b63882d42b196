package services

import (
	"context"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"

	"go.uber.org/zap"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context) ([]dto.TeamDTO, error)
	FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error)
	CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*dto.TeamDTO, error)
	UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error)
	DeleteTeam(ctx context.Context, id uint64) error
}

type TeamService struct {
	teamRepo repositories.TeamRepositoryInterface
	logger   *zap.Logger
}

func NewTeamService(teamRepo repositories.TeamRepositoryInterface, logger *zap.Logger) TeamServiceInterface {
	return &TeamService{teamRepo: teamRepo, logger: logger}
}

func (s *TeamService) GetTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	teams, err := s.teamRepo.GetTeams(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.TeamDTO, 0, len(teams))
	for i := range teams {
		result = append(result, toTeamDTO(&teams[i]))
	}
	return result, nil
}

func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	team, err := s.teamRepo.FindTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toTeamDTO(team)
	return &result, nil
}

func (s *TeamService) CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*dto.TeamDTO, error) {
	id, err := s.teamRepo.CreateTeam(ctx, payload.Name, payload.MemberIDs)
	if err != nil {
		s.logger.Error("failed to create team", zap.Error(err))
		return nil, err
	}
	s.logger.Info("team created", zap.Uint64("teamId", id), zap.String("name", payload.Name))
	return s.FindTeam(ctx, id)
}

func (s *TeamService) UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error) {
	if err := s.teamRepo.UpdateTeam(ctx, id, payload.Name, payload.MemberIDs); err != nil {
		return nil, err
	}
	return s.FindTeam(ctx, id)
}

func (s *TeamService) DeleteTeam(ctx context.Context, id uint64) error {
	return s.teamRepo.DeleteTeam(ctx, id)
}

func toTeamDTO(team *entities.MaintenanceTeam) dto.TeamDTO {
	result := dto.TeamDTO{
		ID:      team.ID,
		Name:    team.Name,
		Members: make([]dto.ShortUserDTO, 0, len(team.Members)),
	}
	for _, member := range team.Members {
		result.Members = append(result.Members, dto.ShortUserDTO{
			ID:       member.ID,
			FullName: member.FullName,
		})
	}
	return result
}
