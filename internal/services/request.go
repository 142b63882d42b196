package services

import (
	"context"
	"fmt"
	"time"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"
const timestampLayout = "2006-01-02 15:04:05"

// TxBeginner opens a transaction. *pgxpool.Pool satisfies it; tests provide
// an in-memory implementation.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type RequestServiceInterface interface {
	GetRequests(ctx context.Context, params utils.QueryParams) ([]dto.RequestDTO, uint64, error)
	GetRequestsByEquipment(ctx context.Context, equipmentID uint64) ([]dto.RequestDTO, error)
	GetKanbanBoard(ctx context.Context) (*dto.KanbanBoardDTO, error)
	GetCalendarEvents(ctx context.Context) ([]dto.CalendarEventDTO, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	CreateRequest(ctx context.Context, payload dto.CreateRequestDTO) (*dto.RequestDTO, error)
	UpdateRequest(ctx context.Context, id uint64, payload dto.UpdateRequestDTO) (*dto.RequestDTO, error)
	Transition(ctx context.Context, id uint64, newStatus entities.RequestStatus) (*dto.RequestDTO, error)
	CompleteRequest(ctx context.Context, id uint64, hours float64) (*dto.RequestDTO, error)
	SetDuration(ctx context.Context, id uint64, hours float64) (*dto.RequestDTO, error)
	CanUserWork(ctx context.Context, req *entities.MaintenanceRequest, userID uint64) (bool, error)
}

// RequestService is the maintenance-request lifecycle engine: it owns the
// status state machine, the validation pipeline and the team-membership
// authorization gate. Every mutation funnels through it.
type RequestService struct {
	pool          TxBeginner
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	logger        *zap.Logger
}

func NewRequestService(
	pool TxBeginner,
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		pool:          pool,
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		logger:        logger,
	}
}

// CanUserWork reports whether the user may act on the request: true iff the
// request has a team and the user is currently on its roster. A request
// without a team authorizes no one.
func (s *RequestService) CanUserWork(ctx context.Context, req *entities.MaintenanceRequest, userID uint64) (bool, error) {
	if req.TeamID == nil {
		return false, nil
	}
	return s.teamRepo.IsMember(ctx, *req.TeamID, userID)
}

func (s *RequestService) CreateRequest(ctx context.Context, payload dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	requestType := entities.RequestType(payload.RequestType)
	if !requestType.Valid() {
		return nil, apperrors.NewInvalidInputError("unknown request type %q", payload.RequestType)
	}

	priority := entities.PriorityMedium
	if payload.Priority != "" {
		priority = entities.Priority(payload.Priority)
		if !priority.Valid() {
			return nil, apperrors.NewInvalidInputError("unknown priority %q", payload.Priority)
		}
	}

	equipment, err := s.equipmentRepo.FindEquipment(ctx, payload.EquipmentID)
	if err != nil {
		return nil, err
	}

	scheduledDate, err := parseOptionalDate(payload.ScheduledDate.Ptr())
	if err != nil {
		return nil, err
	}

	req := &entities.MaintenanceRequest{
		Subject:       payload.Subject,
		EquipmentID:   equipment.ID,
		RequestType:   requestType,
		Priority:      priority,
		Status:        entities.StatusNew,
		ScheduledDate: scheduledDate,
	}

	if payload.TeamID.Valid {
		teamID := payload.TeamID.Uint64
		if _, err := s.teamRepo.FindTeam(ctx, teamID); err != nil {
			return nil, err
		}
		req.TeamID = &teamID
	}
	s.autoFillTeam(req, equipment)

	if err := s.runValidation(ctx, req, equipment, true); err != nil {
		return nil, err
	}

	id, err := s.requestRepo.CreateRequest(ctx, req)
	if err != nil {
		s.logger.Error("failed to create maintenance request", zap.Error(err))
		return nil, err
	}

	s.logger.Info("maintenance request created",
		zap.Uint64("requestId", id),
		zap.Uint64("equipmentId", equipment.ID),
	)
	return s.FindRequest(ctx, id)
}

// Transition moves the request along one edge of the state machine. The
// authorization gate runs before the transition-table check so authorization
// failures never leak state-machine details.
func (s *RequestService) Transition(ctx context.Context, id uint64, newStatus entities.RequestStatus) (*dto.RequestDTO, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewInvalidInputError("unknown status %q", string(newStatus))
	}

	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	err = s.withRequestTx(ctx, id, func(tx pgx.Tx, req *entities.MaintenanceRequest) error {
		return s.applyTransition(ctx, tx, req, newStatus, actorID, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.FindRequest(ctx, id)
}

// CompleteRequest records the repair in one step: the In Progress -> Repaired
// transition plus the spent hours. The duration rule is evaluated against the
// status the record holds after the whole update, so this passes while a bare
// SetDuration on an In Progress request does not.
func (s *RequestService) CompleteRequest(ctx context.Context, id uint64, hours float64) (*dto.RequestDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	err = s.withRequestTx(ctx, id, func(tx pgx.Tx, req *entities.MaintenanceRequest) error {
		return s.applyTransition(ctx, tx, req, entities.StatusRepaired, actorID, &hours)
	})
	if err != nil {
		return nil, err
	}
	return s.FindRequest(ctx, id)
}

func (s *RequestService) SetDuration(ctx context.Context, id uint64, hours float64) (*dto.RequestDTO, error) {
	if hours < 0 {
		return nil, apperrors.ErrInvalidDuration
	}

	err := s.withRequestTx(ctx, id, func(tx pgx.Tx, req *entities.MaintenanceRequest) error {
		req.DurationHours = &hours
		if err := s.runValidation(ctx, req, nil, false); err != nil {
			return err
		}
		return s.requestRepo.UpdateRequestInTx(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}
	return s.FindRequest(ctx, id)
}

// UpdateRequest applies field-level changes. Status is deliberately not
// updatable here; transitions go through Transition.
func (s *RequestService) UpdateRequest(ctx context.Context, id uint64, payload dto.UpdateRequestDTO) (*dto.RequestDTO, error) {
	if payload.Priority != nil && !entities.Priority(*payload.Priority).Valid() {
		return nil, apperrors.NewInvalidInputError("unknown priority %q", *payload.Priority)
	}

	err := s.withRequestTx(ctx, id, func(tx pgx.Tx, req *entities.MaintenanceRequest) error {
		if payload.Subject != nil {
			req.Subject = *payload.Subject
		}
		if payload.Priority != nil {
			req.Priority = entities.Priority(*payload.Priority)
		}
		if payload.TeamID.Valid {
			teamID := payload.TeamID.Uint64
			if _, err := s.teamRepo.FindTeam(ctx, teamID); err != nil {
				return err
			}
			req.TeamID = &teamID
		}
		if payload.TechnicianID.Valid {
			technicianID := payload.TechnicianID.Uint64
			req.TechnicianID = &technicianID
		}
		if payload.ScheduledDate.Valid {
			scheduledDate, err := parseOptionalDate(payload.ScheduledDate.Ptr())
			if err != nil {
				return err
			}
			req.ScheduledDate = scheduledDate
		}
		if payload.DurationHours.Valid {
			hours := payload.DurationHours.Float64
			req.DurationHours = &hours
		}

		equipment, err := s.equipmentRepo.FindEquipment(ctx, req.EquipmentID)
		if err != nil {
			return err
		}
		s.autoFillTeam(req, equipment)

		if err := s.runValidation(ctx, req, equipment, false); err != nil {
			return err
		}
		return s.requestRepo.UpdateRequestInTx(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}
	return s.FindRequest(ctx, id)
}

// withRequestTx runs fn against the row-locked request inside a transaction.
// Concurrent writers of the same record queue on the lock and re-read the
// committed state, so a losing writer observes the winner's status and gets
// a clean rejection instead of silently overwriting.
func (s *RequestService) withRequestTx(ctx context.Context, id uint64, fn func(tx pgx.Tx, req *entities.MaintenanceRequest) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	req, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := fn(tx, req); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// applyTransition performs the authorization gate, the transition-table
// check, the side effects and the validation pipeline, in that order. When
// the new status is Scrap the equipment flag is flipped inside the same
// transaction: both writes commit or neither does.
func (s *RequestService) applyTransition(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest, newStatus entities.RequestStatus, actorID uint64, hours *float64) error {
	allowed, err := s.CanUserWork(ctx, req, actorID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrUnauthorized
	}

	if !req.Status.CanTransitionTo(newStatus) {
		return apperrors.NewTransitionError(req.Status.Label(), newStatus.Label())
	}

	req.Status = newStatus
	if newStatus == entities.StatusInProgress && req.TechnicianID == nil {
		req.TechnicianID = &actorID
	}
	if hours != nil {
		req.DurationHours = hours
	}

	if err := s.runValidation(ctx, req, nil, false); err != nil {
		return err
	}

	if err := s.requestRepo.UpdateRequestInTx(ctx, tx, req); err != nil {
		return err
	}

	if newStatus == entities.StatusScrap {
		if err := s.equipmentRepo.SetScrappedInTx(ctx, tx, req.EquipmentID); err != nil {
			return err
		}
		s.logger.Info("equipment scrapped via request",
			zap.Uint64("requestId", req.ID),
			zap.Uint64("equipmentId", req.EquipmentID),
		)
	}
	return nil
}

func (s *RequestService) autoFillTeam(req *entities.MaintenanceRequest, equipment *entities.Equipment) {
	if req.TeamID == nil && equipment.TeamID != nil {
		teamID := *equipment.TeamID
		req.TeamID = &teamID
	}
}

// runValidation resolves the technician-membership fact and runs the ordered
// rule pipeline against the post-change record. No write happens unless it
// passes.
func (s *RequestService) runValidation(ctx context.Context, req *entities.MaintenanceRequest, equipment *entities.Equipment, isCreate bool) error {
	in := requestRuleInput{
		request:   req,
		equipment: equipment,
		isCreate:  isCreate,
	}
	if req.TeamID != nil && req.TechnicianID != nil {
		inTeam, err := s.teamRepo.IsMember(ctx, *req.TeamID, *req.TechnicianID)
		if err != nil {
			return err
		}
		in.technicianInTeam = inTeam
	}
	return validateRequest(in)
}

func (s *RequestService) GetRequests(ctx context.Context, params utils.QueryParams) ([]dto.RequestDTO, uint64, error) {
	requests, total, err := s.requestRepo.GetRequests(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return toRequestDTOs(requests), total, nil
}

func (s *RequestService) GetRequestsByEquipment(ctx context.Context, equipmentID uint64) ([]dto.RequestDTO, error) {
	if _, err := s.equipmentRepo.FindEquipment(ctx, equipmentID); err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.GetRequestsByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	return toRequestDTOs(requests), nil
}

var kanbanOrder = []entities.RequestStatus{
	entities.StatusNew,
	entities.StatusInProgress,
	entities.StatusRepaired,
	entities.StatusScrap,
}

func (s *RequestService) GetKanbanBoard(ctx context.Context) (*dto.KanbanBoardDTO, error) {
	requests, _, err := s.requestRepo.GetRequests(ctx, utils.QueryParams{
		Filters:   map[string]string{},
		SortBy:    "created_at",
		SortOrder: "desc",
		Limit:     10000,
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[entities.RequestStatus][]dto.RequestDTO)
	for _, req := range requests {
		grouped[req.Status] = append(grouped[req.Status], toRequestDTO(&req))
	}

	board := &dto.KanbanBoardDTO{Columns: make([]dto.KanbanColumnDTO, 0, len(kanbanOrder))}
	for _, status := range kanbanOrder {
		column := dto.KanbanColumnDTO{
			Status:      string(status),
			StatusLabel: status.Label(),
			Count:       uint64(len(grouped[status])),
			Requests:    grouped[status],
		}
		if column.Requests == nil {
			column.Requests = make([]dto.RequestDTO, 0)
		}
		board.Columns = append(board.Columns, column)
	}
	return board, nil
}

func (s *RequestService) GetCalendarEvents(ctx context.Context) ([]dto.CalendarEventDTO, error) {
	requests, err := s.requestRepo.GetScheduledRequests(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]dto.CalendarEventDTO, 0, len(requests))
	for _, req := range requests {
		equipmentName := ""
		if req.Equipment != nil {
			equipmentName = req.Equipment.Name
		}
		events = append(events, dto.CalendarEventDTO{
			ID:        req.ID,
			Title:     fmt.Sprintf("%s - %s", equipmentName, truncateRunes(req.Subject, 20)),
			Date:      req.ScheduledDate.Format(dateLayout),
			Type:      string(req.RequestType),
			Status:    string(req.Status),
			Equipment: equipmentName,
			Subject:   req.Subject,
		})
	}
	return events, nil
}

func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toRequestDTO(req)
	return &result, nil
}

func toRequestDTOs(requests []entities.MaintenanceRequest) []dto.RequestDTO {
	result := make([]dto.RequestDTO, 0, len(requests))
	for i := range requests {
		result = append(result, toRequestDTO(&requests[i]))
	}
	return result
}

func toRequestDTO(req *entities.MaintenanceRequest) dto.RequestDTO {
	result := dto.RequestDTO{
		ID:            req.ID,
		DisplayID:     req.DisplayID(),
		Subject:       req.Subject,
		RequestType:   string(req.RequestType),
		Priority:      string(req.Priority),
		Status:        string(req.Status),
		StatusLabel:   req.Status.Label(),
		DurationHours: req.DurationHours,
		IsOverdue:     req.IsOverdue(time.Now()),
		CreatedAt:     req.CreatedAt.Format(timestampLayout),
	}
	if req.Equipment != nil {
		result.Equipment = dto.ShortEquipmentDTO{
			ID:           req.Equipment.ID,
			Name:         req.Equipment.Name,
			SerialNumber: req.Equipment.SerialNumber,
		}
	}
	if req.Team != nil {
		result.Team = &dto.ShortTeamDTO{ID: req.Team.ID, Name: req.Team.Name}
	}
	if req.Technician != nil {
		result.Technician = &dto.ShortUserDTO{ID: req.Technician.ID, FullName: req.Technician.FullName}
	}
	if req.ScheduledDate != nil {
		formatted := req.ScheduledDate.Format(dateLayout)
		result.ScheduledDate = &formatted
	}
	return result
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("invalid date %q, expected YYYY-MM-DD", *value)
	}
	return &parsed, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
