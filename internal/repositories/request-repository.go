package repositories

import (
	"context"
	"errors"
	"fmt"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestFields = `r.id, r.subject, r.equipment_id, r.request_type, r.priority,
	r.team_id, r.technician_id, r.status, r.scheduled_date, r.duration_hours, r.created_at,
	e.name, e.serial_number, t.name, u.full_name`

const requestJoins = `
	JOIN equipments e ON e.id = r.equipment_id
	LEFT JOIN maintenance_teams t ON t.id = r.team_id
	LEFT JOIN users u ON u.id = r.technician_id`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, params utils.QueryParams) ([]entities.MaintenanceRequest, uint64, error)
	GetRequestsByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRequest, error)
	GetScheduledRequests(ctx context.Context) ([]entities.MaintenanceRequest, error)
	FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, req *entities.MaintenanceRequest) (uint64, error)
	UpdateRequestInTx(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) error
}

type RequestRepository struct {
	storage *pgxpool.Pool
}

func NewRequestRepository(storage *pgxpool.Pool) RequestRepositoryInterface {
	return &RequestRepository{storage: storage}
}

// rowScanner abstracts pgx.Row / pgx.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*entities.MaintenanceRequest, error) {
	var req entities.MaintenanceRequest
	var equipmentName, equipmentSerial string
	var teamName, technicianName *string

	err := row.Scan(
		&req.ID,
		&req.Subject,
		&req.EquipmentID,
		&req.RequestType,
		&req.Priority,
		&req.TeamID,
		&req.TechnicianID,
		&req.Status,
		&req.ScheduledDate,
		&req.DurationHours,
		&req.CreatedAt,
		&equipmentName,
		&equipmentSerial,
		&teamName,
		&technicianName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan maintenance request: %w", err)
	}

	req.Equipment = &entities.Equipment{
		ID:           req.EquipmentID,
		Name:         equipmentName,
		SerialNumber: equipmentSerial,
	}
	if req.TeamID != nil && teamName != nil {
		req.Team = &entities.MaintenanceTeam{ID: *req.TeamID, Name: *teamName}
	}
	if req.TechnicianID != nil && technicianName != nil {
		req.Technician = &entities.User{ID: *req.TechnicianID, FullName: *technicianName}
	}
	return &req, nil
}

func (r *RequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]entities.MaintenanceRequest, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query maintenance requests: %w", err)
	}
	defer rows.Close()

	requests := make([]entities.MaintenanceRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

var requestFilterColumns = map[string]string{
	"status":       "r.status",
	"equipment_id": "r.equipment_id",
	"team_id":      "r.team_id",
	"priority":     "r.priority",
	"request_type": "r.request_type",
	"created_at":   "r.created_at",
}

func (r *RequestRepository) GetRequests(ctx context.Context, params utils.QueryParams) ([]entities.MaintenanceRequest, uint64, error) {
	builder := psql.Select(requestFields).From("maintenance_requests r" + requestJoins)
	countBuilder := psql.Select("COUNT(*)").From("maintenance_requests r")

	for key, value := range params.Filters {
		col, ok := requestFilterColumns[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{col: value})
		countBuilder = countBuilder.Where(sq.Eq{col: value})
	}

	sortCol, ok := requestFilterColumns[params.SortBy]
	if !ok {
		sortCol = "r.created_at"
	}
	sortDir := "ASC"
	if params.SortOrder == "desc" {
		sortDir = "DESC"
	}
	builder = builder.
		OrderBy(fmt.Sprintf("%s %s", sortCol, sortDir)).
		Limit(params.Limit).
		Offset(params.Offset)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count maintenance requests: %w", err)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	requests, err := r.queryRequests(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *RequestRepository) GetRequestsByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM maintenance_requests r %s
		WHERE r.equipment_id = $1
		ORDER BY r.created_at DESC`, requestFields, requestJoins)
	return r.queryRequests(ctx, query, equipmentID)
}

func (r *RequestRepository) GetScheduledRequests(ctx context.Context) ([]entities.MaintenanceRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM maintenance_requests r %s
		WHERE r.scheduled_date IS NOT NULL
		ORDER BY r.scheduled_date ASC`, requestFields, requestJoins)
	return r.queryRequests(ctx, query)
}

func (r *RequestRepository) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM maintenance_requests r %s WHERE r.id = $1`,
		requestFields, requestJoins)
	return scanRequest(r.storage.QueryRow(ctx, query, id))
}

// FindRequestForUpdateInTx locks the request row for the duration of the
// transaction so concurrent read-validate-write sequences on the same record
// are serialized.
func (r *RequestRepository) FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM maintenance_requests r %s WHERE r.id = $1 FOR UPDATE OF r`,
		requestFields, requestJoins)
	return scanRequest(tx.QueryRow(ctx, query, id))
}

func (r *RequestRepository) CreateRequest(ctx context.Context, req *entities.MaintenanceRequest) (uint64, error) {
	query := `
		INSERT INTO maintenance_requests
			(subject, equipment_id, request_type, priority, team_id, technician_id, status, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.storage.QueryRow(ctx, query,
		req.Subject,
		req.EquipmentID,
		req.RequestType,
		req.Priority,
		req.TeamID,
		req.TechnicianID,
		req.Status,
		req.ScheduledDate,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert maintenance request: %w", err)
	}
	return req.ID, nil
}

func (r *RequestRepository) UpdateRequestInTx(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) error {
	query := `
		UPDATE maintenance_requests
		SET subject = $1, priority = $2, team_id = $3, technician_id = $4,
			status = $5, scheduled_date = $6, duration_hours = $7
		WHERE id = $8`

	tag, err := tx.Exec(ctx, query,
		req.Subject,
		req.Priority,
		req.TeamID,
		req.TechnicianID,
		req.Status,
		req.ScheduledDate,
		req.DurationHours,
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update maintenance request %d: %w", req.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
