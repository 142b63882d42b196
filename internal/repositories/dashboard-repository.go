package repositories

import (
	"context"
	"fmt"

	"gearguard/internal/dto"
	"gearguard/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DashboardRepositoryInterface interface {
	CountByStatus(ctx context.Context) (map[entities.RequestStatus]uint64, error)
	CountOverdue(ctx context.Context) (uint64, error)
	TeamRequestCounts(ctx context.Context) ([]dto.TeamRequestCountDTO, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
}

func NewDashboardRepository(storage *pgxpool.Pool) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage}
}

func (r *DashboardRepository) CountByStatus(ctx context.Context) (map[entities.RequestStatus]uint64, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT status, COUNT(*) FROM maintenance_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[entities.RequestStatus]uint64)
	for rows.Next() {
		var status entities.RequestStatus
		var count uint64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *DashboardRepository) CountOverdue(ctx context.Context) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM maintenance_requests
		WHERE scheduled_date IS NOT NULL
		  AND scheduled_date < CURRENT_DATE
		  AND status IN ($1, $2)`,
		entities.StatusNew, entities.StatusInProgress).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue requests: %w", err)
	}
	return count, nil
}

// TeamRequestCounts groups requests per team; requests without a team land in
// an "Unassigned" bucket, which is only present when non-empty.
func (r *DashboardRepository) TeamRequestCounts(ctx context.Context) ([]dto.TeamRequestCountDTO, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT COALESCE(t.name, 'Unassigned') AS team_name, COUNT(r.id)
		FROM maintenance_requests r
		LEFT JOIN maintenance_teams t ON t.id = r.team_id
		GROUP BY COALESCE(t.name, 'Unassigned')
		ORDER BY team_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests per team: %w", err)
	}
	defer rows.Close()

	counts := make([]dto.TeamRequestCountDTO, 0)
	for rows.Next() {
		var row dto.TeamRequestCountDTO
		if err := rows.Scan(&row.Name, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan team count: %w", err)
		}
		counts = append(counts, row)
	}
	return counts, rows.Err()
}
