package repositories

import (
	"context"
	"errors"
	"fmt"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeamRepositoryInterface interface {
	GetTeams(ctx context.Context) ([]entities.MaintenanceTeam, error)
	FindTeam(ctx context.Context, id uint64) (*entities.MaintenanceTeam, error)
	CreateTeam(ctx context.Context, name string, memberIDs []uint64) (uint64, error)
	UpdateTeam(ctx context.Context, id uint64, name *string, memberIDs *[]uint64) error
	DeleteTeam(ctx context.Context, id uint64) error
	IsMember(ctx context.Context, teamID uint64, userID uint64) (bool, error)
}

type TeamRepository struct {
	storage *pgxpool.Pool
}

func NewTeamRepository(storage *pgxpool.Pool) TeamRepositoryInterface {
	return &TeamRepository{storage: storage}
}

func (r *TeamRepository) GetTeams(ctx context.Context) ([]entities.MaintenanceTeam, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM maintenance_teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]entities.MaintenanceTeam, 0)
	for rows.Next() {
		var team entities.MaintenanceTeam
		if err := rows.Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) FindTeam(ctx context.Context, id uint64) (*entities.MaintenanceTeam, error) {
	var team entities.MaintenanceTeam
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM maintenance_teams WHERE id = $1`, id).
		Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find team %d: %w", id, err)
	}

	memberRows, err := r.storage.Query(ctx, `
		SELECT u.id, u.full_name, u.email
		FROM users u
		JOIN team_members tm ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY u.full_name`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var user entities.User
		if err := memberRows.Scan(&user.ID, &user.FullName, &user.Email); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		team.Members = append(team.Members, user)
	}
	return &team, memberRows.Err()
}

func (r *TeamRepository) CreateTeam(ctx context.Context, name string, memberIDs []uint64) (teamID uint64, err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO maintenance_teams (name) VALUES ($1) RETURNING id`, name).Scan(&teamID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert team: %w", err)
	}

	for _, userID := range memberIDs {
		if _, err = tx.Exec(ctx,
			`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			teamID, userID); err != nil {
			return 0, fmt.Errorf("failed to add member %d: %w", userID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return teamID, nil
}

// UpdateTeam replaces the roster when memberIDs is non-nil. Membership changes
// take effect immediately for future authorization checks.
func (r *TeamRepository) UpdateTeam(ctx context.Context, id uint64, name *string, memberIDs *[]uint64) (err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if name != nil {
		tag, err := tx.Exec(ctx,
			`UPDATE maintenance_teams SET name = $1, updated_at = NOW() WHERE id = $2`, *name, id)
		if err != nil {
			return fmt.Errorf("failed to rename team %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
	}

	if memberIDs != nil {
		if _, err = tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear team roster: %w", err)
		}
		for _, userID := range *memberIDs {
			if _, err = tx.Exec(ctx,
				`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				id, userID); err != nil {
				return fmt.Errorf("failed to add member %d: %w", userID, err)
			}
		}
	}

	return tx.Commit(ctx)
}

// DeleteTeam removes the team; requests referencing it keep existing with the
// reference cleared (ON DELETE SET NULL).
func (r *TeamRepository) DeleteTeam(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM maintenance_teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IsMember is re-evaluated on every call; it deliberately holds no cache.
func (r *TeamRepository) IsMember(ctx context.Context, teamID uint64, userID uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`,
		teamID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return exists, nil
}
