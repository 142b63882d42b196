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

const equipmentFields = `e.id, e.name, e.serial_number, e.department, e.category,
	e.assigned_to, e.purchase_date, e.warranty_expiry, e.location, e.team_id,
	e.is_scrapped, e.created_at, e.updated_at`

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, params utils.QueryParams) ([]entities.Equipment, map[uint64]uint64, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error
	DeleteEquipment(ctx context.Context, id uint64) error
	SetScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func scanEquipment(row rowScanner) (*entities.Equipment, error) {
	var equipment entities.Equipment
	err := row.Scan(
		&equipment.ID,
		&equipment.Name,
		&equipment.SerialNumber,
		&equipment.Department,
		&equipment.Category,
		&equipment.AssignedTo,
		&equipment.PurchaseDate,
		&equipment.WarrantyExpiry,
		&equipment.Location,
		&equipment.TeamID,
		&equipment.IsScrapped,
		&equipment.CreatedAt,
		&equipment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan equipment: %w", err)
	}
	return &equipment, nil
}

var equipmentFilterColumns = map[string]string{
	"category":    "e.category",
	"department":  "e.department",
	"team_id":     "e.team_id",
	"is_scrapped": "e.is_scrapped",
}

// GetEquipments returns the equipment page plus a map of equipment id to its
// open (New / In Progress) request count.
func (r *EquipmentRepository) GetEquipments(ctx context.Context, params utils.QueryParams) ([]entities.Equipment, map[uint64]uint64, uint64, error) {
	builder := psql.Select(equipmentFields).From("equipments e")
	countBuilder := psql.Select("COUNT(*)").From("equipments e")

	for key, value := range params.Filters {
		col, ok := equipmentFilterColumns[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{col: value})
		countBuilder = countBuilder.Where(sq.Eq{col: value})
	}

	builder = builder.OrderBy("e.name ASC").Limit(params.Limit).Offset(params.Offset)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, nil, 0, fmt.Errorf("failed to count equipment: %w", err)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		equipment, err := scanEquipment(rows)
		if err != nil {
			return nil, nil, 0, err
		}
		list = append(list, *equipment)
		ids = append(ids, equipment.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, 0, err
	}

	openCounts, err := r.openRequestCounts(ctx, ids)
	if err != nil {
		return nil, nil, 0, err
	}

	return list, openCounts, total, nil
}

func (r *EquipmentRepository) openRequestCounts(ctx context.Context, equipmentIDs []uint64) (map[uint64]uint64, error) {
	counts := make(map[uint64]uint64, len(equipmentIDs))
	if len(equipmentIDs) == 0 {
		return counts, nil
	}

	query, args, err := psql.Select("equipment_id", "COUNT(*)").
		From("maintenance_requests").
		Where(sq.Eq{"equipment_id": equipmentIDs}).
		Where(sq.Eq{"status": []entities.RequestStatus{entities.StatusNew, entities.StatusInProgress}}).
		GroupBy("equipment_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build open-requests query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count open requests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, count uint64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan open-requests row: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM equipments e WHERE e.id = $1`, equipmentFields)
	return scanEquipment(r.storage.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error) {
	query := `
		INSERT INTO equipments
			(name, serial_number, department, category, assigned_to, purchase_date,
			 warranty_expiry, location, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.storage.QueryRow(ctx, query,
		equipment.Name,
		equipment.SerialNumber,
		equipment.Department,
		equipment.Category,
		equipment.AssignedTo,
		equipment.PurchaseDate,
		equipment.WarrantyExpiry,
		equipment.Location,
		equipment.TeamID,
	).Scan(&equipment.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert equipment: %w", err)
	}
	return equipment.ID, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error {
	query := `
		UPDATE equipments
		SET name = $1, department = $2, category = $3, assigned_to = $4,
			warranty_expiry = $5, location = $6, team_id = $7, updated_at = NOW()
		WHERE id = $8`

	tag, err := r.storage.Exec(ctx, query,
		equipment.Name,
		equipment.Department,
		equipment.Category,
		equipment.AssignedTo,
		equipment.WarrantyExpiry,
		equipment.Location,
		equipment.TeamID,
		equipment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update equipment %d: %w", equipment.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteEquipment removes the record; its maintenance requests go with it
// (ON DELETE CASCADE).
func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM equipments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete equipment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetScrappedInTx marks the equipment scrapped. Idempotent: scrapping an
// already-scrapped record is a no-op success.
func (r *EquipmentRepository) SetScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := tx.Exec(ctx, `UPDATE equipments SET is_scrapped = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to scrap equipment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
