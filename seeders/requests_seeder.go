package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

type demoRequest struct {
	subject     string
	serial      string
	requestType string
	priority    string
	status      string
	technician  string
	scheduled   string
	duration    *float64
}

func hoursPtr(h float64) *float64 { return &h }

var demoRequests = []demoRequest{
	{subject: "Spindle vibration above tolerance", serial: "CNC-0012", requestType: "COR",
		priority: "high", status: "PRO", technician: "alice@gearguard.local", scheduled: "2026-09-02"},
	{subject: "Quarterly hydraulics inspection", serial: "FL-0003", requestType: "PRE",
		priority: "medium", status: "NEW", scheduled: "2026-09-15"},
	{subject: "Paper feed jams intermittently", serial: "PRN-0145", requestType: "COR",
		priority: "low", status: "REP", technician: "bob@gearguard.local",
		scheduled: "2026-08-20", duration: hoursPtr(1.5)},
	{subject: "Filter replacement", serial: "HVAC-0007", requestType: "PRE",
		priority: "medium", status: "NEW", scheduled: "2026-08-25"},
	{subject: "Coolant leak under carriage", serial: "CNC-0012", requestType: "COR",
		priority: "critical", status: "NEW"},
}

func seedRequests(ctx context.Context, db *pgxpool.Pool) error {
	for _, r := range demoRequests {
		var equipmentID uint64
		var teamID *uint64
		err := db.QueryRow(ctx,
			"SELECT id, team_id FROM equipments WHERE serial_number = $1",
			r.serial).Scan(&equipmentID, &teamID)
		if err != nil {
			return fmt.Errorf("equipment %s not found: %w", r.serial, err)
		}

		var existing uint64
		err = db.QueryRow(ctx,
			"SELECT id FROM maintenance_requests WHERE subject = $1 AND equipment_id = $2",
			r.subject, equipmentID).Scan(&existing)
		if err == nil {
			log.Printf("  - request %q already exists, skipping", r.subject)
			continue
		}

		var technicianID *uint64
		if r.technician != "" {
			var tid uint64
			if err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", r.technician).Scan(&tid); err != nil {
				return fmt.Errorf("technician %s not found: %w", r.technician, err)
			}
			technicianID = &tid
		}

		var scheduled *string
		if r.scheduled != "" {
			scheduled = &r.scheduled
		}

		_, err = db.Exec(ctx, `
			INSERT INTO maintenance_requests
				(subject, equipment_id, request_type, priority, team_id, technician_id,
				 status, scheduled_date, duration_hours)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			r.subject, equipmentID, r.requestType, r.priority, teamID, technicianID,
			r.status, scheduled, r.duration)
		if err != nil {
			return fmt.Errorf("failed to insert request %q: %w", r.subject, err)
		}
		log.Printf("  - created request %q", r.subject)
	}
	return nil
}
