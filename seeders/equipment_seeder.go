package seeders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type demoEquipment struct {
	name       string
	serial     string
	department string
	category   string
	assignedTo string
	location   string
	team       string
	purchased  string
	warranty   string
}

var demoEquipments = []demoEquipment{
	{name: "CNC Lathe 12", serial: "CNC-0012", department: "Production", category: "Machinery",
		assignedTo: "Shop Floor A", location: "Building 1", team: "Mechanics",
		purchased: "2021-03-15", warranty: "2026-03-15"},
	{name: "Forklift 3", serial: "FL-0003", department: "Logistics", category: "Vehicle",
		assignedTo: "Warehouse", location: "Dock 2", team: "Mechanics",
		purchased: "2019-07-01", warranty: ""},
	{name: "Laser Printer HQ-2", serial: "PRN-0145", department: "Administration", category: "Printer",
		assignedTo: "Front Office", location: "Building 2, Floor 1", team: "Electronics",
		purchased: "2023-01-20", warranty: "2025-01-20"},
	{name: "Rooftop HVAC Unit", serial: "HVAC-0007", department: "Facilities", category: "HVAC",
		assignedTo: "", location: "Building 1 Roof", team: "Facilities",
		purchased: "2018-05-10", warranty: ""},
	{name: "Backup Generator", serial: "GEN-0001", department: "Facilities", category: "Power",
		assignedTo: "", location: "Utility Yard", team: "",
		purchased: "2020-11-02", warranty: "2027-11-02"},
}

func seedEquipment(ctx context.Context, db *pgxpool.Pool) error {
	for _, e := range demoEquipments {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM equipments WHERE serial_number = $1", e.serial).Scan(&id)
		if err == nil {
			log.Printf("  - equipment %s already exists, skipping", e.serial)
			continue
		}

		purchased, err := time.Parse("2006-01-02", e.purchased)
		if err != nil {
			return fmt.Errorf("bad purchase date for %s: %w", e.serial, err)
		}
		var warranty *time.Time
		if e.warranty != "" {
			w, err := time.Parse("2006-01-02", e.warranty)
			if err != nil {
				return fmt.Errorf("bad warranty date for %s: %w", e.serial, err)
			}
			warranty = &w
		}

		var teamID *uint64
		if e.team != "" {
			var tid uint64
			if err := db.QueryRow(ctx, "SELECT id FROM maintenance_teams WHERE name = $1", e.team).Scan(&tid); err != nil {
				return fmt.Errorf("team %q not found for equipment %s: %w", e.team, e.serial, err)
			}
			teamID = &tid
		}

		var assignedTo *string
		if e.assignedTo != "" {
			assignedTo = &e.assignedTo
		}

		_, err = db.Exec(ctx, `
			INSERT INTO equipments
				(name, serial_number, department, category, assigned_to, purchase_date,
				 warranty_expiry, location, team_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.name, e.serial, e.department, e.category, assignedTo,
			purchased, warranty, e.location, teamID)
		if err != nil {
			return fmt.Errorf("failed to insert equipment %s: %w", e.serial, err)
		}
		log.Printf("  - created equipment %s (%s)", e.name, e.serial)
	}
	return nil
}
