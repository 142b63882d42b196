package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCoreData fills teams, users and team rosters. Equipment and demo
// requests depend on these, so this runs first.
func SeedCoreData(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("Seeding core data (teams, users)...")

	if err := seedTeams(ctx, db); err != nil {
		log.Fatalf("failed to seed teams: %v", err)
	}
	if err := seedUsers(ctx, db); err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}
	log.Println("Core data seeded.")
}

// SeedEquipment fills the equipment register.
func SeedEquipment(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("Seeding equipment...")

	if err := seedEquipment(ctx, db); err != nil {
		log.Fatalf("failed to seed equipment: %v", err)
	}
	log.Println("Equipment seeded.")
}

// SeedDemoRequests creates a handful of maintenance requests in various
// lifecycle stages so dashboards and the kanban board have something to show.
func SeedDemoRequests(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("Seeding demo requests...")

	if err := seedRequests(ctx, db); err != nil {
		log.Fatalf("failed to seed demo requests: %v", err)
	}
	log.Println("Demo requests seeded.")
}
