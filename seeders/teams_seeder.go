package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var demoTeams = []string{
	"Mechanics",
	"Electronics",
	"Facilities",
}

func seedTeams(ctx context.Context, db *pgxpool.Pool) error {
	for _, name := range demoTeams {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM maintenance_teams WHERE name = $1", name).Scan(&id)
		if err == nil {
			log.Printf("  - team %q already exists, skipping", name)
			continue
		}

		_, err = db.Exec(ctx,
			"INSERT INTO maintenance_teams (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
		if err != nil {
			return fmt.Errorf("failed to insert team %q: %w", name, err)
		}
		log.Printf("  - created team %q", name)
	}
	return nil
}
