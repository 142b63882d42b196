package seeders

import (
	"context"
	"fmt"
	"log"

	"gearguard/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

type demoUser struct {
	fullName string
	email    string
	password string
	team     string
}

var demoUsers = []demoUser{
	{fullName: "Alice Carter", email: "alice@gearguard.local", password: "alice123", team: "Mechanics"},
	{fullName: "Bob Reyes", email: "bob@gearguard.local", password: "bob123", team: "Electronics"},
	{fullName: "Carol Novak", email: "carol@gearguard.local", password: "carol123", team: "Mechanics"},
	{fullName: "Dmitri Ivanov", email: "dmitri@gearguard.local", password: "dmitri123", team: "Facilities"},
	{fullName: "Erin Walsh", email: "erin@gearguard.local", password: "erin123", team: ""},
}

func seedUsers(ctx context.Context, db *pgxpool.Pool) error {
	for _, u := range demoUsers {
		var userID uint64
		err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", u.email).Scan(&userID)
		if err == nil {
			log.Printf("  - user %s already exists, skipping", u.email)
			continue
		}

		hashed, err := utils.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.email, err)
		}

		err = db.QueryRow(ctx,
			"INSERT INTO users (full_name, email, password_hash) VALUES ($1, $2, $3) RETURNING id",
			u.fullName, u.email, hashed,
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.email, err)
		}
		log.Printf("  - created user %s", u.email)

		if u.team == "" {
			continue
		}
		var teamID uint64
		if err := db.QueryRow(ctx, "SELECT id FROM maintenance_teams WHERE name = $1", u.team).Scan(&teamID); err != nil {
			return fmt.Errorf("team %q not found for user %s: %w", u.team, u.email, err)
		}
		_, err = db.Exec(ctx,
			"INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			teamID, userID)
		if err != nil {
			return fmt.Errorf("failed to add %s to team %q: %w", u.email, u.team, err)
		}
	}
	return nil
}
