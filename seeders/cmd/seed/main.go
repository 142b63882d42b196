package main

import (
	"flag"
	"log"

	"gearguard/pkg/config"
	"gearguard/pkg/database/postgresql"
	"gearguard/seeders"
)

func main() {
	runCore := flag.Bool("core", false, "seed teams and users")
	runEquipment := flag.Bool("equipment", false, "seed the equipment register")
	runRequests := flag.Bool("requests", false, "seed demo maintenance requests")
	runAll := flag.Bool("all", false, "run every seeder (equivalent to -core -equipment -requests)")

	flag.Parse()

	if !*runCore && !*runEquipment && !*runRequests && !*runAll {
		log.Println("no seeder selected")
		flag.PrintDefaults()
		log.Println("example: go run ./seeders/cmd/seed -all")
		return
	}

	cfg := config.New()
	log.Println("using DSN:", cfg.Postgres.DSN)
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	// Order matters: requests need equipment, equipment needs teams.
	if *runAll || *runCore {
		seeders.SeedCoreData(dbPool)
	}
	if *runAll || *runEquipment {
		seeders.SeedEquipment(dbPool)
	}
	if *runAll || *runRequests {
		seeders.SeedDemoRequests(dbPool)
	}

	log.Println("seeding finished")
}
