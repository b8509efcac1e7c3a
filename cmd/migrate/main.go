package main

import (
	"flag"
	"log"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/meetscribe-team/meetscribe/internal/infrastructure/database"
	"github.com/meetscribe-team/meetscribe/pkg/config"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	dir := flag.String("dir", "migrations", "migrations directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	migrations := &migrate.FileMigrationSource{Dir: *dir}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database connection: %v", err)
	}

	direction := migrate.Up
	if *down {
		direction = migrate.Down
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", migrations, direction, maxFor(direction))
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("applied %d migration(s)", n)
}

// maxFor limits rollbacks to one step while applying all pending ups
func maxFor(direction migrate.MigrationDirection) int {
	if direction == migrate.Down {
		return 1
	}
	return 0
}
