package main

import (
	"log"

	"github.com/eunjoy-library/StudentTrackr/app/config"
	"github.com/eunjoy-library/StudentTrackr/app/database"
)

// Runs the schema migrations without starting the web server. Useful when
// preparing a fresh database before first deployment.
func main() {
	log.Println("Starting manual migration...")

	config.Load()
	config.InitDB()
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Manual migration completed successfully!")
}
