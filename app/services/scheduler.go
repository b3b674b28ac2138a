package services

import (
	"database/sql"
	"log"
	"time"

	"github.com/eunjoy-library/StudentTrackr/app/database"
)

// StartScheduler starts the background task scheduler
func StartScheduler(db *sql.DB) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			// Trigger shortly after midnight (00:10)
			if now.Hour() == 0 && now.Minute() == 10 {
				log.Println("Triggering scheduled tasks [00:10]...")

				// Flip off warnings whose expiry has passed
				n, err := database.DeactivateExpiredWarnings(db, now)
				if err != nil {
					log.Printf("Error deactivating expired warnings: %v", err)
				} else if n > 0 {
					log.Printf("Deactivated %d expired warnings", n)
				}
			}
		}
	}()
}
