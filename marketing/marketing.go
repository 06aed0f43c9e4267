package marketing

import (
	"database/sql"
	"log"
	"time"

	"tripcraft-backend/email"
)

// Service periodically nudges free-tier users who have exhausted their
// credits toward a package purchase.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Start launches the daily campaign ticker.
func (s *Service) Start() {
	ticker := time.NewTicker(24 * time.Hour)
	go func() {
		for range ticker.C {
			if err := s.notifyExhaustedFreeUsers(); err != nil {
				log.Printf("[marketing] campaign error: %v", err)
			}
		}
	}()
}

func (s *Service) notifyExhaustedFreeUsers() error {
	rows, err := s.db.Query(`SELECT id, email FROM users WHERE package_type='free' AND remaining_trips = 0 AND email IS NOT NULL AND email <> ''`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var mail string
		if err := rows.Scan(&id, &mail); err != nil {
			return err
		}
		if err := email.SendUpgradeSuggestion(mail); err != nil {
			log.Printf("[marketing] mail to account %d failed: %v", id, err)
		}
	}
	return rows.Err()
}
