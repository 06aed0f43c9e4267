package migrations

import (
	"database/sql"
	"fmt"
)

var db *sql.DB

// Init sets the DB connection for migrations.
func Init(database *sql.DB) {
	db = database
}

// Migrate creates required tables if they do not exist.
func Migrate() error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}
	createUsers := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password VARCHAR(191) NOT NULL,
		email VARCHAR(191) NULL,
		display_name VARCHAR(191) DEFAULT '',
		photo_url VARCHAR(255) DEFAULT '',
		provider_id VARCHAR(100) DEFAULT '',
		uid VARCHAR(191) DEFAULT '',
		stripe_customer_id VARCHAR(100) DEFAULT '',
		package_type VARCHAR(20) NOT NULL DEFAULT 'free',
		remaining_trips INT NOT NULL DEFAULT 3,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createUsers); err != nil {
		return err
	}
	// Patch for databases created before Stripe customers were stored.
	_, _ = db.Exec("ALTER TABLE users ADD COLUMN IF NOT EXISTS stripe_customer_id VARCHAR(100) DEFAULT ''")

	createTrips := `
	CREATE TABLE IF NOT EXISTS trips (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		destination VARCHAR(191) NOT NULL,
		from_date VARCHAR(10) NOT NULL,
		to_date VARCHAR(10) NOT NULL,
		budget INT NOT NULL DEFAULT 0,
		trip_type VARCHAR(50) NOT NULL DEFAULT '',
		number_of_travelers INT NOT NULL DEFAULT 2,
		overview TEXT NOT NULL,
		days JSON NOT NULL,
		transportation_tips JSON NOT NULL,
		food_recommendations JSON NOT NULL,
		video_recommendations JSON NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createTrips); err != nil {
		return err
	}
	return nil
}

// SeedDemoUser inserts the account that owns trips generated through the
// unauthenticated demo flow.
func SeedDemoUser() error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(1) FROM users WHERE username = ?", "demo").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.Exec(
			"INSERT INTO users (username, password, package_type, remaining_trips) VALUES (?, ?, ?, ?)",
			"demo", "!", "free", 0,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
