package trips

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Repository stores trips in MySQL. The day plans and recommendation lists
// live in JSON columns, mirroring the document shape the client consumes.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(t *Trip) error {
	days, err := json.Marshal(t.Days)
	if err != nil {
		return err
	}
	tips, err := json.Marshal(t.TransportationTips)
	if err != nil {
		return err
	}
	food, err := json.Marshal(t.FoodRecommendations)
	if err != nil {
		return err
	}
	var videos any
	if t.VideoRecommendations != nil {
		b, err := json.Marshal(t.VideoRecommendations)
		if err != nil {
			return err
		}
		videos = string(b)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	res, err := r.db.Exec(`INSERT INTO trips (user_id, destination, from_date, to_date, budget, trip_type, number_of_travelers, overview, days, transportation_tips, food_recommendations, video_recommendations, created_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.UserID, t.Destination, t.FromDate, t.ToDate, t.Budget, t.TripType, t.NumberOfTravelers, t.Overview, string(days), string(tips), string(food), videos, t.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = int(id)
	return nil
}

const tripColumns = `id, user_id, destination, from_date, to_date, budget, trip_type, number_of_travelers, overview, days, transportation_tips, food_recommendations, video_recommendations, created_at`

func scanTrip(row interface{ Scan(...any) error }) (*Trip, error) {
	var t Trip
	var days, tips, food []byte
	var videos sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.Destination, &t.FromDate, &t.ToDate, &t.Budget, &t.TripType, &t.NumberOfTravelers, &t.Overview, &days, &tips, &food, &videos, &t.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(days, &t.Days); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tips, &t.TransportationTips); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(food, &t.FoodRecommendations); err != nil {
		return nil, err
	}
	if videos.Valid && videos.String != "" {
		if err := json.Unmarshal([]byte(videos.String), &t.VideoRecommendations); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func (r *Repository) GetByID(id int) (*Trip, error) {
	row := r.db.QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id=? LIMIT 1`, id)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *Repository) Update(t *Trip) error {
	days, err := json.Marshal(t.Days)
	if err != nil {
		return err
	}
	tips, err := json.Marshal(t.TransportationTips)
	if err != nil {
		return err
	}
	food, err := json.Marshal(t.FoodRecommendations)
	if err != nil {
		return err
	}
	var videos any
	if t.VideoRecommendations != nil {
		b, err := json.Marshal(t.VideoRecommendations)
		if err != nil {
			return err
		}
		videos = string(b)
	}
	res, err := r.db.Exec(`UPDATE trips SET destination=?, from_date=?, to_date=?, budget=?, trip_type=?, number_of_travelers=?, overview=?, days=?, transportation_tips=?, food_recommendations=?, video_recommendations=? WHERE id=?`,
		t.Destination, t.FromDate, t.ToDate, t.Budget, t.TripType, t.NumberOfTravelers, t.Overview, string(days), string(tips), string(food), videos, t.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if existing, err2 := r.GetByID(t.ID); err2 == nil && existing == nil {
			return ErrTripNotFound
		}
	}
	return nil
}

func (r *Repository) ListByUser(userID int) ([]Trip, error) {
	rows, err := r.db.Query(`SELECT `+tripColumns+` FROM trips WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *Repository) CountByUser(userID int) (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(1) FROM trips WHERE user_id=?`, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
