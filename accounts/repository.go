package accounts

import (
	"database/sql"
)

// Repository stores accounts in MySQL. The remaining_trips column keeps the
// original -1-means-unlimited encoding; CreditsFromDB/DBValue confine that
// sentinel to this file and memory.go.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, username, password, IFNULL(email,''), IFNULL(display_name,''), IFNULL(photo_url,''), IFNULL(provider_id,''), IFNULL(uid,''), IFNULL(stripe_customer_id,''), package_type, remaining_trips, created_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var credits int
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.DisplayName, &u.PhotoURL, &u.ProviderID, &u.UID, &u.StripeCustomerID, &u.PackageType, &credits, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Credits = CreditsFromDB(credits)
	return &u, nil
}

func (r *Repository) GetByID(id int) (*User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
}

func (r *Repository) GetByUsername(username string) (*User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE LOWER(username)=LOWER(?) LIMIT 1`, username))
}

func (r *Repository) GetByProviderID(providerID, uid string) (*User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE provider_id=? AND uid=? LIMIT 1`, providerID, uid))
}

func (r *Repository) Create(u *User) error {
	u.PackageType = PackageFree
	u.Credits = FiniteCredits(StarterCredits)
	res, err := r.db.Exec(`INSERT INTO users (username, password, email, display_name, photo_url, provider_id, uid, package_type, remaining_trips) VALUES (?,?,?,?,?,?,?,?,?)`,
		u.Username, u.Password, u.Email, u.DisplayName, u.PhotoURL, u.ProviderID, u.UID, u.PackageType, u.Credits.DBValue())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = int(id)
	return nil
}

func (r *Repository) LinkExternalIdentity(id int, providerID, uid, photoURL, displayName string) error {
	_, err := r.db.Exec(`UPDATE users SET provider_id=?, uid=?, photo_url=IF(?='', photo_url, ?), display_name=IF(?='', display_name, ?), updated_at=NOW() WHERE id=?`,
		providerID, uid, photoURL, photoURL, displayName, displayName, id)
	return err
}

func (r *Repository) UpdateStripeCustomerID(id int, customerID string) error {
	_, err := r.db.Exec(`UPDATE users SET stripe_customer_id=?, updated_at=NOW() WHERE id=?`, customerID, id)
	return err
}

func (r *Repository) SetPackage(id int, packageType string, credits Credits) error {
	_, err := r.db.Exec(`UPDATE users SET package_type=?, remaining_trips=?, updated_at=NOW() WHERE id=?`, packageType, credits.DBValue(), id)
	return err
}

// DecrementCredits takes one credit with a conditional update so two
// concurrent generations cannot drive the balance below zero. The unlimited
// sentinel is negative, so the balance guard also skips unlimited rows.
func (r *Repository) DecrementCredits(id int) (Credits, error) {
	if _, err := r.db.Exec(`UPDATE users SET remaining_trips = remaining_trips - 1, updated_at=NOW() WHERE id=? AND remaining_trips > 0`, id); err != nil {
		return Credits{}, err
	}
	var v int
	if err := r.db.QueryRow(`SELECT remaining_trips FROM users WHERE id=?`, id).Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return Credits{}, ErrAccountNotFound
		}
		return Credits{}, err
	}
	return CreditsFromDB(v), nil
}
