package store

import "context"

// AgencyStore holds the agency directory. Rows come back in id order so the
// nearest-agency scan resolves ties the same way on every run.
type AgencyStore struct {
	db DB
}

func NewAgencyStore(db DB) *AgencyStore {
	return &AgencyStore{db: db}
}

type AgencyLocation struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Address     string  `db:"address"`
	PhoneNumber string  `db:"phone_number"`
	Latitude    float64 `db:"latitude"`
	Longitude   float64 `db:"longitude"`
}

type AgencyLocationInput struct {
	ID          string
	Name        string
	Address     string
	PhoneNumber string
	Latitude    float64
	Longitude   float64
}

func (s *AgencyStore) Create(ctx context.Context, tx Execer, input AgencyLocationInput) error {
	query := `
		INSERT INTO agency_locations (id, name, address, phone_number, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query, input.ID, input.Name, input.Address, input.PhoneNumber, input.Latitude, input.Longitude)
	return err
}

func (s *AgencyStore) List(ctx context.Context) ([]AgencyLocation, error) {
	var rows []AgencyLocation
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, address, phone_number, latitude, longitude
		FROM agency_locations
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AgencyStore) GetByID(ctx context.Context, agencyID string) (AgencyLocation, error) {
	var row AgencyLocation
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, address, phone_number, latitude, longitude
		FROM agency_locations
		WHERE id = $1
	`, agencyID)
	if err != nil {
		return AgencyLocation{}, err
	}
	return row, nil
}

func (s *AgencyStore) Delete(ctx context.Context, tx Execer, agencyID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM agency_locations WHERE id = $1`, agencyID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AgencyStore) DeleteAll(ctx context.Context, tx Execer) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM agency_locations`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
