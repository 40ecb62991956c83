package store

import "context"

// UserStore persists subscriber rows. Rows are pre-provisioned with a phone
// number and bonus plan; username and password hash are filled in at signup.
type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type User struct {
	ID           string  `db:"id"`
	PhoneNumber  string  `db:"phone_number"`
	Username     *string `db:"username"`
	PasswordHash *string `db:"password_hash"`
	BonusPlan    int     `db:"bonus_plan"`
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, phoneNumber string, username *string, bonusPlan int) error {
	query := `
		INSERT INTO users (id, phone_number, username, bonus_plan)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, phoneNumber, username, bonusPlan)
	return err
}

func (s *UserStore) List(ctx context.Context) ([]User, error) {
	var rows []User
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, phone_number, username, password_hash, bonus_plan
		FROM users
		ORDER BY phone_number
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, phone_number, username, password_hash, bonus_plan
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByPhoneNumber(ctx context.Context, phoneNumber string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, phone_number, username, password_hash, bonus_plan
		FROM users
		WHERE phone_number = $1
	`, phoneNumber)
	if err != nil {
		return User{}, err
	}
	return row, nil
}

// CompleteSignup fills in the profile fields of a pre-provisioned row.
func (s *UserStore) CompleteSignup(ctx context.Context, tx Execer, userID, username, passwordHash string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET username = $1, password_hash = $2
		WHERE id = $3
	`, username, passwordHash, userID)
	return err
}

// Delete removes a subscriber and every row owned by it. The dependent
// tables are cleared explicitly, in one transaction, rather than through
// database-level cascades.
func (s *UserStore) Delete(ctx context.Context, tx Execer, userID string) (int64, error) {
	dependents := []string{
		`DELETE FROM usage_history WHERE user_id = $1`,
		`DELETE FROM balances WHERE user_id = $1`,
		`DELETE FROM recharges WHERE user_id = $1`,
		`DELETE FROM answers WHERE user_id = $1`,
		`DELETE FROM answers WHERE question_id IN (SELECT id FROM questions WHERE user_id = $1)`,
		`DELETE FROM questions WHERE user_id = $1`,
	}
	for _, query := range dependents {
		if _, err := tx.ExecContext(ctx, query, userID); err != nil {
			return 0, err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAll clears every subscriber together with all owned rows.
func (s *UserStore) DeleteAll(ctx context.Context, tx Execer) (int64, error) {
	for _, query := range []string{
		`DELETE FROM usage_history`,
		`DELETE FROM balances`,
		`DELETE FROM recharges`,
		`DELETE FROM answers`,
		`DELETE FROM questions`,
	} {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return 0, err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
