package store

import (
	"context"
	"time"
)

// RechargeStore persists the immutable top-up history rows.
type RechargeStore struct {
	db DB
}

func NewRechargeStore(db DB) *RechargeStore {
	return &RechargeStore{db: db}
}

type Recharge struct {
	ID                 string     `db:"id"`
	UserID             string     `db:"user_id"`
	RechargeAmount     float64    `db:"recharge_amount"`
	BonusAdded         float64    `db:"bonus_added"`
	DataAddedMB        float64    `db:"data_added_mb"`
	RechargeDate       *time.Time `db:"recharge_date"`
	MonetaryExpiryDate *time.Time `db:"monetary_expiry_date"`
	BonusExpiryDate    *time.Time `db:"bonus_expiry_date"`
	DataExpiryDate     *time.Time `db:"data_expiry_date"`
}

type RechargeInput struct {
	ID                 string
	UserID             string
	RechargeAmount     float64
	BonusAdded         float64
	DataAddedMB        float64
	RechargeDate       *time.Time
	MonetaryExpiryDate *time.Time
	BonusExpiryDate    *time.Time
	DataExpiryDate     *time.Time
}

func (s *RechargeStore) Create(ctx context.Context, tx Execer, input RechargeInput) error {
	query := `
		INSERT INTO recharges (id, user_id, recharge_amount, bonus_added, data_added_mb,
		                       recharge_date, monetary_expiry_date, bonus_expiry_date, data_expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.RechargeAmount, input.BonusAdded, input.DataAddedMB,
		input.RechargeDate, input.MonetaryExpiryDate, input.BonusExpiryDate, input.DataExpiryDate)
	return err
}

func (s *RechargeStore) List(ctx context.Context) ([]Recharge, error) {
	var rows []Recharge
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, recharge_amount, bonus_added, data_added_mb,
		       recharge_date, monetary_expiry_date, bonus_expiry_date, data_expiry_date
		FROM recharges
		ORDER BY recharge_date, id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *RechargeStore) GetByID(ctx context.Context, rechargeID string) (Recharge, error) {
	var row Recharge
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, recharge_amount, bonus_added, data_added_mb,
		       recharge_date, monetary_expiry_date, bonus_expiry_date, data_expiry_date
		FROM recharges
		WHERE id = $1
	`, rechargeID)
	if err != nil {
		return Recharge{}, err
	}
	return row, nil
}

func (s *RechargeStore) ListByUser(ctx context.Context, userID string) ([]Recharge, error) {
	var rows []Recharge
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, recharge_amount, bonus_added, data_added_mb,
		       recharge_date, monetary_expiry_date, bonus_expiry_date, data_expiry_date
		FROM recharges
		WHERE user_id = $1
		ORDER BY recharge_date, id
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *RechargeStore) Delete(ctx context.Context, tx Execer, rechargeID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM recharges WHERE id = $1`, rechargeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *RechargeStore) DeleteAll(ctx context.Context, tx Execer) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM recharges`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
