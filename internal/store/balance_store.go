package store

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// BalanceStore persists the single balance snapshot each subscriber owns.
type BalanceStore struct {
	db DB
}

func NewBalanceStore(db DB) *BalanceStore {
	return &BalanceStore{db: db}
}

type Balance struct {
	ID                 string     `db:"id"`
	UserID             string     `db:"user_id"`
	MonetaryBalance    float64    `db:"monetary_balance"`
	BonusBalance       float64    `db:"bonus_balance"`
	DataBalanceMB      float64    `db:"data_balance_mb"`
	MonetaryExpiryDate *time.Time `db:"monetary_expiry_date"`
	BonusExpiryDate    *time.Time `db:"bonus_expiry_date"`
	DataExpiryDate     *time.Time `db:"data_expiry_date"`
}

type BalanceInput struct {
	ID                 string
	UserID             string
	MonetaryBalance    float64
	BonusBalance       float64
	DataBalanceMB      float64
	MonetaryExpiryDate *time.Time
	BonusExpiryDate    *time.Time
	DataExpiryDate     *time.Time
}

// BalancePatch carries a partial update; nil fields are left untouched.
type BalancePatch struct {
	MonetaryBalance    *float64
	BonusBalance       *float64
	DataBalanceMB      *float64
	MonetaryExpiryDate *time.Time
	BonusExpiryDate    *time.Time
	DataExpiryDate     *time.Time
}

func (s *BalanceStore) Create(ctx context.Context, tx Execer, input BalanceInput) error {
	query := `
		INSERT INTO balances (id, user_id, monetary_balance, bonus_balance, data_balance_mb,
		                      monetary_expiry_date, bonus_expiry_date, data_expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.MonetaryBalance, input.BonusBalance, input.DataBalanceMB,
		input.MonetaryExpiryDate, input.BonusExpiryDate, input.DataExpiryDate)
	return err
}

func (s *BalanceStore) List(ctx context.Context) ([]Balance, error) {
	var rows []Balance
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, monetary_balance, bonus_balance, data_balance_mb,
		       monetary_expiry_date, bonus_expiry_date, data_expiry_date
		FROM balances
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BalanceStore) GetByID(ctx context.Context, balanceID string) (Balance, error) {
	var row Balance
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, monetary_balance, bonus_balance, data_balance_mb,
		       monetary_expiry_date, bonus_expiry_date, data_expiry_date
		FROM balances
		WHERE id = $1
	`, balanceID)
	if err != nil {
		return Balance{}, err
	}
	return row, nil
}

func (s *BalanceStore) GetByUser(ctx context.Context, userID string) (Balance, error) {
	var row Balance
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, monetary_balance, bonus_balance, data_balance_mb,
		       monetary_expiry_date, bonus_expiry_date, data_expiry_date
		FROM balances
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return Balance{}, err
	}
	return row, nil
}

func (s *BalanceStore) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM balances WHERE user_id = $1)
	`, userID)
	return exists, err
}

// Patch applies the non-nil fields of the patch to the subscriber's balance
// row and returns the updated row.
func (s *BalanceStore) Patch(ctx context.Context, tx Tx, userID string, patch BalancePatch) (Balance, error) {
	assignments := make([]string, 0, 6)
	args := make([]any, 0, 7)
	add := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, column+" = $"+strconv.Itoa(len(args)))
	}
	if patch.MonetaryBalance != nil {
		add("monetary_balance", *patch.MonetaryBalance)
	}
	if patch.BonusBalance != nil {
		add("bonus_balance", *patch.BonusBalance)
	}
	if patch.DataBalanceMB != nil {
		add("data_balance_mb", *patch.DataBalanceMB)
	}
	if patch.MonetaryExpiryDate != nil {
		add("monetary_expiry_date", *patch.MonetaryExpiryDate)
	}
	if patch.BonusExpiryDate != nil {
		add("bonus_expiry_date", *patch.BonusExpiryDate)
	}
	if patch.DataExpiryDate != nil {
		add("data_expiry_date", *patch.DataExpiryDate)
	}
	if len(assignments) > 0 {
		args = append(args, userID)
		query := `UPDATE balances SET ` + strings.Join(assignments, ", ") +
			` WHERE user_id = $` + strconv.Itoa(len(args))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return Balance{}, err
		}
	}
	var row Balance
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, monetary_balance, bonus_balance, data_balance_mb,
		       monetary_expiry_date, bonus_expiry_date, data_expiry_date
		FROM balances
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return Balance{}, err
	}
	return row, nil
}

func (s *BalanceStore) Delete(ctx context.Context, tx Execer, balanceID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM balances WHERE id = $1`, balanceID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *BalanceStore) DeleteAll(ctx context.Context, tx Execer) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM balances`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}