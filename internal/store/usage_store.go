package store

import (
	"context"
	"time"
)

// UsageStore persists the immutable usage-history rows.
type UsageStore struct {
	db DB
}

func NewUsageStore(db DB) *UsageStore {
	return &UsageStore{db: db}
}

type UsageRecord struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	UsageTimestamp time.Time `db:"usage_timestamp"`
	CallsMinutes   float64   `db:"calls_minutes"`
	SMSCount       float64   `db:"sms_count"`
	DataUsageMB    float64   `db:"data_usage_mb"`
}

type UsageRecordInput struct {
	ID             string
	UserID         string
	UsageTimestamp time.Time
	CallsMinutes   float64
	SMSCount       float64
	DataUsageMB    float64
}

func (s *UsageStore) Create(ctx context.Context, tx Execer, input UsageRecordInput) error {
	query := `
		INSERT INTO usage_history (id, user_id, usage_timestamp, calls_minutes, sms_count, data_usage_mb)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query, input.ID, input.UserID, input.UsageTimestamp, input.CallsMinutes, input.SMSCount, input.DataUsageMB)
	return err
}

func (s *UsageStore) List(ctx context.Context) ([]UsageRecord, error) {
	var rows []UsageRecord
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, usage_timestamp, calls_minutes, sms_count, data_usage_mb
		FROM usage_history
		ORDER BY usage_timestamp, id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *UsageStore) GetByID(ctx context.Context, usageID string) (UsageRecord, error) {
	var row UsageRecord
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, usage_timestamp, calls_minutes, sms_count, data_usage_mb
		FROM usage_history
		WHERE id = $1
	`, usageID)
	if err != nil {
		return UsageRecord{}, err
	}
	return row, nil
}

func (s *UsageStore) ListByUser(ctx context.Context, userID string) ([]UsageRecord, error) {
	var rows []UsageRecord
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, usage_timestamp, calls_minutes, sms_count, data_usage_mb
		FROM usage_history
		WHERE user_id = $1
		ORDER BY usage_timestamp, id
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *UsageStore) Delete(ctx context.Context, tx Execer, usageID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM usage_history WHERE id = $1`, usageID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *UsageStore) DeleteAll(ctx context.Context, tx Execer) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM usage_history`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
