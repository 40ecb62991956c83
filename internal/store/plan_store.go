package store

import "context"

// MonetaryPlanStore and DataPlanStore hold the two plan catalogs. Plans are
// listed in granted-amount order so that "cheapest sufficient plan" scans and
// ties resolve deterministically.
type MonetaryPlanStore struct {
	db DB
}

func NewMonetaryPlanStore(db DB) *MonetaryPlanStore {
	return &MonetaryPlanStore{db: db}
}

type MonetaryPlan struct {
	ID              string  `db:"id"`
	Price           float64 `db:"price"`
	RechargeAmount  float64 `db:"recharge_amount"`
	RechargeExpDays int     `db:"recharge_exp_days"`
	BonusExpDays    int     `db:"bonus_exp_days"`
}

type MonetaryPlanInput struct {
	ID              string
	Price           float64
	RechargeAmount  float64
	RechargeExpDays int
	BonusExpDays    int
}

func (s *MonetaryPlanStore) Create(ctx context.Context, tx Execer, input MonetaryPlanInput) error {
	query := `
		INSERT INTO monetary_plans (id, price, recharge_amount, recharge_exp_days, bonus_exp_days)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, input.ID, input.Price, input.RechargeAmount, input.RechargeExpDays, input.BonusExpDays)
	return err
}

func (s *MonetaryPlanStore) List(ctx context.Context) ([]MonetaryPlan, error) {
	var rows []MonetaryPlan
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, price, recharge_amount, recharge_exp_days, bonus_exp_days
		FROM monetary_plans
		ORDER BY recharge_amount, id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *MonetaryPlanStore) GetByID(ctx context.Context, planID string) (MonetaryPlan, error) {
	var row MonetaryPlan
	err := s.db.GetContext(ctx, &row, `
		SELECT id, price, recharge_amount, recharge_exp_days, bonus_exp_days
		FROM monetary_plans
		WHERE id = $1
	`, planID)
	if err != nil {
		return MonetaryPlan{}, err
	}
	return row, nil
}

func (s *MonetaryPlanStore) Delete(ctx context.Context, tx Execer, planID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM monetary_plans WHERE id = $1`, planID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *MonetaryPlanStore) DeleteAll(ctx context.Context, tx Execer) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM monetary_plans`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type DataPlanStore struct {
	db DB
}

func NewDataPlanStore(db DB) *DataPlanStore {
	return &DataPlanStore{db: db}
}

type DataPlan struct {
	ID           string  `db:"id"`
	Price        float64 `db:"price"`
	DataAmountMB float64 `db:"data_amount_mb"`
	ExpDays      int     `db:"exp_days"`
}

type DataPlanInput struct {
	ID           string
	Price        float64
	DataAmountMB float64
	ExpDays      int
}

func (s *DataPlanStore) Create(ctx context.Context, tx Execer, input DataPlanInput) error {
	query := `
		INSERT INTO data_plans (id, price, data_amount_mb, exp_days)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, input.ID, input.Price, input.DataAmountMB, input.ExpDays)
	return err
}

func (s *DataPlanStore) List(ctx context.Context) ([]DataPlan, error) {
	var rows []DataPlan
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, price, data_amount_mb, exp_days
		FROM data_plans
		ORDER BY data_amount_mb, id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *DataPlanStore) GetByID(ctx context.Context, planID string) (DataPlan, error) {
	var row DataPlan
	err := s.db.GetContext(ctx, &row, `
		SELECT id, price, data_amount_mb, exp_days
		FROM data_plans
		WHERE id = $1
	`, planID)
	if err != nil {
		return DataPlan{}, err
	}
	return row, nil
}

func (s *DataPlanStore) Delete(ctx context.Context, tx Execer, planID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM data_plans WHERE id = $1`, planID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *DataPlanStore) DeleteAll(ctx context.Context, tx Execer) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM data_plans`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
