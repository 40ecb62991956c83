package services

import (
	"context"
	"database/sql"
	"errors"

	"ttportal/internal/forecast"
	"ttportal/internal/store"
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (store.User, error)
}

type UsageStore interface {
	ListByUser(ctx context.Context, userID string) ([]store.UsageRecord, error)
}

type RechargeStore interface {
	ListByUser(ctx context.Context, userID string) ([]store.Recharge, error)
}

type BalanceStore interface {
	GetByUser(ctx context.Context, userID string) (store.Balance, error)
}

type MonetaryPlanStore interface {
	List(ctx context.Context) ([]store.MonetaryPlan, error)
}

type DataPlanStore interface {
	List(ctx context.Context) ([]store.DataPlan, error)
}

// ForecastService assembles one subscriber's history and runs the forecast
// engine over it.
type ForecastService struct {
	users     UserStore
	usage     UsageStore
	recharges RechargeStore
	balances  BalanceStore
	monetary  MonetaryPlanStore
	data      DataPlanStore
	engine    *forecast.Engine
}

func NewForecastService(users UserStore, usage UsageStore, recharges RechargeStore, balances BalanceStore, monetary MonetaryPlanStore, data DataPlanStore) *ForecastService {
	return &ForecastService{
		users:     users,
		usage:     usage,
		recharges: recharges,
		balances:  balances,
		monetary:  monetary,
		data:      data,
		engine:    forecast.NewEngine(),
	}
}

// Predict builds the forecast input for one subscriber and runs the engine.
// A missing balance row is a normal condition the engine reports, not an
// error.
func (s *ForecastService) Predict(ctx context.Context, userID string) (forecast.Result, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return forecast.Result{}, err
	}
	usageRows, err := s.usage.ListByUser(ctx, userID)
	if err != nil {
		return forecast.Result{}, err
	}
	rechargeRows, err := s.recharges.ListByUser(ctx, userID)
	if err != nil {
		return forecast.Result{}, err
	}

	input := forecast.Input{BonusMultiplier: user.BonusPlan}
	for _, row := range usageRows {
		input.Usage = append(input.Usage, forecast.UsagePoint{
			Timestamp:    row.UsageTimestamp,
			CallsMinutes: row.CallsMinutes,
			SMSCount:     row.SMSCount,
			DataUsageMB:  row.DataUsageMB,
		})
	}
	for _, row := range rechargeRows {
		if row.RechargeDate == nil {
			continue
		}
		input.Recharges = append(input.Recharges, forecast.RechargePoint{
			Date:           *row.RechargeDate,
			RechargeAmount: row.RechargeAmount,
			DataAddedMB:    row.DataAddedMB,
		})
	}

	balance, err := s.balances.GetByUser(ctx, userID)
	switch {
	case err == nil:
		input.Balance = &forecast.BalanceSnapshot{
			Monetary: balance.MonetaryBalance,
			Bonus:    balance.BonusBalance,
			DataMB:   balance.DataBalanceMB,
		}
	case errors.Is(err, sql.ErrNoRows):
		// engine reports a terminal "balance unavailable" result
	default:
		return forecast.Result{}, err
	}

	monetaryPlans, err := s.monetary.List(ctx)
	if err != nil {
		return forecast.Result{}, err
	}
	for _, plan := range monetaryPlans {
		input.MonetaryPlans = append(input.MonetaryPlans, forecast.MonetaryPlanOption{
			ID:             plan.ID,
			Price:          plan.Price,
			RechargeAmount: plan.RechargeAmount,
		})
	}
	dataPlans, err := s.data.List(ctx)
	if err != nil {
		return forecast.Result{}, err
	}
	for _, plan := range dataPlans {
		input.DataPlans = append(input.DataPlans, forecast.DataPlanOption{
			ID:           plan.ID,
			Price:        plan.Price,
			DataAmountMB: plan.DataAmountMB,
		})
	}

	return s.engine.Forecast(input)
}
