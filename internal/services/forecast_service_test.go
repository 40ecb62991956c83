package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ttportal/internal/forecast"
	"ttportal/internal/store"
)

type stubUserStore struct {
	getByIDFn func(ctx context.Context, userID string) (store.User, error)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (store.User, error) {
	return s.getByIDFn(ctx, userID)
}

type stubUsageStore struct {
	listByUserFn func(ctx context.Context, userID string) ([]store.UsageRecord, error)
}

func (s stubUsageStore) ListByUser(ctx context.Context, userID string) ([]store.UsageRecord, error) {
	return s.listByUserFn(ctx, userID)
}

type stubRechargeStore struct {
	listByUserFn func(ctx context.Context, userID string) ([]store.Recharge, error)
}

func (s stubRechargeStore) ListByUser(ctx context.Context, userID string) ([]store.Recharge, error) {
	return s.listByUserFn(ctx, userID)
}

type stubBalanceStore struct {
	getByUserFn func(ctx context.Context, userID string) (store.Balance, error)
}

func (s stubBalanceStore) GetByUser(ctx context.Context, userID string) (store.Balance, error) {
	return s.getByUserFn(ctx, userID)
}

type stubMonetaryPlanStore struct{}

func (stubMonetaryPlanStore) List(context.Context) ([]store.MonetaryPlan, error) { return nil, nil }

type stubDataPlanStore struct{}

func (stubDataPlanStore) List(context.Context) ([]store.DataPlan, error) { return nil, nil }

func TestForecastServiceNoUsageHistory(t *testing.T) {
	service := NewForecastService(
		stubUserStore{getByIDFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "u1", BonusPlan: 2}, nil
		}},
		stubUsageStore{listByUserFn: func(context.Context, string) ([]store.UsageRecord, error) {
			return nil, nil
		}},
		stubRechargeStore{listByUserFn: func(context.Context, string) ([]store.Recharge, error) {
			return nil, nil
		}},
		stubBalanceStore{getByUserFn: func(context.Context, string) (store.Balance, error) {
			return store.Balance{}, sql.ErrNoRows
		}},
		stubMonetaryPlanStore{}, stubDataPlanStore{},
	)
	result, err := service.Predict(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != forecast.MsgNoUsageHistory {
		t.Fatalf("expected %q, got %q", forecast.MsgNoUsageHistory, result.Message)
	}
}

func TestForecastServiceMissingBalanceIsTerminalNotError(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	later := now.AddDate(0, 0, 1)
	service := NewForecastService(
		stubUserStore{getByIDFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "u1", BonusPlan: 2}, nil
		}},
		stubUsageStore{listByUserFn: func(context.Context, string) ([]store.UsageRecord, error) {
			return []store.UsageRecord{
				{UserID: "u1", UsageTimestamp: now, CallsMinutes: 10},
				{UserID: "u1", UsageTimestamp: later, CallsMinutes: 12},
			}, nil
		}},
		stubRechargeStore{listByUserFn: func(context.Context, string) ([]store.Recharge, error) {
			return []store.Recharge{
				{UserID: "u1", RechargeAmount: 5, RechargeDate: &now},
				{UserID: "u1", RechargeAmount: 5, RechargeDate: &later},
				{UserID: "u1", RechargeAmount: 99, RechargeDate: nil}, // undated rows are skipped
			}, nil
		}},
		stubBalanceStore{getByUserFn: func(context.Context, string) (store.Balance, error) {
			return store.Balance{}, sql.ErrNoRows
		}},
		stubMonetaryPlanStore{}, stubDataPlanStore{},
	)
	result, err := service.Predict(context.Background(), "u1")
	if err != nil {
		t.Fatalf("a missing balance must not be an error: %v", err)
	}
	if result.Message != forecast.MsgBalanceUnavailable {
		t.Fatalf("expected %q, got %q", forecast.MsgBalanceUnavailable, result.Message)
	}
	if result.Recharge == nil {
		t.Fatal("recharge predictions must still be populated")
	}
	// the undated 99-dinar row is excluded, so a constant series of 5 remains
	if result.Recharge.MonetaryAmount != 5 {
		t.Fatalf("expected 5, got %v", result.Recharge.MonetaryAmount)
	}
}
