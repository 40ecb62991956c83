package handlers

import (
	"context"
	"time"

	"ttportal/internal/forecast"
	"ttportal/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, phoneNumber string, username *string, bonusPlan int) error
	List(ctx context.Context) ([]store.User, error)
	GetByID(ctx context.Context, userID string) (store.User, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (store.User, error)
	CompleteSignup(ctx context.Context, tx store.Execer, userID, username, passwordHash string) error
	Delete(ctx context.Context, tx store.Execer, userID string) (int64, error)
	DeleteAll(ctx context.Context, tx store.Execer) (int64, error)
}

type UsageStore interface {
	Create(ctx context.Context, tx store.Execer, input store.UsageRecordInput) error
	List(ctx context.Context) ([]store.UsageRecord, error)
	GetByID(ctx context.Context, usageID string) (store.UsageRecord, error)
	ListByUser(ctx context.Context, userID string) ([]store.UsageRecord, error)
	Delete(ctx context.Context, tx store.Execer, usageID string) (int64, error)
	DeleteAll(ctx context.Context, tx store.Execer) (int64, error)
}

type BalanceStore interface {
	Create(ctx context.Context, tx store.Execer, input store.BalanceInput) error
	List(ctx context.Context) ([]store.Balance, error)
	GetByID(ctx context.Context, balanceID string) (store.Balance, error)
	GetByUser(ctx context.Context, userID string) (store.Balance, error)
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	Patch(ctx context.Context, tx store.Tx, userID string, patch store.BalancePatch) (store.Balance, error)
	Delete(ctx context.Context, tx store.Execer, balanceID string) (int64, error)
	DeleteAll(ctx context.Context, tx store.Execer) (int64, error)
}

type RechargeStore interface {
	Create(ctx context.Context, tx store.Execer, input store.RechargeInput) error
	List(ctx context.Context) ([]store.Recharge, error)
	GetByID(ctx context.Context, rechargeID string) (store.Recharge, error)
	ListByUser(ctx context.Context, userID string) ([]store.Recharge, error)
	Delete(ctx context.Context, tx store.Execer, rechargeID string) (int64, error)
	DeleteAll(ctx context.Context, tx store.Execer) (int64, error)
}

type MonetaryPlanStore interface {
	Create(ctx context.Context, tx store.Execer, input store.MonetaryPlanInput) error
	List(ctx context.Context) ([]store.MonetaryPlan, error)
	GetByID(ctx context.Context, planID string) (store.MonetaryPlan, error)
	Delete(ctx context.Context, tx store.Execer, planID string) (int64, error)
	DeleteAll(ctx context.Context, tx store.Execer) (int64, error)
}

type DataPlanStore interface {
	Create(ctx context.Context, tx store.Execer, input store.DataPlanInput) error
	List(ctx context.Context) ([]store.DataPlan, error)
	GetByID(ctx context.Context, planID string) (store.DataPlan, error)
	Delete(ctx context.Context, tx store.Execer, planID string) (int64, error)
	DeleteAll(ctx context.Context, tx store.Execer) (int64, error)
}

type AgencyStore interface {
	Create(ctx context.Context, tx store.Execer, input store.AgencyLocationInput) error
	List(ctx context.Context) ([]store.AgencyLocation, error)
	GetByID(ctx context.Context, agencyID string) (store.AgencyLocation, error)
	Delete(ctx context.Context, tx store.Execer, agencyID string) (int64, error)
	DeleteAll(ctx context.Context, tx store.Execer) (int64, error)
}

type QuestionStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID, content string, submittedAt time.Time) error
	List(ctx context.Context) ([]store.Question, error)
	GetByID(ctx context.Context, questionID string) (store.Question, error)
	ListByUser(ctx context.Context, userID string) ([]store.Question, error)
	Search(ctx context.Context, keyword string) ([]store.Question, error)
	Delete(ctx context.Context, tx store.Execer, questionID string) (int64, error)
	DeleteAll(ctx context.Context, tx store.Execer) (int64, error)
}

type AnswerStore interface {
	Create(ctx context.Context, tx store.Execer, id, questionID, userID, content string, submittedAt time.Time) error
	List(ctx context.Context) ([]store.Answer, error)
	ListByQuestion(ctx context.Context, questionID string) ([]store.Answer, error)
	ListByUser(ctx context.Context, userID string) ([]store.Answer, error)
	DeleteAll(ctx context.Context, tx store.Execer) (int64, error)
}

type ForecastService interface {
	Predict(ctx context.Context, userID string) (forecast.Result, error)
}

type LocatorService interface {
	Nearest(ctx context.Context, latitude, longitude float64) (store.AgencyLocation, float64, error)
}
