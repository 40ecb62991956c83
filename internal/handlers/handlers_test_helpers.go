package handlers

import (
	"context"
	"time"

	"ttportal/internal/config"
	"ttportal/internal/forecast"
	"ttportal/internal/store"
	"ttportal/internal/websocket"

	"github.com/jmoiron/sqlx"
)

func newTestHandler(users UserStore, usage UsageStore, balances BalanceStore, recharges RechargeStore, monetaryPlans MonetaryPlanStore, dataPlans DataPlanStore, agencies AgencyStore, questions QuestionStore, answers AnswerStore, forecasts ForecastService, locator LocatorService) *Handler {
	cfg := config.Config{
		Port:           "0",
		SessionSecret:  "test-secret",
		TokenTTL:       time.Hour,
		AllowedOrigins: "*",
	}
	return New(cfg, fakeTxRunner{}, users, usage, balances, recharges, monetaryPlans, dataPlans, agencies, questions, answers, forecasts, locator, websocket.NewHub())
}

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn           func(ctx context.Context, tx store.Execer, id, phoneNumber string, username *string, bonusPlan int) error
	listFn             func(ctx context.Context) ([]store.User, error)
	getByIDFn          func(ctx context.Context, userID string) (store.User, error)
	getByPhoneNumberFn func(ctx context.Context, phoneNumber string) (store.User, error)
	completeSignupFn   func(ctx context.Context, tx store.Execer, userID, username, passwordHash string) error
	deleteFn           func(ctx context.Context, tx store.Execer, userID string) (int64, error)
	deleteAllFn        func(ctx context.Context, tx store.Execer) (int64, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, phoneNumber string, username *string, bonusPlan int) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, phoneNumber, username, bonusPlan)
}

func (s stubUserStore) List(ctx context.Context) ([]store.User, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (store.User, error) {
	if s.getByIDFn == nil {
		return store.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetByPhoneNumber(ctx context.Context, phoneNumber string) (store.User, error) {
	if s.getByPhoneNumberFn == nil {
		return store.User{}, nil
	}
	return s.getByPhoneNumberFn(ctx, phoneNumber)
}

func (s stubUserStore) CompleteSignup(ctx context.Context, tx store.Execer, userID, username, passwordHash string) error {
	if s.completeSignupFn == nil {
		return nil
	}
	return s.completeSignupFn(ctx, tx, userID, username, passwordHash)
}

func (s stubUserStore) Delete(ctx context.Context, tx store.Execer, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, userID)
}

func (s stubUserStore) DeleteAll(ctx context.Context, tx store.Execer) (int64, error) {
	if s.deleteAllFn == nil {
		return 0, nil
	}
	return s.deleteAllFn(ctx, tx)
}

type stubUsageStore struct {
	createFn     func(ctx context.Context, tx store.Execer, input store.UsageRecordInput) error
	listFn       func(ctx context.Context) ([]store.UsageRecord, error)
	getByIDFn    func(ctx context.Context, usageID string) (store.UsageRecord, error)
	listByUserFn func(ctx context.Context, userID string) ([]store.UsageRecord, error)
	deleteFn     func(ctx context.Context, tx store.Execer, usageID string) (int64, error)
	deleteAllFn  func(ctx context.Context, tx store.Execer) (int64, error)
}

func (s stubUsageStore) Create(ctx context.Context, tx store.Execer, input store.UsageRecordInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubUsageStore) List(ctx context.Context) ([]store.UsageRecord, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubUsageStore) GetByID(ctx context.Context, usageID string) (store.UsageRecord, error) {
	if s.getByIDFn == nil {
		return store.UsageRecord{}, nil
	}
	return s.getByIDFn(ctx, usageID)
}

func (s stubUsageStore) ListByUser(ctx context.Context, userID string) ([]store.UsageRecord, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubUsageStore) Delete(ctx context.Context, tx store.Execer, usageID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, usageID)
}

func (s stubUsageStore) DeleteAll(ctx context.Context, tx store.Execer) (int64, error) {
	if s.deleteAllFn == nil {
		return 0, nil
	}
	return s.deleteAllFn(ctx, tx)
}

type stubBalanceStore struct {
	createFn        func(ctx context.Context, tx store.Execer, input store.BalanceInput) error
	listFn          func(ctx context.Context) ([]store.Balance, error)
	getByIDFn       func(ctx context.Context, balanceID string) (store.Balance, error)
	getByUserFn     func(ctx context.Context, userID string) (store.Balance, error)
	existsForUserFn func(ctx context.Context, userID string) (bool, error)
	patchFn         func(ctx context.Context, tx store.Tx, userID string, patch store.BalancePatch) (store.Balance, error)
	deleteFn        func(ctx context.Context, tx store.Execer, balanceID string) (int64, error)
	deleteAllFn     func(ctx context.Context, tx store.Execer) (int64, error)
}

func (s stubBalanceStore) Create(ctx context.Context, tx store.Execer, input store.BalanceInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubBalanceStore) List(ctx context.Context) ([]store.Balance, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubBalanceStore) GetByID(ctx context.Context, balanceID string) (store.Balance, error) {
	if s.getByIDFn == nil {
		return store.Balance{}, nil
	}
	return s.getByIDFn(ctx, balanceID)
}

func (s stubBalanceStore) GetByUser(ctx context.Context, userID string) (store.Balance, error) {
	if s.getByUserFn == nil {
		return store.Balance{}, nil
	}
	return s.getByUserFn(ctx, userID)
}

func (s stubBalanceStore) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	if s.existsForUserFn == nil {
		return false, nil
	}
	return s.existsForUserFn(ctx, userID)
}

func (s stubBalanceStore) Patch(ctx context.Context, tx store.Tx, userID string, patch store.BalancePatch) (store.Balance, error) {
	if s.patchFn == nil {
		return store.Balance{}, nil
	}
	return s.patchFn(ctx, tx, userID, patch)
}

func (s stubBalanceStore) Delete(ctx context.Context, tx store.Execer, balanceID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, balanceID)
}

func (s stubBalanceStore) DeleteAll(ctx context.Context, tx store.Execer) (int64, error) {
	if s.deleteAllFn == nil {
		return 0, nil
	}
	return s.deleteAllFn(ctx, tx)
}

type stubRechargeStore struct {
	createFn     func(ctx context.Context, tx store.Execer, input store.RechargeInput) error
	listFn       func(ctx context.Context) ([]store.Recharge, error)
	getByIDFn    func(ctx context.Context, rechargeID string) (store.Recharge, error)
	listByUserFn func(ctx context.Context, userID string) ([]store.Recharge, error)
	deleteFn     func(ctx context.Context, tx store.Execer, rechargeID string) (int64, error)
	deleteAllFn  func(ctx context.Context, tx store.Execer) (int64, error)
}

func (s stubRechargeStore) Create(ctx context.Context, tx store.Execer, input store.RechargeInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubRechargeStore) List(ctx context.Context) ([]store.Recharge, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubRechargeStore) GetByID(ctx context.Context, rechargeID string) (store.Recharge, error) {
	if s.getByIDFn == nil {
		return store.Recharge{}, nil
	}
	return s.getByIDFn(ctx, rechargeID)
}

func (s stubRechargeStore) ListByUser(ctx context.Context, userID string) ([]store.Recharge, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubRechargeStore) Delete(ctx context.Context, tx store.Execer, rechargeID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, rechargeID)
}

func (s stubRechargeStore) DeleteAll(ctx context.Context, tx store.Execer) (int64, error) {
	if s.deleteAllFn == nil {
		return 0, nil
	}
	return s.deleteAllFn(ctx, tx)
}

type stubMonetaryPlanStore struct {
	createFn    func(ctx context.Context, tx store.Execer, input store.MonetaryPlanInput) error
	listFn      func(ctx context.Context) ([]store.MonetaryPlan, error)
	getByIDFn   func(ctx context.Context, planID string) (store.MonetaryPlan, error)
	deleteFn    func(ctx context.Context, tx store.Execer, planID string) (int64, error)
	deleteAllFn func(ctx context.Context, tx store.Execer) (int64, error)
}

func (s stubMonetaryPlanStore) Create(ctx context.Context, tx store.Execer, input store.MonetaryPlanInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubMonetaryPlanStore) List(ctx context.Context) ([]store.MonetaryPlan, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubMonetaryPlanStore) GetByID(ctx context.Context, planID string) (store.MonetaryPlan, error) {
	if s.getByIDFn == nil {
		return store.MonetaryPlan{}, nil
	}
	return s.getByIDFn(ctx, planID)
}

func (s stubMonetaryPlanStore) Delete(ctx context.Context, tx store.Execer, planID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, planID)
}

func (s stubMonetaryPlanStore) DeleteAll(ctx context.Context, tx store.Execer) (int64, error) {
	if s.deleteAllFn == nil {
		return 0, nil
	}
	return s.deleteAllFn(ctx, tx)
}

type stubDataPlanStore struct {
	createFn    func(ctx context.Context, tx store.Execer, input store.DataPlanInput) error
	listFn      func(ctx context.Context) ([]store.DataPlan, error)
	getByIDFn   func(ctx context.Context, planID string) (store.DataPlan, error)
	deleteFn    func(ctx context.Context, tx store.Execer, planID string) (int64, error)
	deleteAllFn func(ctx context.Context, tx store.Execer) (int64, error)
}

func (s stubDataPlanStore) Create(ctx context.Context, tx store.Execer, input store.DataPlanInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubDataPlanStore) List(ctx context.Context) ([]store.DataPlan, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubDataPlanStore) GetByID(ctx context.Context, planID string) (store.DataPlan, error) {
	if s.getByIDFn == nil {
		return store.DataPlan{}, nil
	}
	return s.getByIDFn(ctx, planID)
}

func (s stubDataPlanStore) Delete(ctx context.Context, tx store.Execer, planID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, planID)
}

func (s stubDataPlanStore) DeleteAll(ctx context.Context, tx store.Execer) (int64, error) {
	if s.deleteAllFn == nil {
		return 0, nil
	}
	return s.deleteAllFn(ctx, tx)
}

type stubAgencyStore struct {
	createFn    func(ctx context.Context, tx store.Execer, input store.AgencyLocationInput) error
	listFn      func(ctx context.Context) ([]store.AgencyLocation, error)
	getByIDFn   func(ctx context.Context, agencyID string) (store.AgencyLocation, error)
	deleteFn    func(ctx context.Context, tx store.Execer, agencyID string) (int64, error)
	deleteAllFn func(ctx context.Context, tx store.Execer) (int64, error)
}

func (s stubAgencyStore) Create(ctx context.Context, tx store.Execer, input store.AgencyLocationInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubAgencyStore) List(ctx context.Context) ([]store.AgencyLocation, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubAgencyStore) GetByID(ctx context.Context, agencyID string) (store.AgencyLocation, error) {
	if s.getByIDFn == nil {
		return store.AgencyLocation{}, nil
	}
	return s.getByIDFn(ctx, agencyID)
}

func (s stubAgencyStore) Delete(ctx context.Context, tx store.Execer, agencyID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, agencyID)
}

func (s stubAgencyStore) DeleteAll(ctx context.Context, tx store.Execer) (int64, error) {
	if s.deleteAllFn == nil {
		return 0, nil
	}
	return s.deleteAllFn(ctx, tx)
}

type stubQuestionStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, userID, content string, submittedAt time.Time) error
	listFn       func(ctx context.Context) ([]store.Question, error)
	getByIDFn    func(ctx context.Context, questionID string) (store.Question, error)
	listByUserFn func(ctx context.Context, userID string) ([]store.Question, error)
	searchFn     func(ctx context.Context, keyword string) ([]store.Question, error)
	deleteFn     func(ctx context.Context, tx store.Execer, questionID string) (int64, error)
	deleteAllFn  func(ctx context.Context, tx store.Execer) (int64, error)
}

func (s stubQuestionStore) Create(ctx context.Context, tx store.Execer, id, userID, content string, submittedAt time.Time) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, userID, content, submittedAt)
}

func (s stubQuestionStore) List(ctx context.Context) ([]store.Question, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubQuestionStore) GetByID(ctx context.Context, questionID string) (store.Question, error) {
	if s.getByIDFn == nil {
		return store.Question{}, nil
	}
	return s.getByIDFn(ctx, questionID)
}

func (s stubQuestionStore) ListByUser(ctx context.Context, userID string) ([]store.Question, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubQuestionStore) Search(ctx context.Context, keyword string) ([]store.Question, error) {
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(ctx, keyword)
}

func (s stubQuestionStore) Delete(ctx context.Context, tx store.Execer, questionID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, questionID)
}

func (s stubQuestionStore) DeleteAll(ctx context.Context, tx store.Execer) (int64, error) {
	if s.deleteAllFn == nil {
		return 0, nil
	}
	return s.deleteAllFn(ctx, tx)
}

type stubAnswerStore struct {
	createFn         func(ctx context.Context, tx store.Execer, id, questionID, userID, content string, submittedAt time.Time) error
	listFn           func(ctx context.Context) ([]store.Answer, error)
	listByQuestionFn func(ctx context.Context, questionID string) ([]store.Answer, error)
	listByUserFn     func(ctx context.Context, userID string) ([]store.Answer, error)
	deleteAllFn      func(ctx context.Context, tx store.Execer) (int64, error)
}

func (s stubAnswerStore) Create(ctx context.Context, tx store.Execer, id, questionID, userID, content string, submittedAt time.Time) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, questionID, userID, content, submittedAt)
}

func (s stubAnswerStore) List(ctx context.Context) ([]store.Answer, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubAnswerStore) ListByQuestion(ctx context.Context, questionID string) ([]store.Answer, error) {
	if s.listByQuestionFn == nil {
		return nil, nil
	}
	return s.listByQuestionFn(ctx, questionID)
}

func (s stubAnswerStore) ListByUser(ctx context.Context, userID string) ([]store.Answer, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubAnswerStore) DeleteAll(ctx context.Context, tx store.Execer) (int64, error) {
	if s.deleteAllFn == nil {
		return 0, nil
	}
	return s.deleteAllFn(ctx, tx)
}

type stubForecastService struct {
	predictFn func(ctx context.Context, userID string) (forecast.Result, error)
}

func (s stubForecastService) Predict(ctx context.Context, userID string) (forecast.Result, error) {
	if s.predictFn == nil {
		return forecast.Result{}, nil
	}
	return s.predictFn(ctx, userID)
}

type stubLocatorService struct {
	nearestFn func(ctx context.Context, latitude, longitude float64) (store.AgencyLocation, float64, error)
}

func (s stubLocatorService) Nearest(ctx context.Context, latitude, longitude float64) (store.AgencyLocation, float64, error) {
	if s.nearestFn == nil {
		return store.AgencyLocation{}, 0, nil
	}
	return s.nearestFn(ctx, latitude, longitude)
}
