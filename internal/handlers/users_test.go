package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ttportal/internal/store"

	"github.com/go-chi/chi/v5"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateUsersMissingFieldRejectedWithoutInsert(t *testing.T) {
	inserted := false
	handler := newTestHandler(stubUserStore{
		createFn: func(context.Context, store.Execer, string, string, *string, int) error {
			inserted = true
			return nil
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"phoneNumber":"90000000"}`))
	rr := httptest.NewRecorder()
	handler.CreateUsers(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if inserted {
		t.Fatal("no row should be inserted on a validation failure")
	}
}

func TestCreateUsersDuplicatePhoneRejected(t *testing.T) {
	handler := newTestHandler(stubUserStore{
		getByPhoneNumberFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "u1", PhoneNumber: "90000000"}, nil
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"phoneNumber":"90000000","bonusPlan":2}`))
	rr := httptest.NewRecorder()
	handler.CreateUsers(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateUsersBatch(t *testing.T) {
	var created []string
	handler := newTestHandler(stubUserStore{
		getByPhoneNumberFn: func(context.Context, string) (store.User, error) {
			return store.User{}, sql.ErrNoRows
		},
		createFn: func(_ context.Context, _ store.Execer, _, phoneNumber string, _ *string, _ int) error {
			created = append(created, phoneNumber)
			return nil
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	body := `[{"phoneNumber":"90000000","bonusPlan":2},{"phoneNumber":"90000001","bonusPlan":3}]`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.CreateUsers(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 inserts, got %d", len(created))
	}
}

func TestGetUserNotFound(t *testing.T) {
	handler := newTestHandler(stubUserStore{
		getByIDFn: func(context.Context, string) (store.User, error) {
			return store.User{}, sql.ErrNoRows
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/users/nope", nil), "id", "nope")
	rr := httptest.NewRecorder()
	handler.GetUser(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	handler := newTestHandler(stubUserStore{
		deleteFn: func(context.Context, store.Execer, string) (int64, error) { return 0, nil },
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/users/nope", nil), "id", "nope")
	rr := httptest.NewRecorder()
	handler.DeleteUser(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
