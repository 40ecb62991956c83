package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ttportal/internal/auth"
	"ttportal/internal/middleware"
	"ttportal/internal/store"
)

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginUnknownPhone(t *testing.T) {
	handler := newTestHandler(stubUserStore{
		getByPhoneNumberFn: func(context.Context, string) (store.User, error) {
			return store.User{}, sql.ErrNoRows
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	rr := httptest.NewRecorder()
	handler.Login(rr, formRequest("/login", url.Values{"phoneNumber": {"99999999"}, "password": {"whatever"}}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected the login page again, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Phone number does not exist.") {
		t.Fatal("expected the unknown-phone message")
	}
}

func TestLoginStoreFailureIsNotUnknownPhone(t *testing.T) {
	handler := newTestHandler(stubUserStore{
		getByPhoneNumberFn: func(context.Context, string) (store.User, error) {
			return store.User{}, sql.ErrConnDone
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	rr := httptest.NewRecorder()
	handler.Login(rr, formRequest("/login", url.Values{"phoneNumber": {"90000000"}, "password": {"whatever"}}))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on a store failure, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "Phone number does not exist.") {
		t.Fatal("a store failure must not read as an unknown phone")
	}
}

func TestLoginBeforeSignup(t *testing.T) {
	handler := newTestHandler(stubUserStore{
		getByPhoneNumberFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "u1", PhoneNumber: "90000000"}, nil
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	rr := httptest.NewRecorder()
	handler.Login(rr, formRequest("/login", url.Values{"phoneNumber": {"90000000"}, "password": {"whatever"}}))
	if !strings.Contains(rr.Body.String(), "sign up") {
		t.Fatalf("expected a sign-up hint, got: %s", rr.Body.String())
	}
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	hash, err := auth.HashPassword("longenoughpassword")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	handler := newTestHandler(stubUserStore{
		getByPhoneNumberFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "u1", PhoneNumber: "90000000", PasswordHash: &hash}, nil
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	rr := httptest.NewRecorder()
	handler.Login(rr, formRequest("/login", url.Values{"phoneNumber": {"90000000"}, "password": {"longenoughpassword"}}))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected a redirect, got %d", rr.Code)
	}
	var session *http.Cookie
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			session = cookie
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("expected a session cookie")
	}
	claims, err := auth.ParseToken("test-secret", session.Value)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("expected user u1 in the session, got %s", claims.UserID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("longenoughpassword")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	handler := newTestHandler(stubUserStore{
		getByPhoneNumberFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "u1", PasswordHash: &hash}, nil
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	rr := httptest.NewRecorder()
	handler.Login(rr, formRequest("/login", url.Values{"phoneNumber": {"90000000"}, "password": {"nottherightone"}}))
	if !strings.Contains(rr.Body.String(), "Incorrect password.") {
		t.Fatal("expected the wrong-password message")
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	completed := false
	handler := newTestHandler(stubUserStore{
		getByPhoneNumberFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "u1", PhoneNumber: "90000000"}, nil
		},
		completeSignupFn: func(context.Context, store.Execer, string, string, string) error {
			completed = true
			return nil
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	rr := httptest.NewRecorder()
	handler.Signup(rr, formRequest("/signup", url.Values{
		"phoneNumber":  {"90000000"},
		"username":     {"asma"},
		"password":     {"short"},
		"confirmation": {"short"},
	}))
	if !strings.Contains(rr.Body.String(), "at least 10 characters") {
		t.Fatal("expected the short-password message")
	}
	if completed {
		t.Fatal("the profile must not be stored on a validation failure")
	}
}

func TestSignupRejectsCompletedProfile(t *testing.T) {
	hash := "some-hash"
	handler := newTestHandler(stubUserStore{
		getByPhoneNumberFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "u1", PasswordHash: &hash}, nil
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	rr := httptest.NewRecorder()
	handler.Signup(rr, formRequest("/signup", url.Values{
		"phoneNumber":  {"90000000"},
		"username":     {"asma"},
		"password":     {"longenoughpassword"},
		"confirmation": {"longenoughpassword"},
	}))
	if !strings.Contains(rr.Body.String(), "already has a profile") {
		t.Fatal("expected the already-signed-up message")
	}
}

func TestSignupSuccessAuthenticates(t *testing.T) {
	var storedHash string
	handler := newTestHandler(stubUserStore{
		getByPhoneNumberFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "u1", PhoneNumber: "90000000"}, nil
		},
		completeSignupFn: func(_ context.Context, _ store.Execer, _, _, passwordHash string) error {
			storedHash = passwordHash
			return nil
		},
	}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	rr := httptest.NewRecorder()
	handler.Signup(rr, formRequest("/signup", url.Values{
		"phoneNumber":  {"90000000"},
		"username":     {"asma"},
		"password":     {"longenoughpassword"},
		"confirmation": {"longenoughpassword"},
	}))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected a redirect, got %d: %s", rr.Code, rr.Body.String())
	}
	if !auth.CheckPassword(storedHash, "longenoughpassword") {
		t.Fatal("the stored hash must verify against the password")
	}
	if len(rr.Result().Cookies()) == 0 {
		t.Fatal("expected a session cookie after signup")
	}
}

func TestSubmitQuestionTooShort(t *testing.T) {
	created := false
	handler := newTestHandler(stubUserStore{}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{
		createFn: func(context.Context, store.Execer, string, string, string, time.Time) error {
			created = true
			return nil
		},
	}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	req := formRequest("/questions", url.Values{"content": {"short?"}})
	req = req.WithContext(middleware.WithUserID(req.Context(), "u1"))
	rr := httptest.NewRecorder()
	handler.SubmitQuestion(rr, req)
	if !strings.Contains(rr.Body.String(), "at least 10 characters") {
		t.Fatal("expected the short-question message")
	}
	if created {
		t.Fatal("a short question must not be stored")
	}
}

func TestQuestionThreadUnknownID(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubUsageStore{}, stubBalanceStore{}, stubRechargeStore{}, stubMonetaryPlanStore{}, stubDataPlanStore{}, stubAgencyStore{}, stubQuestionStore{
		getByIDFn: func(context.Context, string) (store.Question, error) {
			return store.Question{}, sql.ErrNoRows
		},
	}, stubAnswerStore{}, stubForecastService{}, stubLocatorService{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/question/nope", nil), "id", "nope")
	rr := httptest.NewRecorder()
	handler.QuestionThread(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
