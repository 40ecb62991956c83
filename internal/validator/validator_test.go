package validator

import (
	"errors"
	"testing"
)

func TestValidatePhoneNumber(t *testing.T) {
	for _, phone := range []string{"90000000", "+21690000000", "123456789012345"} {
		if err := ValidatePhoneNumber(phone); err != nil {
			t.Fatalf("expected %q to be valid: %v", phone, err)
		}
	}
	for _, phone := range []string{"", "1234567", "phone", "90 00 00 00", "+"} {
		if err := ValidatePhoneNumber(phone); !errors.Is(err, ErrInvalidPhoneNumber) {
			t.Fatalf("expected %q to be rejected, got %v", phone, err)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("ab"); !errors.Is(err, ErrUsernameTooShort) {
		t.Fatalf("expected a short-username error, got %v", err)
	}
	if err := ValidateUsername("abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short", "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected a short-password error, got %v", err)
	}
	if err := ValidatePassword("longenough", "different1"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected a mismatch error, got %v", err)
	}
	if err := ValidatePassword("longenough", "longenough"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateQuestion(t *testing.T) {
	if err := ValidateQuestion("too short"); !errors.Is(err, ErrQuestionTooShort) {
		t.Fatalf("expected a short-question error, got %v", err)
	}
	if err := ValidateQuestion("how do I activate roaming?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
