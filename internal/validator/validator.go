package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 10 characters")
	ErrPasswordMismatch   = errors.New("passwords don't match")
	ErrQuestionTooShort   = errors.New("question must be at least 10 characters")
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

func ValidatePhoneNumber(phoneNumber string) error {
	if !phoneRegex.MatchString(phoneNumber) {
		return ErrInvalidPhoneNumber
	}
	return nil
}

func ValidateUsername(username string) error {
	if len(username) < 3 {
		return ErrUsernameTooShort
	}
	return nil
}

func ValidatePassword(password, confirmation string) error {
	if len(password) < 10 {
		return ErrPasswordTooShort
	}
	if password != confirmation {
		return ErrPasswordMismatch
	}
	return nil
}

func ValidateQuestion(content string) error {
	if len(content) < 10 {
		return ErrQuestionTooShort
	}
	return nil
}
