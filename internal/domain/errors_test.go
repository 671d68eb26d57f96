package domain

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with wrapped error",
			err:  &AppError{Code: CodeNotFound, Message: "brand not found", Err: errors.New("record not found")},
			want: "brand not found: record not found",
		},
		{
			name: "without wrapped error",
			err:  &AppError{Code: CodeNotFound, Message: "brand not found"},
			want: "brand not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.want {
				t.Errorf("Error() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("inner error")
	appErr := &AppError{Code: CodeInternal, Message: "something failed", Err: inner}

	if !errors.Is(appErr, inner) {
		t.Error("Unwrap() should allow errors.Is to find wrapped error")
	}

	appErr2 := &AppError{Code: CodeInternal, Message: "no wrap"}
	if appErr2.Unwrap() != nil {
		t.Error("Unwrap() should return nil when Err is nil")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checkFn func(error) bool
		code    int
	}{
		{"ErrNotFound", ErrNotFound, IsNotFound, CodeNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists, IsAlreadyExists, CodeAlreadyExists},
		{"ErrValidation", ErrValidation, IsValidation, CodeValidation},
		{"ErrInternal", ErrInternal, IsInternal, CodeInternal},
		{"ErrUnauthorized", ErrUnauthorized, IsUnauthorized, CodeUnauthorized},
		{"ErrForbidden", ErrForbidden, IsForbidden, CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *AppError
			if !errors.As(tt.err, &appErr) {
				t.Fatal("should be *AppError")
			}
			if appErr.Code != tt.code {
				t.Errorf("Code = %d; want %d", appErr.Code, tt.code)
			}
			if !tt.checkFn(tt.err) {
				t.Errorf("check function should return true for %s", tt.name)
			}
		})
	}
}

func TestIsCheckers_NonAppError(t *testing.T) {
	plainErr := errors.New("some error")
	checks := []func(error) bool{IsNotFound, IsAlreadyExists, IsValidation, IsInternal, IsUnauthorized, IsForbidden, IsUpstream}
	for i, check := range checks {
		if check(plainErr) {
			t.Errorf("check %d should return false for non-AppError", i)
		}
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(map[string]string{
		"startDate":     "start date must be before end date",
		"discountValue": "discount value must not exceed 100%",
	})

	if !IsValidation(err) {
		t.Fatal("expected validation error")
	}
	if err.Message != "discount value must not exceed 100%" {
		t.Errorf("Message = %q; want first field message in name order", err.Message)
	}
	fields := FieldErrors(fmtWrap(err))
	if len(fields) != 2 {
		t.Fatalf("FieldErrors() len = %d; want 2", len(fields))
	}
}

func TestNewValidationError_NoFields(t *testing.T) {
	err := NewValidationError(nil)
	if err.Message != ErrValidation.Message {
		t.Errorf("Message = %q; want %q", err.Message, ErrValidation.Message)
	}
}

func TestFieldErrors_NonValidation(t *testing.T) {
	if got := FieldErrors(ErrNotFound); got != nil {
		t.Errorf("FieldErrors(ErrNotFound) = %v; want nil", got)
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"already exists", ErrAlreadyExists, http.StatusConflict},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"upstream", NewAppError(CodeUpstream, "bad gateway", nil), http.StatusBadGateway},
		{"unknown code", NewAppError(999, "unknown", nil), http.StatusInternalServerError},
		{"non-AppError", errors.New("plain"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTTPStatusCode(tt.err)
			if got != tt.want {
				t.Errorf("HTTPStatusCode() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   int
	}{
		{http.StatusNotFound, CodeNotFound},
		{http.StatusConflict, CodeAlreadyExists},
		{http.StatusBadRequest, CodeValidation},
		{http.StatusUnprocessableEntity, CodeValidation},
		{http.StatusUnauthorized, CodeUnauthorized},
		{http.StatusForbidden, CodeForbidden},
		{http.StatusInternalServerError, CodeUpstream},
		{http.StatusBadGateway, CodeUpstream},
	}
	for _, tt := range tests {
		if got := CodeForStatus(tt.status); got != tt.want {
			t.Errorf("CodeForStatus(%d) = %d; want %d", tt.status, got, tt.want)
		}
	}
}

func fmtWrap(err error) error {
	return errors.Join(errors.New("context"), err)
}
