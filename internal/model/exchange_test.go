package model

import (
	"errors"
	"testing"
)

func TestValidateExchange(t *testing.T) {
	tests := []struct {
		code    string
		wantErr error
	}{
		{"US", nil},
		{"JSE", nil},
		{"XETRA", nil},
		{"FOREX", nil},
		{"", ErrExchangeCodeRequired},
		{"us", ErrInvalidExchangeCode},
		{"NASDAQQ", ErrInvalidExchangeCode},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := ValidateExchange(tt.code)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExchange(%q) = %v, want %v", tt.code, err, tt.wantErr)
			}
		})
	}

	t.Run("error carries code", func(t *testing.T) {
		err := ValidateExchange("ZZZ")
		var exErr *InvalidExchangeError
		if !errors.As(err, &exErr) {
			t.Fatalf("expected *InvalidExchangeError, got %T", err)
		}
		if exErr.Code != "ZZZ" {
			t.Errorf("Code = %q, want %q", exErr.Code, "ZZZ")
		}
	})
}

func TestExchangeName(t *testing.T) {
	name, ok := ExchangeName("JSE")
	if !ok || name != "Johannesburg Exchange" {
		t.Errorf("ExchangeName(JSE) = %q, %v", name, ok)
	}
	if _, ok := ExchangeName("ZZZ"); ok {
		t.Error("ExchangeName(ZZZ) ok = true, want false")
	}
}
