package model

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrAPIKeyMissing        = errors.New("an api token is required")
	ErrSymbolListRequired   = errors.New("a symbol list is required")
	ErrSymbolDictRequired   = errors.New("a symbol dict is required")
	ErrExchangeCodeRequired = errors.New("an exchange code is required")
	ErrInvalidExchangeCode  = errors.New("invalid exchange code")
	ErrIncorrectDateFormat  = errors.New("incorrect date format, expected YYYY-MM-DD")
	ErrSymbolNotFound       = errors.New("symbol not found")
)

// InvalidExchangeError reports an exchange code missing from the supported table.
type InvalidExchangeError struct {
	Code string
}

func (e *InvalidExchangeError) Error() string {
	return fmt.Sprintf("invalid exchange code %q", e.Code)
}

// Is reports whether target is ErrInvalidExchangeCode.
func (e *InvalidExchangeError) Is(target error) bool {
	return target == ErrInvalidExchangeCode
}
