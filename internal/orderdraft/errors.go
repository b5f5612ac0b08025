package orderdraft

import (
	"errors"
	"fmt"
)

var (
	ErrCustomerNameRequired  = errors.New("müşteri adı zorunlu")
	ErrCustomerPhoneRequired = errors.New("müşteri telefonu zorunlu")
	ErrNoLines               = errors.New("siparişte en az bir kalem olmalı")
	ErrNonFinite             = errors.New("sayısal alan geçerli bir sayı olmalı")
	ErrInvalidDate           = errors.New("teslim tarihi geçersiz")
	ErrLineNotFound          = errors.New("satır bulunamadı")
	ErrNotPersisted          = errors.New("sipariş henüz kaydedilmedi")
)

// ValidationError kayıt öncesi yakalanan hatayı alan detayıyla sarar.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, details string) error {
	return &ValidationError{Err: err, Details: details}
}
