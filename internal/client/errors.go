package client

import (
	"errors"
	"fmt"

	"perde-backend/internal/dto"
)

// ErrSaveInFlight önceki kayıt bitmeden ikinci kayıt denendi.
var ErrSaveInFlight = errors.New("kayıt devam ediyor, lütfen bekleyin")

// APIError sunucunun 2xx dışı cevabı. Message sunucunun {"error": "..."}
// gövdesinden gelir.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sunucu hatası (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsConflict sipariş başka bir oturumda değişmiş.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 409
}

// PartialSaveError sipariş oluştu fakat ilk ödeme kaydedilemedi. Sipariş
// sunucuda vardır; ödeme elle eklenmelidir.
type PartialSaveError struct {
	Order dto.OrderResponse
	Err   error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("sipariş #%d oluşturuldu fakat ödeme kaydedilemedi: %v", e.Order.ID, e.Err)
}

func (e *PartialSaveError) Unwrap() error {
	return e.Err
}
