package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidWindow           = errors.New("expires_at must be after start_at")
	ErrNotRenewable            = errors.New("order is not renewable")
)

func ErrInvalidTransition(from, to Status) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
