package valueobject

import (
	"fmt"

	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// Amount - сумма в минимальных единицах базовой валюты.
type Amount int64

func NewAmount(units int64) (Amount, error) {
	if units <= 0 {
		return 0, apperror.New(apperror.ErrCodeValidation, "сумма должна быть положительной")
	}
	return Amount(units), nil
}

// AtLeast проверяет нижнюю границу суммы.
func (a Amount) AtLeast(min Amount) error {
	if a < min {
		return apperror.Newf(apperror.ErrCodeValidation, "сумма %d меньше минимальной %d", a, min)
	}
	return nil
}

func (a Amount) Int64() int64 {
	return int64(a)
}

func (a Amount) String() string {
	return fmt.Sprintf("%d", int64(a))
}
