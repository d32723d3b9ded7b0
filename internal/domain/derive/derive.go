// Package derive вычисляет детерминированные адреса записей из пространства
// имён и идентичностей участников.
//
// Адрес = keccak256(namespace || seeds... || bump || marker), где bump перебирается
// от 255 вниз до первого значения, при котором результат не является
// x-координатой точки secp256k1. Для такого адреса не существует приватного
// ключа, поэтому запись никогда не может выступать подписантом.
package derive

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// Пространства имён записей.
const (
	NamespaceProfile = "profile"
	NamespaceScout   = "scout"
	NamespaceContact = "contact_request"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32
	marker        = "talent-escrow/record"
)

var (
	curveP = crypto.S256().Params().P
	seven  = big.NewInt(7)
)

// Derive возвращает адрес и bump для набора сидов.
func Derive(namespace string, seeds ...[]byte) (RecordAddress, uint8, error) {
	if err := checkSeeds(namespace, seeds); err != nil {
		return ZeroRecord, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		addr := hashSeeds(namespace, seeds, uint8(bump))
		if !onCurve(addr) {
			return addr, uint8(bump), nil
		}
	}
	return ZeroRecord, 0, apperror.New(apperror.ErrCodeInternal, "не удалось подобрать bump для адреса")
}

// CreateWithBump пересчитывает адрес с сохранённым bump.
func CreateWithBump(namespace string, bump uint8, seeds ...[]byte) (RecordAddress, error) {
	if err := checkSeeds(namespace, seeds); err != nil {
		return ZeroRecord, err
	}
	addr := hashSeeds(namespace, seeds, bump)
	if onCurve(addr) {
		return ZeroRecord, apperror.New(apperror.ErrCodeForbidden, "bump не даёт допустимый адрес")
	}
	return addr, nil
}

// Verify сравнивает переданный адрес с пересчитанным. Несовпадение - ошибка
// авторизации: подложная ссылка или устаревший клиент.
func Verify(expected RecordAddress, namespace string, bump uint8, seeds ...[]byte) error {
	addr, err := CreateWithBump(namespace, bump, seeds...)
	if err != nil {
		return err
	}
	if addr != expected {
		return apperror.ErrAddressMismatch
	}
	return nil
}

func checkSeeds(namespace string, seeds [][]byte) error {
	if namespace == "" || len(namespace) > MaxSeedLength {
		return apperror.Newf(apperror.ErrCodeValidation, "пространство имён должно быть от 1 до %d байт", MaxSeedLength)
	}
	if len(seeds) > MaxSeeds {
		return apperror.Newf(apperror.ErrCodeValidation, "слишком много сидов: %d", len(seeds))
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return apperror.Newf(apperror.ErrCodeValidation, "сид длиннее %d байт", MaxSeedLength)
		}
	}
	return nil
}

func hashSeeds(namespace string, seeds [][]byte, bump uint8) RecordAddress {
	h := sha3.NewLegacyKeccak256()
	// Длина перед каждым сидом исключает коллизии вида ("ab","c") и ("a","bc").
	h.Write([]byte{byte(len(namespace))})
	h.Write([]byte(namespace))
	for _, seed := range seeds {
		h.Write([]byte{byte(len(seed))})
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write([]byte(marker))

	var out RecordAddress
	copy(out[:], h.Sum(nil))
	return out
}

// onCurve сообщает, существует ли точка secp256k1 с такой x-координатой.
func onCurve(addr RecordAddress) bool {
	x := new(big.Int).SetBytes(addr[:])
	if x.Cmp(curveP) >= 0 {
		return false
	}
	y2 := new(big.Int).Exp(x, big.NewInt(3), curveP)
	y2.Add(y2, seven)
	y2.Mod(y2, curveP)
	return new(big.Int).ModSqrt(y2, curveP) != nil
}
