// Package identity описывает криптографическую идентичность участников:
// адрес - это 20 байт, полученные из публичного ключа secp256k1.
package identity

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// AddressLength - длина адреса участника в байтах.
const AddressLength = common.AddressLength

// Address - идентификатор участника (рекрутера, владельца профиля).
type Address common.Address

// ZeroAddress используется как «нет адреса».
var ZeroAddress = Address{}

// ParseAddress разбирает адрес в hex-формате (с префиксом 0x или без).
func ParseAddress(raw string) (Address, error) {
	trimmed := strings.TrimSpace(raw)
	if !common.IsHexAddress(trimmed) {
		return ZeroAddress, apperror.Newf(apperror.ErrCodeValidation, "некорректный адрес участника: %q", raw)
	}
	addr := Address(common.HexToAddress(trimmed))
	if addr.IsZero() {
		return ZeroAddress, apperror.New(apperror.ErrCodeValidation, "нулевой адрес участника недопустим")
	}
	return addr, nil
}

// MustParseAddress используется в тестах и константах.
func MustParseAddress(raw string) Address {
	addr, err := ParseAddress(raw)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Bytes возвращает копию адреса в виде среза.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// Hex возвращает адрес в формате EIP-55.
func (a Address) Hex() string {
	return common.Address(a).Hex()
}

func (a Address) String() string {
	return a.Hex()
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value сохраняет адрес в БД строкой.
func (a Address) Value() (driver.Value, error) {
	return a.Hex(), nil
}

// Scan читает адрес из строки или байтов. NULL и пустая строка дают нулевой адрес.
func (a *Address) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*a = ZeroAddress
		return nil
	default:
		return fmt.Errorf("identity: неподдерживаемый тип для адреса: %T", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*a = ZeroAddress
		return nil
	}
	if !common.IsHexAddress(raw) {
		return fmt.Errorf("identity: некорректный адрес в хранилище: %q", raw)
	}
	*a = Address(common.HexToAddress(raw))
	return nil
}
