package derive

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"

	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// RecordAddressLength - длина адреса записи в байтах.
const RecordAddressLength = 32

// RecordHRP - человекочитаемый префикс bech32 для адресов записей.
const RecordHRP = "esc"

// RecordAddress - детерминированный адрес записи (профиля, предложения).
type RecordAddress [RecordAddressLength]byte

// ZeroRecord используется как «нет записи».
var ZeroRecord = RecordAddress{}

func (a RecordAddress) IsZero() bool {
	return a == ZeroRecord
}

func (a RecordAddress) Bytes() []byte {
	out := make([]byte, RecordAddressLength)
	copy(out, a[:])
	return out
}

// String кодирует адрес в bech32 (esc1...).
func (a RecordAddress) String() string {
	conv, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(RecordHRP, conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// Hex возвращает адрес в виде 0x-hex.
func (a RecordAddress) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// ParseRecordAddress принимает bech32 (esc1...) или 0x-hex.
func ParseRecordAddress(raw string) (RecordAddress, error) {
	trimmed := strings.TrimSpace(raw)
	var out RecordAddress

	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		decoded, err := hex.DecodeString(trimmed[2:])
		if err != nil || len(decoded) != RecordAddressLength {
			return ZeroRecord, apperror.Newf(apperror.ErrCodeValidation, "некорректный адрес записи: %q", raw)
		}
		copy(out[:], decoded)
		return out, nil
	}

	hrp, data, err := bech32.Decode(trimmed)
	if err != nil {
		return ZeroRecord, apperror.Wrap(err, apperror.ErrCodeValidation, "некорректный адрес записи")
	}
	if hrp != RecordHRP {
		return ZeroRecord, apperror.Newf(apperror.ErrCodeValidation, "неожиданный префикс адреса записи: %s", hrp)
	}
	conv, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil || len(conv) != RecordAddressLength {
		return ZeroRecord, apperror.Newf(apperror.ErrCodeValidation, "некорректная длина адреса записи: %q", raw)
	}
	copy(out[:], conv)
	return out, nil
}

func (a RecordAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *RecordAddress) UnmarshalText(text []byte) error {
	parsed, err := ParseRecordAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value сохраняет адрес в БД в bech32.
func (a RecordAddress) Value() (driver.Value, error) {
	return a.String(), nil
}

func (a *RecordAddress) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*a = ZeroRecord
		return nil
	default:
		return fmt.Errorf("derive: неподдерживаемый тип для адреса записи: %T", src)
	}
	parsed, err := ParseRecordAddress(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
