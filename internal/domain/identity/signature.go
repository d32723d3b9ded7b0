package identity

import (
	"crypto/ecdsa"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

const (
	signaturePrefix = "\x19Talent Escrow Signed Message:\n"
	signatureLength = 65
)

// MessageHash вычисляет хэш сообщения с доменным префиксом, чтобы подпись
// нельзя было переиспользовать вне сервиса.
func MessageHash(message []byte) []byte {
	prefix := signaturePrefix + strconv.Itoa(len(message))
	return crypto.Keccak256([]byte(prefix), message)
}

// RecoverSigner восстанавливает адрес подписанта по подписи [R||S||V].
// V может быть 0/1 или 27/28.
func RecoverSigner(message, signature []byte) (Address, error) {
	if len(signature) != signatureLength {
		return ZeroAddress, apperror.Newf(apperror.ErrCodeUnauthorized, "подпись должна быть %d байт", signatureLength)
	}
	sig := make([]byte, signatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return ZeroAddress, apperror.New(apperror.ErrCodeUnauthorized, "некорректный байт восстановления подписи")
	}

	pub, err := crypto.SigToPub(MessageHash(message), sig)
	if err != nil {
		return ZeroAddress, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "не удалось восстановить подписанта")
	}
	return Address(crypto.PubkeyToAddress(*pub)), nil
}

// RecoverSignerHex - то же самое для подписи в hex.
func RecoverSignerHex(message []byte, signatureHex string) (Address, error) {
	sig, err := hexutil.Decode(signatureHex)
	if err != nil {
		return ZeroAddress, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "подпись должна быть в формате 0x-hex")
	}
	return RecoverSigner(message, sig)
}

// VerifySigner проверяет, что сообщение подписано ожидаемым адресом.
func VerifySigner(expected Address, message []byte, signatureHex string) error {
	signer, err := RecoverSignerHex(message, signatureHex)
	if err != nil {
		return err
	}
	if signer != expected {
		return apperror.ErrInvalidCredentials
	}
	return nil
}

// Sign подписывает сообщение ключом. Используется клиентами и тестами.
func Sign(key *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	sig, err := crypto.Sign(MessageHash(message), key)
	if err != nil {
		return nil, fmt.Errorf("identity: не удалось подписать сообщение: %w", err)
	}
	sig[64] += 27
	return sig, nil
}

// AddressOf возвращает адрес для приватного ключа.
func AddressOf(key *ecdsa.PrivateKey) Address {
	return Address(crypto.PubkeyToAddress(key.PublicKey))
}
