package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/logger"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// Challenge - сообщение, которое участник подписывает своим ключом для входа.
type Challenge struct {
	Address   identity.Address `json:"address"`
	Nonce     string           `json:"nonce"`
	Message   string           `json:"message"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// AuthResult возвращает итог входа.
type AuthResult struct {
	Address   identity.Address
	TokenPair *TokenPair
}

// AuthService - вход по подписи: адрес доказывает владение ключом,
// подписав одноразовый challenge.
type AuthService struct {
	cache        *CacheService
	tokenManager *TokenManager
	challengeTTL time.Duration
}

func NewAuthService(cache *CacheService, tokenManager *TokenManager, challengeTTL time.Duration) *AuthService {
	if challengeTTL <= 0 {
		challengeTTL = 5 * time.Minute
	}
	return &AuthService{
		cache:        cache,
		tokenManager: tokenManager,
		challengeTTL: challengeTTL,
	}
}

func challengeMessage(addr identity.Address, nonce string) string {
	return fmt.Sprintf("Talent Escrow login\naddress: %s\nnonce: %s", addr.Hex(), nonce)
}

// Challenge выдаёт новый challenge; предыдущий для адреса перестаёт действовать.
func (s *AuthService) Challenge(ctx context.Context, addr identity.Address) (*Challenge, error) {
	if addr.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "адрес обязателен")
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сгенерировать nonce")
	}
	nonce := hex.EncodeToString(buf)

	ch := &Challenge{
		Address:   addr,
		Nonce:     nonce,
		Message:   challengeMessage(addr, nonce),
		ExpiresAt: time.Now().Add(s.challengeTTL),
	}
	s.cache.Set(ChallengeCacheKey(addr.Hex()), ch.Message, s.challengeTTL)
	return ch, nil
}

// Login проверяет подпись challenge и выпускает токены. Challenge одноразовый.
func (s *AuthService) Login(ctx context.Context, addr identity.Address, signatureHex string) (*AuthResult, error) {
	raw, ok := s.cache.Take(ChallengeCacheKey(addr.Hex()))
	if !ok {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "challenge не найден или истёк")
	}
	message := raw.(string)

	if err := identity.VerifySigner(addr, []byte(message), signatureHex); err != nil {
		logger.L().WithFields(logrus.Fields{"address": addr.Hex()}).Debug("auth: signature mismatch")
		return nil, apperror.ErrInvalidCredentials
	}

	pair, _, err := s.tokenManager.GeneratePair(addr)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return &AuthResult{Address: addr, TokenPair: pair}, nil
}

// Refresh выпускает новую пару и отзывает использованный refresh токен.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "недействительный refresh токен")
	}
	addr, err := identity.ParseAddress(claims.Subject)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "недействительный refresh токен")
	}

	// проверка и отзыв одной операцией: из параллельных обменов пройдёт один
	if !s.revoke(claims.ID, claims.ExpiresAt.Time) {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "refresh токен уже использован")
	}

	pair, _, err := s.tokenManager.GeneratePair(addr)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return &AuthResult{Address: addr, TokenPair: pair}, nil
}

// Logout отзывает refresh токен. Повторный выход не ошибка.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeUnauthorized, "недействительный refresh токен")
	}
	s.revoke(claims.ID, claims.ExpiresAt.Time)
	return nil
}

// revoke возвращает false, если токен уже был отозван.
func (s *AuthService) revoke(jti string, expiresAt time.Time) bool {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return false
	}
	return s.cache.SetIfAbsent(RevokedTokenCacheKey(jti), true, ttl)
}

// ParseAccessToken - для middleware.
func (s *AuthService) ParseAccessToken(token string) (identity.Address, error) {
	return s.tokenManager.ParseAccess(token)
}
