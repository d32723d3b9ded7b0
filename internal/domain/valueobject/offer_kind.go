package valueobject

import (
	"time"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// OfferKind - вид эскроу-предложения. Оба вида используют одну машину
// состояний и отличаются только параметрами.
type OfferKind string

const (
	OfferKindScout   OfferKind = "scout"
	OfferKindContact OfferKind = "contact"
)

const (
	DefaultMinAmount Amount = 1_000_000
	DefaultWindow           = 7 * 24 * time.Hour
)

// KindConfig описывает параметры вида предложения.
type KindConfig struct {
	Kind             OfferKind
	Namespace        string
	MaxMessageBytes  int
	MinAmount        Amount
	Window           time.Duration
	UseProfileWindow bool // окно берётся из response_time_hours профиля
	UseProfilePrices bool // минимум не ниже самого дешёвого тарифа профиля
	RequirePublic    bool
}

// ScoutConfig - скаут-предложение рекрутера владельцу профиля.
func ScoutConfig(minAmount Amount, window time.Duration) KindConfig {
	if minAmount <= 0 {
		minAmount = DefaultMinAmount
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return KindConfig{
		Kind:            OfferKindScout,
		Namespace:       derive.NamespaceScout,
		MaxMessageBytes: 500,
		MinAmount:       minAmount,
		Window:          window,
	}
}

// ContactConfig - платный запрос на контакт.
func ContactConfig(minAmount Amount, defaultWindow time.Duration) KindConfig {
	if minAmount <= 0 {
		minAmount = DefaultMinAmount
	}
	if defaultWindow <= 0 {
		defaultWindow = DefaultWindow
	}
	return KindConfig{
		Kind:             OfferKindContact,
		Namespace:        derive.NamespaceContact,
		MaxMessageBytes:  1000,
		MinAmount:        minAmount,
		Window:           defaultWindow,
		UseProfileWindow: true,
		UseProfilePrices: true,
		RequirePublic:    true,
	}
}

func NewOfferKind(kind string) (OfferKind, error) {
	k := OfferKind(kind)
	if k != OfferKindScout && k != OfferKindContact {
		return "", apperror.Newf(apperror.ErrCodeValidation, "неизвестный вид предложения: %q", kind)
	}
	return k, nil
}

// Kinds хранит конфигурации по видам.
type Kinds map[OfferKind]KindConfig

func NewKinds(configs ...KindConfig) Kinds {
	kinds := make(Kinds, len(configs))
	for _, cfg := range configs {
		kinds[cfg.Kind] = cfg
	}
	return kinds
}

func (k Kinds) Get(kind OfferKind) (KindConfig, error) {
	cfg, ok := k[kind]
	if !ok {
		return KindConfig{}, apperror.Newf(apperror.ErrCodeValidation, "неизвестный вид предложения: %q", kind)
	}
	return cfg, nil
}
