package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// EscrowMetrics - счётчики машины состояний предложений.
type EscrowMetrics struct {
	opened   *prometheus.CounterVec
	resolved *prometheus.CounterVec
	errors   *prometheus.CounterVec
	amount   *prometheus.CounterVec
}

var (
	escrowOnce     sync.Once
	escrowRegistry *EscrowMetrics
)

// Escrow возвращает метрики, зарегистрированные в глобальном реестре.
func Escrow() *EscrowMetrics {
	escrowOnce.Do(func() {
		escrowRegistry = NewEscrowMetrics(prometheus.DefaultRegisterer)
	})
	return escrowRegistry
}

func NewEscrowMetrics(reg prometheus.Registerer) *EscrowMetrics {
	m := &EscrowMetrics{
		opened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_offers_opened_total",
			Help: "Count of escrow offers opened by kind.",
		}, []string{"kind"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_offers_resolved_total",
			Help: "Count of escrow offers moved to a terminal status.",
		}, []string{"kind", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_operation_errors_total",
			Help: "Count of failed escrow operations by operation and error code.",
		}, []string{"op", "code"}),
		amount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_amount_base_units_total",
			Help: "Base units moved into (hold) and out of (release, refund) escrow.",
		}, []string{"kind", "direction"}),
	}
	reg.MustRegister(m.opened, m.resolved, m.errors, m.amount)
	return m
}

func (m *EscrowMetrics) OfferOpened(kind valueobject.OfferKind, amount valueobject.Amount) {
	if m == nil {
		return
	}
	m.opened.WithLabelValues(label(string(kind))).Inc()
	m.amount.WithLabelValues(label(string(kind)), "hold").Add(float64(amount))
}

func (m *EscrowMetrics) OfferResolved(kind valueobject.OfferKind, status valueobject.OfferStatus, amount valueobject.Amount) {
	if m == nil {
		return
	}
	m.resolved.WithLabelValues(label(string(kind)), label(string(status))).Inc()

	direction := "refund"
	if status == valueobject.OfferStatusAccepted {
		direction = "release"
	}
	m.amount.WithLabelValues(label(string(kind)), direction).Add(float64(amount))
}

func (m *EscrowMetrics) OperationFailed(op string, err error) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(label(op), string(apperror.CodeOf(err))).Inc()
}

func label(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
