// Package worker содержит фоновые задачи сервиса.
package worker

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/goroutine"
	"github.com/ignatzorin/talent-escrow/internal/logger"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

const defaultBatchSize = 100

// SweeperCaller - адрес, от имени которого фоновая задача вызывает возврат.
// Получен из хэша, закрытого ключа у него нет.
var SweeperCaller = identity.Address(common.BytesToAddress(crypto.Keccak256([]byte("talent-escrow/expiry-sweeper"))[12:]))

// RecordLister - часть хранилища, нужная для поиска просроченных записей.
type RecordLister interface {
	ListRecords(ctx context.Context, filter repository.RecordFilter) ([]*entity.EscrowRecord, error)
}

// Reclaimer - публичная операция возврата средств.
type Reclaimer interface {
	Execute(ctx context.Context, caller identity.Address, address derive.RecordAddress) (*entity.EscrowRecord, error)
}

// ExpirySweeper периодически возвращает средства по просроченным предложениям.
type ExpirySweeper struct {
	records   RecordLister
	reclaimer Reclaimer
	interval  time.Duration
	batchSize int
	nowFn     func() int64
}

func NewExpirySweeper(records RecordLister, reclaimer Reclaimer, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		records:   records,
		reclaimer: reclaimer,
		interval:  interval,
		batchSize: defaultBatchSize,
		nowFn:     func() int64 { return time.Now().Unix() },
	}
}

// WithClock подменяет источник времени.
func (s *ExpirySweeper) WithClock(now func() int64) *ExpirySweeper {
	s.nowFn = now
	return s
}

// WithBatchSize задаёт размер страницы при обходе просроченных записей.
func (s *ExpirySweeper) WithBatchSize(n int) *ExpirySweeper {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// Run крутит цикл до отмены контекста. Интервал <= 0 отключает задачу.
func (s *ExpirySweeper) Run(ctx context.Context) {
	if s.interval <= 0 || s.records == nil || s.reclaimer == nil {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			goroutine.DefaultRecoveryHandler.Run(func() { s.Sweep(ctx) })
		}
	}
}

// Sweep обходит все просроченные записи постранично и возвращает число возвратов.
// Записи, которые не удалось вернуть, остаются в выборке, поэтому смещение
// растёт только на их число.
func (s *ExpirySweeper) Sweep(ctx context.Context) int {
	log := logger.L()
	now := s.nowFn()

	reclaimed, offset := 0, 0
	for ctx.Err() == nil {
		records, err := s.records.ListRecords(ctx, repository.RecordFilter{
			Status:        valueobject.OfferStatusPending,
			ExpiresBefore: now,
			Limit:         s.batchSize,
			Offset:        offset,
		})
		if err != nil {
			log.Errorf("sweeper: не удалось получить просроченные предложения: %v", err)
			break
		}

		for _, rec := range records {
			if ctx.Err() != nil {
				break
			}
			_, err := s.reclaimer.Execute(ctx, SweeperCaller, rec.Address)
			switch {
			case err == nil:
				reclaimed++
			case apperror.IsState(err):
				// запись закрыли параллельно, из выборки она ушла
			case apperror.IsTemporal(err):
				offset++
			default:
				offset++
				log.WithFields(logrus.Fields{"address": rec.Address.String()}).Warnf("sweeper: возврат не выполнен: %v", err)
			}
		}
		if len(records) < s.batchSize {
			break
		}
	}

	if reclaimed > 0 {
		log.WithFields(logrus.Fields{"reclaimed": reclaimed}).Info("sweeper: возвращены средства по просроченным предложениям")
	}
	return reclaimed
}
