package ws

import (
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/logger"
)

// OfferPublisher рассылает события предложений обоим участникам.
type OfferPublisher struct {
	hub *Hub
}

func NewOfferPublisher(hub *Hub) *OfferPublisher {
	return &OfferPublisher{hub: hub}
}

func (p *OfferPublisher) Publish(event entity.OfferEvent) {
	for _, addr := range event.Recipients() {
		if err := p.hub.SendTo(addr, string(event.Type), event); err != nil {
			// доставка best-effort: событие уже сохранено в журнале
			logger.L().WithFields(logrus.Fields{
				"event":   event.Type,
				"address": event.Address.String(),
			}).Warnf("ws: событие не доставлено: %v", err)
		}
	}
}
