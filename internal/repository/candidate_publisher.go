package repository

import (
	"context"
	"time"

	"CoinSentry/internal/domain/models"
	"CoinSentry/internal/domain/repository"
	pkgkafka "CoinSentry/pkg/kafka"
)

// KafkaCandidatePublisher emits one event per candidate, keyed by
// symbol so consumers see a stable partition per asset.
type KafkaCandidatePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaCandidatePublisher creates a Kafka-backed candidate publisher.
func NewKafkaCandidatePublisher(producer *pkgkafka.Producer, topic string) repository.CandidatePublisher {
	return &KafkaCandidatePublisher{producer: producer, topic: topic}
}

func (p *KafkaCandidatePublisher) PublishCandidates(ctx context.Context, report *models.ScanReport) error {
	if report == nil || len(report.Candidates) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(report.Candidates))
	for _, c := range report.Candidates {
		msgs = append(msgs, pkgkafka.Message{
			Key: []byte(c.Asset.Symbol),
			Value: map[string]interface{}{
				"id":         c.Asset.ID,
				"symbol":     c.Asset.Symbol,
				"name":       c.Asset.Name,
				"rank":       c.Asset.Rank,
				"price":      c.Asset.Price,
				"volume":     c.Asset.Volume,
				"change_1h":  c.Asset.Change1h,
				"change_24h": c.Asset.Change24h,
				"reasons":    c.Reasons,
				"scanned_at": report.GeneratedAt.Format(time.RFC3339),
			},
		})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaCandidatePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
