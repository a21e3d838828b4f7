package kafka

import (
	"Clipper/internal/api/config"
	"Clipper/internal/pkg/logger"
	"Clipper/internal/pkg/queue"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// IngestProducer 将抓取任务写入 Kafka
type IngestProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewIngestProducer(cfg config.KafkaConfig) (*IngestProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewIngestProducerWith(producer, cfg.Ingest.Topic), nil
}

func NewIngestProducerWith(producer sarama.SyncProducer, topic string) *IngestProducer {
	return &IngestProducer{producer: producer, topic: topic}
}

// Enqueue 实现 queue.Enqueuer，同一用户的任务落在同一分区
func (p *IngestProducer) Enqueue(ctx context.Context, job queue.IngestJob) error {
	if job.TraceID == "" {
		job.TraceID = logger.TraceID(ctx)
	}
	value, err := json.Marshal(job)
	if err != nil {
		return err
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(job.UserID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("send ingest job: %w", err)
	}
	log.DebugContext(ctx, "ingest job produced", "topic", p.topic, "partition", partition, "offset", offset)
	return nil
}

func (p *IngestProducer) Close() error {
	return p.producer.Close()
}
