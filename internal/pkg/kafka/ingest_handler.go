package kafka

import (
	"Clipper/internal/pkg/queue"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// IngestHandler 消费抓取任务
type IngestHandler struct {
	handle queue.Handler
}

func NewIngestHandler(handle queue.Handler) *IngestHandler {
	return &IngestHandler{handle: handle}
}

func (s *IngestHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("ingest consumer setup")
	return nil
}

func (s *IngestHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("ingest consumer cleanup")
	return nil
}

func (s *IngestHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.handleMessage)
}

func (s *IngestHandler) handleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var job queue.IngestJob
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		// 格式错误的消息无法重试成功
		log.ErrorContext(ctx, "unmarshal ingest job error", "offset", msg.Offset, "err", err)
		return nil
	}
	if job.UserID == "" || job.Handle == "" {
		log.WarnContext(ctx, "skip incomplete ingest job", "offset", msg.Offset)
		return nil
	}
	return s.handle(queue.JobContext(ctx, job), job)
}
