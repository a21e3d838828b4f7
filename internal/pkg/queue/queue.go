package queue

import (
	"Clipper/internal/model"
	"Clipper/internal/pkg/logger"
	"context"
	"errors"
	log "log/slog"
	"sync"
)

var (
	ErrQueueFull   = errors.New("ingest queue is full")
	ErrQueueClosed = errors.New("ingest queue is closed")
)

// IngestJob 一次指标抓取任务
type IngestJob struct {
	UserID   string         `json:"userId"`
	Platform model.Platform `json:"platform"`
	Handle   string         `json:"handle"`
	Reason   string         `json:"reason"`
	TraceID  string         `json:"traceId,omitempty"`
}

// Handler 处理任务，返回错误时由队列实现决定是否重试
type Handler func(ctx context.Context, job IngestJob) error

// Enqueuer 投递任务，不等待执行结果
type Enqueuer interface {
	Enqueue(ctx context.Context, job IngestJob) error
}

// LocalQueue 进程内有界队列
type LocalQueue struct {
	jobs    chan IngestJob
	workers int

	mu     sync.RWMutex
	closed bool
}

func NewLocalQueue(size, workers int) *LocalQueue {
	if size <= 0 {
		size = 256
	}
	if workers <= 0 {
		workers = 1
	}
	return &LocalQueue{
		jobs:    make(chan IngestJob, size),
		workers: workers,
	}
}

// Enqueue 非阻塞投递
func (q *LocalQueue) Enqueue(_ context.Context, job IngestJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start 启动 worker，ctx 结束后处理完已入队任务再返回
func (q *LocalQueue) Start(ctx context.Context, handler Handler) error {
	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range q.jobs {
				run(ctx, handler, job)
			}
		}()
	}

	<-ctx.Done()
	q.mu.Lock()
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	wg.Wait()
	log.Info("Local ingest queue stopped")
	return nil
}

func run(ctx context.Context, handler Handler, job IngestJob) {
	// ctx 已取消时仍需完成剩余任务
	jobCtx := JobContext(context.WithoutCancel(ctx), job)
	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(jobCtx, "ingest job panicked", "user_id", job.UserID, "platform", job.Platform, "panic", r)
		}
	}()
	if err := handler(jobCtx, job); err != nil {
		log.ErrorContext(jobCtx, "ingest job failed", "user_id", job.UserID, "platform", job.Platform, "err", err)
	}
}

// JobContext 恢复投递方的 trace_id，没有时生成新的
func JobContext(ctx context.Context, job IngestJob) context.Context {
	if job.TraceID != "" {
		return context.WithValue(ctx, logger.TraceIDKey, job.TraceID)
	}
	return logger.NewJobContext(ctx, "ingest")
}
