package service

import (
	"Clipper/internal/api/dto"
	"Clipper/internal/pkg/database/databasetest"
	"Clipper/internal/pkg/queue"
	"Clipper/internal/pkg/redis"
	"Clipper/internal/repository"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []queue.IngestJob
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, job queue.IngestJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Jobs() []queue.IngestJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queue.IngestJob(nil), q.jobs...)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []*dto.MetricsUpdatedEvent
}

func (n *recordingNotifier) MetricsUpdated(_ context.Context, event *dto.MetricsUpdatedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

type fixture struct {
	db        *gorm.DB
	mr        *miniredis.Miniredis
	rdb       *redis.Client
	users     repository.UserRepo
	accounts  repository.LinkedAccountRepo
	metrics   repository.MetricsRepo
	snapshots repository.SnapshotRepo
	clips     repository.ClipRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.NewSQLite(t)
	mr := miniredis.RunT(t)
	rdb := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rdb.Close() })

	return &fixture{
		db:        db,
		mr:        mr,
		rdb:       rdb,
		users:     repository.NewUserRepo(db),
		accounts:  repository.NewLinkedAccountRepo(db),
		metrics:   repository.NewMetricsRepo(db),
		snapshots: repository.NewSnapshotRepo(db),
		clips:     repository.NewClipRepo(db),
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
