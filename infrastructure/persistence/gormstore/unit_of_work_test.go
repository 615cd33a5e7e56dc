package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"pizzeria/infrastructure/messaging"
	"pizzeria/infrastructure/persistence/gormstore/po"
	"pizzeria/infrastructure/persistence/retry"
	"pizzeria/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitWritesOutbox(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	outbox := NewOutboxRepository(db)
	uow := NewUnitOfWorkFactory(db, retry.DefaultConfig).New()
	ctx := context.Background()

	o := newTestOrder(t, "c1", "10.00")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if err := repo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	require.NoError(t, err)

	pending, err := outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "order.placed", pending[0].EventType)
	assert.Equal(t, o.ID(), pending[0].AggregateID)
	assert.Contains(t, pending[0].Payload, `"order_id"`)
}

func TestUnitOfWork_RollbackDiscardsEverything(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	outbox := NewOutboxRepository(db)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	boom := errors.New("boom")
	o := newTestOrder(t, "c1", "10.00")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if err := repo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	count, err := outbox.CountByStatus(ctx, po.EventStatusPending)
	require.NoError(t, err)
	assert.Zero(t, count)
}

type recordingPublisher struct {
	published []messaging.Message
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, msg messaging.Message) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

func seedOutbox(t *testing.T, db *OutboxRepository, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		o := newTestOrder(t, "c1", "10.00")
		for _, e := range o.PullEvents() {
			require.NoError(t, db.SaveEvent(ctx, e))
		}
	}
}

func TestOutboxWorker_ProcessBatch(t *testing.T) {
	db := openTestDB(t)
	outbox := NewOutboxRepository(db)
	seedOutbox(t, outbox, 3)

	pub := &recordingPublisher{}
	m := metrics.New()
	worker, err := NewOutboxWorker(outbox, pub, time.Second, 2, 3)
	require.NoError(t, err)
	worker.WithMetrics(m)
	ctx := context.Background()

	n, err := worker.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = worker.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, pub.published, 3)
	assert.Equal(t, "order.placed", pub.published[0].EventType)
	published, err := outbox.CountByStatus(ctx, po.EventStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, int64(3), published)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.OutboxEvents.WithLabelValues(metrics.OutboxPublished)))
}

func TestOutboxWorker_FailedEventsGiveUpAfterMaxRetries(t *testing.T) {
	db := openTestDB(t)
	outbox := NewOutboxRepository(db)
	seedOutbox(t, outbox, 1)

	worker, err := NewOutboxWorker(outbox, &recordingPublisher{err: errors.New("broker down")}, time.Second, 10, 2)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		n, err := worker.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	failed, err := outbox.CountByStatus(ctx, po.EventStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), failed)
}

func TestOutboxRepository_ReleaseStale(t *testing.T) {
	db := openTestDB(t)
	outbox := NewOutboxRepository(db)
	seedOutbox(t, outbox, 1)
	ctx := context.Background()

	pending, err := outbox.GetPendingEvents(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, outbox.MarkEventProcessing(ctx, pending[0].ID))
	assert.Error(t, outbox.MarkEventProcessing(ctx, pending[0].ID))

	released, err := outbox.ReleaseStale(ctx, -time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)
}

func TestNewOutboxWorkerValidation(t *testing.T) {
	outbox := NewOutboxRepository(openTestDB(t))
	pub := &recordingPublisher{}

	_, err := NewOutboxWorker(nil, pub, time.Second, 1, 1)
	assert.Error(t, err)
	_, err = NewOutboxWorker(outbox, nil, time.Second, 1, 1)
	assert.Error(t, err)
	_, err = NewOutboxWorker(outbox, pub, 0, 1, 1)
	assert.Error(t, err)
	_, err = NewOutboxWorker(outbox, pub, time.Second, 0, 1)
	assert.Error(t, err)
}
