package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
)

func TestSchedulerScheduleRequiresApproved(t *testing.T) {
	f := newGatewayFixture()
	draft := f.mustCreate(t, "rose vinegar")
	sched := NewScheduler(f.gw, time.Hour, quietLogger())

	err := sched.Schedule(context.Background(), draft.ID, time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.True(t, entities.IsInvalidTransition(err))

	_, err = f.gw.Approve(context.Background(), draft.ID)
	require.NoError(t, err)

	require.NoError(t, sched.Schedule(context.Background(), draft.ID, time.Now().Add(time.Hour)))
	assert.Len(t, sched.Scheduled(), 1)
}

func TestSchedulerScheduleMissingDraft(t *testing.T) {
	f := newGatewayFixture()
	sched := NewScheduler(f.gw, time.Hour, quietLogger())

	err := sched.Schedule(context.Background(), "missing", time.Now())
	require.Error(t, err)
	assert.True(t, entities.IsNotFound(err))
}

func TestSchedulerCancel(t *testing.T) {
	f := newGatewayFixture()
	draft := f.mustCreate(t, "rose vinegar")
	_, err := f.gw.Approve(context.Background(), draft.ID)
	require.NoError(t, err)

	sched := NewScheduler(f.gw, time.Hour, quietLogger())
	require.NoError(t, sched.Schedule(context.Background(), draft.ID, time.Now().Add(time.Hour)))

	assert.True(t, sched.Cancel(draft.ID))
	assert.False(t, sched.Cancel(draft.ID))
	assert.Empty(t, sched.Scheduled())
}

func TestSchedulerPublishesDueDrafts(t *testing.T) {
	f := newGatewayFixture()
	due := f.mustCreate(t, "rose vinegar")
	later := f.mustCreate(t, "honey soap")
	for _, id := range []string{due.ID, later.ID} {
		_, err := f.gw.Approve(context.Background(), id)
		require.NoError(t, err)
	}

	sched := NewScheduler(f.gw, time.Hour, quietLogger())
	require.NoError(t, sched.Schedule(context.Background(), due.ID, time.Now().Add(-time.Minute)))
	require.NoError(t, sched.Schedule(context.Background(), later.ID, time.Now().Add(time.Hour)))

	sched.publishDue(context.Background())

	published, err := f.gw.GetDraft(context.Background(), due.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusPublished, published.Status)

	pending, err := f.gw.GetDraft(context.Background(), later.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusApproved, pending.Status)

	// Only the future entry remains queued.
	remaining := sched.Scheduled()
	require.Len(t, remaining, 1)
	assert.Contains(t, remaining, later.ID)
}

func TestSchedulerDropsDraftsThatMovedOn(t *testing.T) {
	f := newGatewayFixture()
	draft := f.mustCreate(t, "rose vinegar")
	_, err := f.gw.Approve(context.Background(), draft.ID)
	require.NoError(t, err)

	sched := NewScheduler(f.gw, time.Hour, quietLogger())
	require.NoError(t, sched.Schedule(context.Background(), draft.ID, time.Now().Add(-time.Minute)))

	// Rejected after being scheduled; the entry must be dropped, not retried.
	_, err = f.gw.Reject(context.Background(), draft.ID)
	require.NoError(t, err)

	sched.publishDue(context.Background())
	assert.Empty(t, sched.Scheduled())

	stored, err := f.gw.GetDraft(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusRejected, stored.Status)
}

func TestSchedulerKeepsEntryOnStoreFailure(t *testing.T) {
	f := newGatewayFixture()
	draft := f.mustCreate(t, "rose vinegar")
	_, err := f.gw.Approve(context.Background(), draft.ID)
	require.NoError(t, err)

	sched := NewScheduler(f.gw, time.Hour, quietLogger())
	require.NoError(t, sched.Schedule(context.Background(), draft.ID, time.Now().Add(-time.Minute)))

	f.store.Err = assert.AnError
	sched.publishDue(context.Background())
	assert.Len(t, sched.Scheduled(), 1)

	// Once the store recovers, the next tick publishes it.
	f.store.Err = nil
	sched.publishDue(context.Background())
	assert.Empty(t, sched.Scheduled())

	stored, err := f.gw.GetDraft(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusPublished, stored.Status)
}

func TestSchedulerStartStop(t *testing.T) {
	f := newGatewayFixture()
	sched := NewScheduler(f.gw, 5*time.Millisecond, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	sched.Stop()

	// Stop is idempotent.
	sched.Stop()
}
