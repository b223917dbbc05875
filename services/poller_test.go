package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"unmasked_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appliedLog struct {
	mu      sync.Mutex
	batches [][]models.Message
}

func (l *appliedLog) apply(messages []models.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.batches = append(l.batches, messages)
}

func (l *appliedLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.batches)
}

func (l *appliedLog) last() []models.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.batches) == 0 {
		return nil
	}
	return l.batches[len(l.batches)-1]
}

func batch(id string) []models.Message {
	return []models.Message{{ID: id, Text: id}}
}

func TestPollerPollsImmediatelyAndOnTicks(t *testing.T) {
	var calls atomic.Int32
	log := &appliedLog{}
	poller := NewPoller(10*time.Millisecond, func(context.Context) ([]models.Message, error) {
		calls.Add(1)
		return batch("m"), nil
	}, log.apply, discardLogger())

	poller.Start(context.Background())
	defer poller.Stop()

	require.Eventually(t, func() bool { return log.count() >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, poller.Running())
}

func TestPollerIgnoresErrors(t *testing.T) {
	var calls atomic.Int32
	log := &appliedLog{}
	poller := NewPoller(10*time.Millisecond, func(context.Context) ([]models.Message, error) {
		if calls.Add(1)%2 == 1 {
			return nil, errors.New("transient")
		}
		return batch("ok"), nil
	}, log.apply, discardLogger())

	poller.Start(context.Background())
	defer poller.Stop()

	require.Eventually(t, func() bool { return log.count() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "ok", log.last()[0].ID)
}

func TestPollerLatestCompletionWins(t *testing.T) {
	var calls atomic.Int32
	releaseFirst := make(chan struct{})
	log := &appliedLog{}

	poller := NewPoller(30*time.Millisecond, func(ctx context.Context) ([]models.Message, error) {
		switch calls.Add(1) {
		case 1:
			<-releaseFirst
			return batch("older-request"), nil
		case 2:
			return batch("newer-request"), nil
		default:
			<-ctx.Done()
			return nil, ctx.Err()
		}
	}, log.apply, discardLogger())

	poller.Start(context.Background())
	defer poller.Stop()

	require.Eventually(t, func() bool { return log.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "newer-request", log.last()[0].ID)

	close(releaseFirst)
	require.Eventually(t, func() bool { return log.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "older-request", log.last()[0].ID)
}

func TestPollerStopDiscardsInFlightResults(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var returned atomic.Bool
	log := &appliedLog{}

	poller := NewPoller(time.Hour, func(context.Context) ([]models.Message, error) {
		close(started)
		<-release
		returned.Store(true)
		return batch("late"), nil
	}, log.apply, discardLogger())

	poller.Start(context.Background())
	<-started
	poller.Stop()
	assert.False(t, poller.Running())

	close(release)
	require.Eventually(t, returned.Load, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return log.count() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestPollerRestartAfterStop(t *testing.T) {
	log := &appliedLog{}
	poller := NewPoller(time.Hour, func(context.Context) ([]models.Message, error) {
		return batch("again"), nil
	}, log.apply, discardLogger())

	poller.Start(context.Background())
	require.Eventually(t, func() bool { return log.count() == 1 }, time.Second, 5*time.Millisecond)
	poller.Stop()
	poller.Stop()

	poller.Start(context.Background())
	defer poller.Stop()
	require.Eventually(t, func() bool { return log.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestNewPollerDefaultsInterval(t *testing.T) {
	poller := NewPoller(0, nil, nil, nil)
	assert.Equal(t, DefaultPollInterval, poller.interval)
	assert.False(t, poller.Running())
}
