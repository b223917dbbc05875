package services

import (
	"context"
	"testing"
	"time"

	"unmasked_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMessagesResolvesSelfAndSorts(t *testing.T) {
	ctx := context.Background()
	service := NewChatService(newFlakyProvider("alice.testnet"), discardLogger())

	messages, err := service.FetchMessages(ctx, "anon-c42d9a")
	require.NoError(t, err)
	require.Len(t, messages, 4)

	assert.Equal(t, []string{"m1", "m2", "m3", "m4"}, []string{messages[0].ID, messages[1].ID, messages[2].ID, messages[3].ID})
	assert.Equal(t, "alice.testnet", messages[1].Sender)
	assert.Equal(t, "anon-c42d9a", messages[0].Sender)
	for i := 1; i < len(messages); i++ {
		assert.LessOrEqual(t, messages[i-1].Timestamp, messages[i].Timestamp)
	}
	assert.Equal(t, messages, service.Messages("anon-c42d9a"))
}

func TestFetchMessagesUnknownMatchIsEmpty(t *testing.T) {
	service := NewChatService(newFlakyProvider("alice.testnet"), discardLogger())

	messages, err := service.FetchMessages(context.Background(), "anon-nobody")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestSendAppendsAndNotifies(t *testing.T) {
	ctx := context.Background()
	provider := newFlakyProvider("alice.testnet")
	service := NewChatService(provider, discardLogger())
	fixed := time.Now().Add(time.Hour)
	service.now = func() time.Time { return fixed }

	var notified []models.Message
	service.OnMessage = func(matchID string, m models.Message) {
		assert.Equal(t, "anon-b8e6f1", matchID)
		notified = append(notified, m)
	}

	_, err := service.FetchMessages(ctx, "anon-b8e6f1")
	require.NoError(t, err)

	sent, err := service.Send(ctx, "alice.testnet", "anon-b8e6f1", "  gm  ")
	require.NoError(t, err)
	assert.Equal(t, "gm", sent.Text)
	assert.Equal(t, "alice.testnet", sent.Sender)
	assert.Equal(t, fixed.UnixMilli(), sent.Timestamp)

	local := service.Messages("anon-b8e6f1")
	require.Len(t, local, 3)
	assert.Equal(t, sent.ID, local[2].ID)
	require.Len(t, notified, 1)

	fetched, err := service.FetchMessages(ctx, "anon-b8e6f1")
	require.NoError(t, err)
	require.Len(t, fetched, 3)
	assert.Equal(t, sent.ID, fetched[2].ID)
}

func TestSendRejectsEmptyAndIgnoresMissingActor(t *testing.T) {
	ctx := context.Background()
	provider := newFlakyProvider("alice.testnet")
	service := NewChatService(provider, discardLogger())

	_, err := service.Send(ctx, "alice.testnet", "anon-b8e6f1", "   ")
	assert.ErrorIs(t, err, models.ErrEmptyMessage)

	_, err = service.Send(ctx, "", "anon-b8e6f1", "hello")
	assert.NoError(t, err)
	assert.Empty(t, provider.uploads)
}

func TestSendFailure(t *testing.T) {
	provider := newFlakyProvider("alice.testnet")
	provider.failUpload = true
	service := NewChatService(provider, discardLogger())

	_, err := service.Send(context.Background(), "alice.testnet", "anon-b8e6f1", "lost")
	assert.ErrorIs(t, err, errProviderDown)
	assert.Empty(t, service.Messages("anon-b8e6f1"))
}

func TestWatchRefreshesMessages(t *testing.T) {
	ctx := context.Background()
	provider := newFlakyProvider("alice.testnet")
	service := NewChatService(provider, discardLogger())

	poller := service.Watch(ctx, "anon-b8e6f1", 10*time.Millisecond)
	defer poller.Stop()

	require.Eventually(t, func() bool { return len(service.Messages("anon-b8e6f1")) == 2 }, time.Second, 5*time.Millisecond)

	// A message written by the other side shows up on a later poll.
	other := NewChatService(provider.MemoryProvider.WithIdentity("anon-b8e6f1"), discardLogger())
	_, err := other.Send(ctx, "anon-b8e6f1", "anon-b8e6f1", "still there?")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(service.Messages("anon-b8e6f1")) == 3 }, time.Second, 5*time.Millisecond)
}
