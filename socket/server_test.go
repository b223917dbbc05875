package socket

import (
	"testing"

	"unmasked_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type broadcast struct {
	room  string
	event string
	args  []interface{}
}

type recordingBroadcaster struct {
	sent []broadcast
}

func (r *recordingBroadcaster) BroadcastToRoom(_, room, event string, args ...interface{}) bool {
	r.sent = append(r.sent, broadcast{room: room, event: event, args: args})
	return true
}

func TestHubPublishConfessionTargetsPoolRoom(t *testing.T) {
	rec := &recordingBroadcaster{}
	hub := &Hub{Broadcaster: rec}

	hub.PublishConfession(models.Confession{ID: "c1", PoolID: "nearclaw-crypto", Text: "hi"})

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "nearclaw-crypto", rec.sent[0].room)
	assert.Equal(t, "newConfession", rec.sent[0].event)
}

func TestHubPublishMessageTargetsChatRoom(t *testing.T) {
	rec := &recordingBroadcaster{}
	hub := &Hub{Broadcaster: rec}

	hub.PublishMessage("anon-c42d9a", models.Message{ID: "m1", Text: "hey"})

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "nearclaw-chat-anon-c42d9a", rec.sent[0].room)
	assert.Equal(t, "newMessage", rec.sent[0].event)
}

func TestIsChatGroup(t *testing.T) {
	assert.True(t, isChatGroup("nearclaw-chat-anon-1"))
	assert.False(t, isChatGroup("nearclaw-chat-"))
	assert.False(t, isChatGroup("nearclaw-crypto"))
}
