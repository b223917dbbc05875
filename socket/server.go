package socket

import (
	"log/slog"
	"net/http"
	"strings"

	"unmasked_server/models"

	socketio "github.com/googollee/go-socket.io"
)

const namespace = "/"

// Broadcaster is the part of the Socket.IO server the hub publishes through.
type Broadcaster interface {
	BroadcastToRoom(namespace, room, event string, args ...interface{}) bool
}

// Hub pushes newly published confessions and chat messages to clients that
// joined the matching room (a pool or chat group id).
type Hub struct {
	Server      *socketio.Server
	Broadcaster Broadcaster
	Logger      *slog.Logger
}

// NewHub initializes the Socket.IO server and its room handlers
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "socket.Hub")

	server := socketio.NewServer(nil)

	server.OnConnect(namespace, func(c socketio.Conn) error {
		logger.Debug("✅ Socket connected", "id", c.ID())
		return nil
	})

	// Rooms are provider group ids: nearclaw-<pool> or nearclaw-chat-<match>.
	server.OnEvent(namespace, "join", func(c socketio.Conn, room string) {
		if !models.IsPoolGroup(room) && !isChatGroup(room) {
			logger.Warn("❌ Invalid room in join request", "id", c.ID(), "room", room)
			return
		}
		logger.Debug("👥 Socket joined room", "id", c.ID(), "room", room)
		c.Join(room)
	})

	server.OnEvent(namespace, "leave", func(c socketio.Conn, room string) {
		c.Leave(room)
	})

	server.OnError(namespace, func(c socketio.Conn, err error) {
		logger.Warn("socket error", "error", err)
	})

	server.OnDisconnect(namespace, func(c socketio.Conn, reason string) {
		logger.Debug("❌ Socket disconnected", "id", c.ID(), "reason", reason)
	})

	return &Hub{Server: server, Broadcaster: server, Logger: logger}
}

func isChatGroup(room string) bool {
	return strings.HasPrefix(room, models.ChatGroupPrefix) && len(room) > len(models.ChatGroupPrefix)
}

// PublishConfession notifies the confession's pool room.
func (h *Hub) PublishConfession(confession models.Confession) {
	h.Broadcaster.BroadcastToRoom(namespace, confession.PoolID, "newConfession", confession)
}

// PublishMessage notifies the chat room of matchID.
func (h *Hub) PublishMessage(matchID string, message models.Message) {
	h.Broadcaster.BroadcastToRoom(namespace, models.ChatGroupID(matchID), "newMessage", message)
}

// Run serves Socket.IO sessions until Close.
func (h *Hub) Run() {
	if err := h.Server.Serve(); err != nil {
		h.Logger.Error("socket server stopped", "error", err)
	}
}

func (h *Hub) Close() error {
	return h.Server.Close()
}

func (h *Hub) Handler() http.Handler {
	return h.Server
}
