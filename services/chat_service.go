package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"unmasked_server/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DefaultPollInterval is how often a chat feed re-reads its group.
const DefaultPollInterval = 5 * time.Second

// ChatService reads and sends messages in a match's chat group.
type ChatService struct {
	Provider CapabilityProvider
	Logger   *slog.Logger

	// OnMessage, when set, is called after a message is sent.
	OnMessage func(matchID string, message models.Message)

	now func() time.Time

	mu       sync.RWMutex
	messages map[string][]models.Message
}

func NewChatService(provider CapabilityProvider, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		Provider: provider,
		Logger:   logger.With("component", "services.ChatService"),
		now:      time.Now,
		messages: map[string][]models.Message{},
	}
}

func (s *ChatService) loadMessages(ctx context.Context, matchID string) ([]models.Message, error) {
	groupID := models.ChatGroupID(matchID)
	items, err := retrieveAll(ctx, s.Provider, groupID, "message", s.Logger)
	if err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(items))
	for _, item := range items {
		var m models.Message
		if err := json.Unmarshal(item.data, &m); err != nil {
			s.Logger.Debug("skipping undecodable message", "group", groupID, "handle", item.handle.Handle, "error", err)
			continue
		}
		messages = append(messages, m)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp < messages[j].Timestamp
	})
	return messages, nil
}

// FetchMessages replaces the local message list of matchID, oldest first.
func (s *ChatService) FetchMessages(ctx context.Context, matchID string) ([]models.Message, error) {
	messages, err := s.loadMessages(ctx, matchID)
	if err != nil {
		return nil, err
	}
	s.replace(matchID, messages)
	return append([]models.Message(nil), messages...), nil
}

func (s *ChatService) replace(matchID string, messages []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[matchID] = messages
}

// Messages returns the local message list of matchID.
func (s *ChatService) Messages(matchID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Message(nil), s.messages[matchID]...)
}

// Send uploads a message from accountID and appends it locally.
func (s *ChatService) Send(ctx context.Context, accountID, matchID, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, models.ErrEmptyMessage
	}
	if accountID == "" {
		return models.Message{}, nil
	}

	message := models.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    accountID,
		Timestamp: s.now().UnixMilli(),
	}

	data, err := json.Marshal(message)
	if err != nil {
		return models.Message{}, fmt.Errorf("encode message: %w", err)
	}

	s.Logger.Info("📩 Sending message", "match", matchID, "message", message.ID)
	if _, err := s.Provider.Upload(ctx, models.ChatGroupID(matchID), data, "msg-"+message.ID+".json"); err != nil {
		s.Logger.Error("❌ Failed to send message", "match", matchID, "error", err)
		return models.Message{}, fmt.Errorf("upload message: %w", err)
	}

	s.mu.Lock()
	s.messages[matchID] = lo.UniqBy(append(s.messages[matchID], message), func(m models.Message) string { return m.ID })
	s.mu.Unlock()

	if s.OnMessage != nil {
		s.OnMessage(matchID, message)
	}
	return message, nil
}

// Watch starts a poller that keeps the local list of matchID fresh. The
// caller must Stop it when the feed is no longer viewed.
func (s *ChatService) Watch(ctx context.Context, matchID string, interval time.Duration) *Poller {
	p := NewPoller(interval, func(ctx context.Context) ([]models.Message, error) {
		return s.loadMessages(ctx, matchID)
	}, func(messages []models.Message) {
		s.replace(matchID, messages)
	}, s.Logger.With("match", matchID))
	p.Start(ctx)
	return p
}
