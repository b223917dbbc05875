package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"unmasked_server/metrics"
	"unmasked_server/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ConfessionService publishes anonymous confessions and keeps the per-pool
// feeds with their reaction counters.
type ConfessionService struct {
	Provider CapabilityProvider
	Logger   *slog.Logger

	// OnPublished, when set, is called after a confession is committed.
	OnPublished func(models.Confession)

	now func() time.Time

	mu          sync.RWMutex
	confessions map[string][]models.Confession
	echoes      map[string]map[string]bool
}

func NewConfessionService(provider CapabilityProvider, logger *slog.Logger) *ConfessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfessionService{
		Provider:    provider,
		Logger:      logger.With("component", "services.ConfessionService"),
		now:         time.Now,
		confessions: map[string][]models.Confession{},
		echoes:      map[string]map[string]bool{},
	}
}

// TruncateConfession cuts text to MaxConfessionLength characters.
func TruncateConfession(text string) string {
	if utf8.RuneCountInString(text) <= models.MaxConfessionLength {
		return text
	}
	return string([]rune(text)[:models.MaxConfessionLength])
}

// NewConfessionRecord builds the de-identified payload for text.
func NewConfessionRecord(text string, now time.Time) models.ConfessionRecord {
	return models.ConfessionRecord{
		Text:      text,
		Timestamp: now.UnixMilli(),
		Reactions: models.ZeroReactions(),
	}
}

// Publish uploads text to the pool's group and prepends it to the local feed.
// Membership is the caller's concern; the provider enforces it.
func (s *ConfessionService) Publish(ctx context.Context, pool models.Pool, text string) (models.Confession, error) {
	text = strings.TrimSpace(TruncateConfession(text))
	if text == "" {
		return models.Confession{}, models.ErrEmptyConfession
	}

	now := s.now()
	record := NewConfessionRecord(text, now)
	data, err := json.Marshal(record)
	if err != nil {
		return models.Confession{}, fmt.Errorf("encode confession: %w", err)
	}

	filename := fmt.Sprintf("confession-%d.json", now.UnixMilli())
	result, err := s.Provider.Upload(ctx, pool.GroupID, data, filename)
	metrics.ConfessionsPublished.WithLabelValues(pool.Key, metrics.Result(err)).Inc()
	if err != nil {
		s.Logger.Error("❌ Failed to upload confession", "pool", pool.Key, "error", err)
		return models.Confession{}, fmt.Errorf("upload confession: %w", err)
	}

	id := result.ContentID
	if id == "" {
		id = "local-" + uuid.NewString()
	}

	confession := models.Confession{
		ID:            id,
		Text:          record.Text,
		Timestamp:     record.Timestamp,
		PoolID:        pool.GroupID,
		ContentHandle: id,
		Reactions:     record.Reactions,
		TransactionID: result.TransactionID,
	}

	s.mu.Lock()
	s.confessions[pool.GroupID] = append([]models.Confession{confession}, s.confessions[pool.GroupID]...)
	if s.echoes[pool.GroupID] == nil {
		s.echoes[pool.GroupID] = map[string]bool{}
	}
	s.echoes[pool.GroupID][id] = true
	s.mu.Unlock()

	s.Logger.Info("✅ Confession published", "pool", pool.Key, "cid", result.ContentID, "tx", result.TransactionID)

	if s.OnPublished != nil {
		s.OnPublished(cloneConfession(confession))
	}
	return cloneConfession(confession), nil
}

// Fetch replaces the pool's feed with the provider's listing. Local echoes the
// provider does not list yet stay in front; the rest are superseded. Reaction
// counts of items already held locally never go down.
func (s *ConfessionService) Fetch(ctx context.Context, pool models.Pool) ([]models.Confession, error) {
	s.Logger.Debug("🔍 Fetching confessions", "pool", pool.Key)

	items, err := retrieveAll(ctx, s.Provider, pool.GroupID, "confession", s.Logger)
	if err != nil {
		return nil, err
	}

	fetched := make([]models.Confession, 0, len(items))
	for _, item := range items {
		fetched = append(fetched, s.decodeConfession(pool, item))
	}

	s.mu.Lock()
	local := lo.SliceToMap(s.confessions[pool.GroupID], func(c models.Confession) (string, models.Confession) { return c.ID, c })
	for i, c := range fetched {
		if prev, ok := local[c.ID]; ok {
			fetched[i].Reactions = mergeReactions(prev.Reactions, c.Reactions)
		}
	}
	seen := lo.SliceToMap(fetched, func(c models.Confession) (string, bool) { return c.ID, true })
	echoes := s.echoes[pool.GroupID]
	pending := lo.Filter(s.confessions[pool.GroupID], func(c models.Confession, _ int) bool {
		return echoes[c.ID] && !seen[c.ID]
	})
	for id := range echoes {
		if seen[id] {
			delete(echoes, id)
		}
	}
	feed := lo.UniqBy(append(pending, fetched...), func(c models.Confession) string { return c.ID })
	s.confessions[pool.GroupID] = feed
	s.mu.Unlock()

	s.Logger.Info("✅ Fetched confessions", "pool", pool.Key, "count", len(feed))
	return cloneConfessions(feed), nil
}

func (s *ConfessionService) decodeConfession(pool models.Pool, item retrievedContent) models.Confession {
	var record models.ConfessionRecord
	if err := json.Unmarshal(item.data, &record); err != nil {
		record = models.ConfessionRecord{Text: string(item.data), Timestamp: s.now().UnixMilli()}
	}
	if record.Reactions == nil {
		record.Reactions = models.ZeroReactions()
	}
	return models.Confession{
		ID:            item.handle.ContentID,
		Text:          record.Text,
		Timestamp:     record.Timestamp,
		PoolID:        pool.GroupID,
		ContentHandle: item.handle.Handle,
		Reactions:     record.Reactions,
	}
}

// Confessions returns a copy of the local feed for groupID.
func (s *ConfessionService) Confessions(groupID string) []models.Confession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneConfessions(s.confessions[groupID])
}

// React adds one to symbol on the confession. Reactions are local only and
// not deduplicated per actor.
func (s *ConfessionService) React(confessionID, groupID, symbol string) (models.Confession, error) {
	if !models.IsReactionSymbol(symbol) {
		return models.Confession{}, fmt.Errorf("%w: %q", models.ErrUnknownReaction, symbol)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	feed := s.confessions[groupID]
	for i, c := range feed {
		if c.ID != confessionID {
			continue
		}
		updated := cloneConfession(c)
		if updated.Reactions == nil {
			updated.Reactions = map[string]int{}
		}
		updated.Reactions[symbol]++
		feed[i] = updated

		poolKey := groupID
		if pool, ok := models.LookupPool(groupID); ok {
			poolKey = pool.Key
		}
		metrics.Reactions.WithLabelValues(poolKey, symbol).Inc()
		return cloneConfession(updated), nil
	}
	return models.Confession{}, fmt.Errorf("%w: %s", models.ErrConfessionNotFound, confessionID)
}

// mergeReactions keeps the higher count per symbol so local reactions survive
// a refetch of the unchanged provider payload.
func mergeReactions(local, fetched map[string]int) map[string]int {
	merged := maps.Clone(fetched)
	if merged == nil {
		merged = models.ZeroReactions()
	}
	for symbol, n := range local {
		merged[symbol] = max(merged[symbol], n)
	}
	return merged
}

func cloneConfession(c models.Confession) models.Confession {
	c.Reactions = maps.Clone(c.Reactions)
	return c
}

func cloneConfessions(feed []models.Confession) []models.Confession {
	return lo.Map(feed, func(c models.Confession, _ int) models.Confession { return cloneConfession(c) })
}
