package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"unmasked_server/models"

	"github.com/samber/lo"
)

// MatchService reads computed matches for an actor and applies local
// accept/reject decisions. Decisions are not written back to the provider.
type MatchService struct {
	Provider CapabilityProvider
	Logger   *slog.Logger

	mu          sync.RWMutex
	matches     map[string][]models.Match
	preferences map[string]models.MatchPreferences
}

func NewMatchService(provider CapabilityProvider, logger *slog.Logger) *MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchService{
		Provider:    provider,
		Logger:      logger.With("component", "services.MatchService"),
		matches:     map[string][]models.Match{},
		preferences: map[string]models.MatchPreferences{},
	}
}

// FetchMatches replaces accountID's match list with the provider's listing,
// keeping accept/reject decisions already made locally.
func (s *MatchService) FetchMatches(ctx context.Context, accountID string) ([]models.Match, error) {
	if accountID == "" {
		return nil, nil
	}

	s.Logger.Debug("🔍 Fetching matches", "account", accountID)

	items, err := retrieveAll(ctx, s.Provider, models.MatchesGroupID(accountID), "match", s.Logger)
	if err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, len(items))
	for _, item := range items {
		var m models.Match
		if err := json.Unmarshal(item.data, &m); err != nil {
			s.Logger.Debug("skipping undecodable match", "handle", item.handle.Handle, "error", err)
			continue
		}
		if m.Status == "" {
			m.Status = models.StatusPending
		}
		matches = append(matches, m)
	}

	s.mu.Lock()
	decided := lo.SliceToMap(s.matches[accountID], func(m models.Match) (string, string) { return m.ID, m.Status })
	for i, m := range matches {
		// A local decision is final; the provider still lists it as pending.
		if status := decided[m.ID]; status != "" && status != models.StatusPending {
			matches[i].Status = status
		}
	}
	s.matches[accountID] = matches
	s.mu.Unlock()

	s.Logger.Info("✅ Fetched matches", "account", accountID, "count", len(matches))
	return append([]models.Match(nil), matches...), nil
}

// Matches returns the local match list of accountID.
func (s *MatchService) Matches(accountID string) []models.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Match(nil), s.matches[accountID]...)
}

// Accept moves a pending match to accepted.
func (s *MatchService) Accept(accountID, matchID string) (models.Match, error) {
	return s.transition(accountID, matchID, models.StatusAccepted)
}

// Reject moves a pending match to rejected.
func (s *MatchService) Reject(accountID, matchID string) (models.Match, error) {
	return s.transition(accountID, matchID, models.StatusRejected)
}

// transition only leaves pending; a decided match keeps its status.
func (s *MatchService) transition(accountID, matchID, status string) (models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.matches[accountID] {
		if m.ID != matchID {
			continue
		}
		if m.Status == models.StatusPending {
			m.Status = status
			s.matches[accountID][i] = m
			s.Logger.Info("✅ Match updated", "account", accountID, "match", matchID, "status", status)
		}
		return m, nil
	}
	return models.Match{}, fmt.Errorf("%w: %s", models.ErrMatchNotFound, matchID)
}

// SubmitPreferences uploads prefs to accountID's preferences group.
func (s *MatchService) SubmitPreferences(ctx context.Context, accountID string, prefs models.MatchPreferences) error {
	if accountID == "" {
		return nil
	}

	groupID := models.PreferencesGroupID(accountID)
	if err := s.Provider.RegisterGroup(ctx, groupID); err != nil {
		s.Logger.Debug("registerGroup tolerated", "group", groupID, "error", err)
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if _, err := s.Provider.Upload(ctx, groupID, data, "preferences.json"); err != nil {
		s.Logger.Error("❌ Failed to upload preferences", "account", accountID, "error", err)
		return fmt.Errorf("upload preferences: %w", err)
	}

	s.mu.Lock()
	s.preferences[accountID] = prefs
	s.mu.Unlock()

	s.Logger.Info("✅ Preferences saved", "account", accountID)
	return nil
}

// Preferences returns the last preferences saved by accountID.
func (s *MatchService) Preferences(accountID string) (models.MatchPreferences, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.preferences[accountID]
	return prefs, ok
}
