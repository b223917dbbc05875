package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"unmasked_server/metrics"
	"unmasked_server/models"
)

// JoinError reports a failed add-member step of a pool join.
type JoinError struct {
	PoolID    string
	AccountID string
	Err       error
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("join %s as %s: %v", e.PoolID, e.AccountID, e.Err)
}

func (e *JoinError) Unwrap() error {
	return e.Err
}

type membershipKey struct {
	accountID string
	groupID   string
}

// MembershipService gates pool access and drives the join workflow.
type MembershipService struct {
	Provider CapabilityProvider
	Logger   *slog.Logger

	mu         sync.RWMutex
	authorized map[membershipKey]bool
}

func NewMembershipService(provider CapabilityProvider, logger *slog.Logger) *MembershipService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MembershipService{
		Provider:   provider,
		Logger:     logger.With("component", "services.MembershipService"),
		authorized: map[membershipKey]bool{},
	}
}

// CheckMembership asks the provider whether accountID may use pool. A pool
// that is not registered yet, or any provider error, reads as "not a member".
func (s *MembershipService) CheckMembership(ctx context.Context, accountID string, pool models.Pool) bool {
	if accountID == "" || s.Provider == nil {
		return false
	}

	ok, err := s.Provider.IsAuthorized(ctx, pool.GroupID, accountID)
	if err != nil {
		if !errors.Is(err, ErrGroupNotFound) {
			s.Logger.Warn("⚠️ Membership check failed", "pool", pool.Key, "account", accountID, "error", err)
		}
		ok = false
	}

	s.setAuthorized(accountID, pool.GroupID, ok)
	return ok
}

// IsMember returns the cached authorization state without calling the provider.
func (s *MembershipService) IsMember(accountID string, pool models.Pool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authorized[membershipKey{accountID, pool.GroupID}]
}

// Join registers the pool group (failures tolerated) and adds accountID as a
// member (failures reported as *JoinError).
func (s *MembershipService) Join(ctx context.Context, accountID string, pool models.Pool) error {
	if accountID == "" || s.Provider == nil {
		return nil
	}

	s.Logger.Info("🔄 Joining pool", "pool", pool.Key, "account", accountID)

	if err := s.Provider.RegisterGroup(ctx, pool.GroupID); err != nil {
		s.Logger.Warn("⚠️ registerGroup failed, continuing", "pool", pool.Key, "error", err)
	}

	if err := s.Provider.AddGroupMember(ctx, pool.GroupID, accountID); err != nil {
		s.Logger.Error("❌ Failed to add pool member", "pool", pool.Key, "account", accountID, "error", err)
		metrics.PoolJoins.WithLabelValues(pool.Key, "error").Inc()
		return &JoinError{PoolID: pool.GroupID, AccountID: accountID, Err: err}
	}

	s.setAuthorized(accountID, pool.GroupID, true)
	metrics.PoolJoins.WithLabelValues(pool.Key, "ok").Inc()
	s.Logger.Info("✅ Joined pool", "pool", pool.Key, "account", accountID)
	return nil
}

// Revoke removes accountID from pool and clears the cached authorization.
func (s *MembershipService) Revoke(ctx context.Context, accountID string, pool models.Pool) error {
	if accountID == "" || s.Provider == nil {
		return nil
	}

	if err := s.Provider.RevokeGroupMember(ctx, pool.GroupID, accountID); err != nil {
		return fmt.Errorf("revoke %s from %s: %w", accountID, pool.GroupID, err)
	}

	s.setAuthorized(accountID, pool.GroupID, false)
	s.Logger.Info("✅ Revoked pool member", "pool", pool.Key, "account", accountID)
	return nil
}

func (s *MembershipService) setAuthorized(accountID, groupID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorized[membershipKey{accountID, groupID}] = ok
}
