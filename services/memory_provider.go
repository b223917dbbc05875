package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"unmasked_server/models"
)

const (
	hour = int64(time.Hour / time.Millisecond)
	day  = 24 * hour
)

type memoryEntry struct {
	handle    string
	contentID string
	data      []byte
}

type memoryStore struct {
	mu            sync.Mutex
	groups        map[string]bool
	members       map[string]bool
	content       map[string][]memoryEntry
	seededMatches map[string]bool
	txCounter     int
}

// MemoryProvider is an in-process CapabilityProvider seeded with sample data.
// Views created with WithIdentity share one store.
type MemoryProvider struct {
	store    *memoryStore
	identity string
	now      func() time.Time
}

// NewMemoryProvider returns a seeded provider acting as identity.
func NewMemoryProvider(identity string) *MemoryProvider {
	p := &MemoryProvider{
		store: &memoryStore{
			groups:        map[string]bool{},
			members:       map[string]bool{},
			content:       map[string][]memoryEntry{},
			seededMatches: map[string]bool{},
			txCounter:     1000,
		},
		identity: identity,
		now:      time.Now,
	}
	p.seed()
	return p
}

// WithIdentity returns a view of the same store acting as identity.
func (p *MemoryProvider) WithIdentity(identity string) *MemoryProvider {
	return &MemoryProvider{store: p.store, identity: identity, now: p.now}
}

func memberKey(groupID, memberID string) string {
	return groupID + "::" + memberID
}

func (p *MemoryProvider) RegisterGroup(_ context.Context, groupID string) error {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.groups[groupID] {
		return fmt.Errorf("%w: %s", ErrGroupExists, groupID)
	}
	s.groups[groupID] = true
	s.members[memberKey(groupID, p.identity)] = true
	return nil
}

func (p *MemoryProvider) AddGroupMember(_ context.Context, groupID, memberID string) error {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.groups[groupID] {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	s.members[memberKey(groupID, memberID)] = true
	return nil
}

func (p *MemoryProvider) RevokeGroupMember(_ context.Context, groupID, memberID string) error {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.groups[groupID] {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	delete(s.members, memberKey(groupID, memberID))
	return nil
}

func (p *MemoryProvider) IsAuthorized(_ context.Context, groupID, memberID string) (bool, error) {
	if memberID == "" {
		memberID = p.identity
	}

	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.groups[groupID] {
		return false, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	return s.members[memberKey(groupID, memberID)], nil
}

func (p *MemoryProvider) ListContentHandles(_ context.Context, groupID string) ([]ContentHandle, error) {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p.seedMatchesLocked(groupID)

	entries := s.content[groupID]
	handles := make([]ContentHandle, 0, len(entries))
	for _, entry := range entries {
		handles = append(handles, ContentHandle{Handle: entry.handle, ContentID: entry.contentID})
	}
	return handles, nil
}

func (p *MemoryProvider) Retrieve(_ context.Context, groupID, handle string) ([]byte, error) {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p.seedMatchesLocked(groupID)

	for _, entry := range s.content[groupID] {
		if entry.handle != handle {
			continue
		}
		data := append([]byte(nil), entry.data...)
		if strings.HasPrefix(groupID, models.ChatGroupPrefix) {
			self, _ := json.Marshal(p.identity)
			data = bytes.ReplaceAll(data, []byte(`"`+models.SelfSender+`"`), self)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrContentNotFound, handle, groupID)
}

func (p *MemoryProvider) Upload(_ context.Context, groupID string, data []byte, _ string) (UploadResult, error) {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txCounter++
	id := fmt.Sprintf("mock-tx-%d", s.txCounter)
	entry := memoryEntry{
		handle:    fmt.Sprintf("mock-ipfs-%s-%d", groupID, s.txCounter),
		contentID: id,
		data:      append([]byte(nil), data...),
	}

	// Pool feeds are newest first, everything else is chronological.
	if models.IsPoolGroup(groupID) {
		s.content[groupID] = append([]memoryEntry{entry}, s.content[groupID]...)
	} else {
		s.content[groupID] = append(s.content[groupID], entry)
	}

	return UploadResult{ContentID: id, TransactionID: id}, nil
}

func (p *MemoryProvider) putSeed(groupID string, items []any) {
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		p.store.content[groupID] = append(p.store.content[groupID], memoryEntry{
			handle:    fmt.Sprintf("mock-ipfs-%s-%d", groupID, i),
			contentID: fmt.Sprintf("mock-hash-%s-%d", groupID, i),
			data:      data,
		})
	}
}

// seedMatchesLocked lazily gives every actor the sample matches on first access.
func (p *MemoryProvider) seedMatchesLocked(groupID string) {
	if !strings.HasPrefix(groupID, models.MatchesGroupPrefix) || p.store.seededMatches[groupID] {
		return
	}
	p.store.seededMatches[groupID] = true

	items := make([]any, 0, len(seedMatches))
	for _, m := range seedMatches {
		items = append(items, m)
	}
	p.putSeed(groupID, items)
}

func (p *MemoryProvider) seed() {
	now := p.now().UnixMilli()

	for groupID, confessions := range seedConfessions {
		items := make([]any, 0, len(confessions))
		for _, c := range confessions {
			items = append(items, models.ConfessionRecord{Text: c.text, Timestamp: now - c.age, Reactions: c.reactions})
		}
		p.putSeed(groupID, items)
	}

	for groupID, messages := range seedMessages {
		items := make([]any, 0, len(messages))
		for _, m := range messages {
			items = append(items, models.Message{ID: m.id, Text: m.text, Sender: m.sender, Timestamp: now - m.age})
		}
		p.putSeed(groupID, items)
	}
}

type seedConfession struct {
	text      string
	age       int64
	reactions map[string]int
}

func reactions(heart, fire, think, ghost int) map[string]int {
	return map[string]int{models.ReactionHeart: heart, models.ReactionFire: fire, models.ReactionThink: think, models.ReactionGhost: ghost}
}

var seedConfessions = map[string][]seedConfession{
	"nearclaw-crypto": {
		{"I mass-sold my NEAR bag at $1.20 and bought back at $7. AMA about pain.", 2 * hour, reactions(12, 34, 5, 0)},
		{"I mass-bought a memecoin my friend launched and it rugged 20 minutes later. We are no longer friends.", 5 * hour, reactions(8, 21, 13, 2)},
		{"I pretend to understand ZK proofs in meetings. I have no idea what a polynomial commitment is.", 8 * hour, reactions(45, 12, 3, 7)},
		{`My "diversified portfolio" is 3 different NEAR ecosystem tokens.`, day, reactions(22, 8, 15, 0)},
	},
	"nearclaw-dating": {
		{"I matched with someone on Tinder and we realized we both work at the same DAO. We pretend we don't know each other in governance calls.", hour, reactions(67, 23, 4, 1)},
		{"My partner thinks I'm working late. I'm actually yield farming.", 12 * hour, reactions(15, 42, 8, 3)},
		{"I fell in love with someone's Twitter persona. Met IRL. They were a bot account run by 3 people.", 2 * day, reactions(31, 55, 19, 0)},
	},
	"nearclaw-life": {
		{"I quit my six-figure job to build on NEAR. My parents think I joined a cult.", 2 * hour, reactions(89, 45, 7, 2)},
		{`I tell people I'm "in tech". I'm actually just really good at copy-pasting from Stack Overflow.`, day, reactions(120, 34, 2, 5)},
	},
	"nearclaw-campus": {
		{"My professor asked if anyone knows what a blockchain is. I gave a 20-minute lecture. I got an F on the actual exam.", 3 * hour, reactions(54, 18, 22, 0)},
		{`I built a dApp for my thesis and my advisor said "just use a database". He was probably right.`, 3 * day, reactions(33, 12, 41, 1)},
	},
	"nearclaw-work": {
		{"My company moved to Web3 and nobody understands what we do anymore, including the CEO.", 6 * hour, reactions(76, 29, 14, 3)},
		{"I automated my entire job with a script 6 months ago. They think I work 60 hour weeks.", 2 * day, reactions(140, 87, 5, 11)},
	},
	"nearclaw-general": {
		{`I accidentally sent 500 NEAR to the wrong address and told everyone it was a "strategic burn".`, 4 * hour, reactions(28, 65, 12, 4)},
		{"I have 47 browser tabs open. 43 of them are blockchain explorers.", day, reactions(93, 15, 3, 0)},
	},
}

var seedMatches = []models.Match{
	{ID: "anon-7f3a2b", CompatibilityScore: 92, Status: models.StatusPending},
	{ID: "anon-e91c4d", CompatibilityScore: 87, Status: models.StatusPending},
	{ID: "anon-1a8f5e", CompatibilityScore: 78, Status: models.StatusPending},
	{ID: "anon-c42d9a", CompatibilityScore: 95, Status: models.StatusAccepted, GroupID: "nearclaw-chat-anon-c42d9a"},
	{ID: "anon-b8e6f1", CompatibilityScore: 83, Status: models.StatusAccepted, GroupID: "nearclaw-chat-anon-b8e6f1"},
}

type seedMessage struct {
	id     string
	text   string
	sender string
	age    int64
}

var seedMessages = map[string][]seedMessage{
	"nearclaw-chat-anon-c42d9a": {
		{"m1", "Hey! 95% match, that's wild 👀", "anon-c42d9a", 2 * hour},
		{"m2", "Right?? The TEE doesn't lie I guess", models.SelfSender, 19 * hour / 10},
		{"m3", "So what pools are you in? I'm guessing crypto for sure", "anon-c42d9a", 3 * hour / 2},
		{"m4", "Lol guilty. Also life confessions. Some of those hit hard.", models.SelfSender, hour},
	},
	"nearclaw-chat-anon-b8e6f1": {
		{"m5", "Matched! This anonymous chat thing is actually cool", "anon-b8e6f1", day},
		{"m6", "Yeah encrypted channels are the way. What brings you to UnMasked?", models.SelfSender, 23 * hour},
	},
}
