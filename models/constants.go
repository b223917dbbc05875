package models

// ✅ Reaction symbols (closed set)
const (
	ReactionHeart = "❤️"
	ReactionFire  = "🔥"
	ReactionThink = "🤔"
	ReactionGhost = "👻"
)

// ReactionSymbols lists every reaction a confession can carry, in display order.
var ReactionSymbols = []string{ReactionHeart, ReactionFire, ReactionThink, ReactionGhost}

// ✅ Match Statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// ✅ Group id prefixes used when addressing the capability provider
const (
	PoolGroupPrefix        = "nearclaw-"
	ChatGroupPrefix        = "nearclaw-chat-"
	MatchesGroupPrefix     = "nearclaw-matches-"
	PreferencesGroupPrefix = "nearclaw-prefs-"
)

// MaxConfessionLength is the hard cap on confession text, in characters.
const MaxConfessionLength = 500

// SelfSender marks seeded chat messages authored by the viewing actor.
const SelfSender = "__SELF__"

// ChatGroupID returns the provider group holding the messages of a match.
func ChatGroupID(matchID string) string {
	return ChatGroupPrefix + matchID
}

// MatchesGroupID returns the provider group holding an actor's computed matches.
func MatchesGroupID(accountID string) string {
	return MatchesGroupPrefix + accountID
}

// PreferencesGroupID returns the provider group holding an actor's match preferences.
func PreferencesGroupID(accountID string) string {
	return PreferencesGroupPrefix + accountID
}
