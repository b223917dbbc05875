package models

// Confession is a pool-owned record as held in the local feed.
type Confession struct {
	ID            string         `json:"id"`
	Text          string         `json:"text"`
	Timestamp     int64          `json:"timestamp"` // Unix millis
	PoolID        string         `json:"poolId"`
	ContentHandle string         `json:"ipfsHash"`
	Reactions     map[string]int `json:"reactions"`

	// TransactionID is the provider transaction that committed a locally
	// published confession. Empty for fetched items.
	TransactionID string `json:"-"`
}

// ConfessionRecord is the payload uploaded to the provider. It has no author field.
type ConfessionRecord struct {
	Text      string         `json:"text"`
	Timestamp int64          `json:"timestamp"`
	Reactions map[string]int `json:"reactions,omitempty"`
}

// ZeroReactions returns a fresh counter map with every symbol at zero.
func ZeroReactions() map[string]int {
	reactions := make(map[string]int, len(ReactionSymbols))
	for _, symbol := range ReactionSymbols {
		reactions[symbol] = 0
	}
	return reactions
}

// IsReactionSymbol reports whether symbol belongs to the closed reaction set.
func IsReactionSymbol(symbol string) bool {
	for _, s := range ReactionSymbols {
		if s == symbol {
			return true
		}
	}
	return false
}
