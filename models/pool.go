package models

import "sort"

// Pool is a statically configured confession category.
type Pool struct {
	Key         string `json:"key"`
	GroupID     string `json:"id"`
	DisplayName string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// ConfessionPools is keyed by the short pool key used in routing.
var ConfessionPools = map[string]Pool{
	"crypto":  {Key: "crypto", GroupID: "nearclaw-crypto", DisplayName: "Crypto Confessions", Emoji: "🪙", Description: "Rug pulls, moon dreams, and wallet regrets"},
	"dating":  {Key: "dating", GroupID: "nearclaw-dating", DisplayName: "Dating Confessions", Emoji: "💘", Description: "Love, heartbreak, and everything in between"},
	"life":    {Key: "life", GroupID: "nearclaw-life", DisplayName: "Life Confessions", Emoji: "🌊", Description: "The stuff you can't tell anyone IRL"},
	"campus":  {Key: "campus", GroupID: "nearclaw-campus", DisplayName: "Campus Confessions", Emoji: "🎓", Description: "University life unfiltered"},
	"work":    {Key: "work", GroupID: "nearclaw-work", DisplayName: "Work Confessions", Emoji: "💼", Description: "Office drama and career chaos"},
	"general": {Key: "general", GroupID: "nearclaw-general", DisplayName: "General", Emoji: "💬", Description: "Anything goes, judgment-free zone"},
}

// LookupPool resolves a pool by its key or by its provider group id.
func LookupPool(ref string) (Pool, bool) {
	if pool, ok := ConfessionPools[ref]; ok {
		return pool, true
	}
	for _, pool := range ConfessionPools {
		if pool.GroupID == ref {
			return pool, true
		}
	}
	return Pool{}, false
}

// IsPoolGroup reports whether groupID belongs to a configured pool.
func IsPoolGroup(groupID string) bool {
	for _, pool := range ConfessionPools {
		if pool.GroupID == groupID {
			return true
		}
	}
	return false
}

// SortedPools returns every configured pool ordered by key.
func SortedPools() []Pool {
	pools := make([]Pool, 0, len(ConfessionPools))
	for _, pool := range ConfessionPools {
		pools = append(pools, pool)
	}
	sort.Slice(pools, func(i, j int) bool { return pools[i].Key < pools[j].Key })
	return pools
}
