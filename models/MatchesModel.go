package models

// Match is a computed pairing consumed from the actor's matches group.
type Match struct {
	ID                 string `json:"id"`
	CompatibilityScore int    `json:"compatibilityScore"`
	Status             string `json:"status"`            // pending, accepted, rejected
	GroupID            string `json:"groupId,omitempty"` // chat group once accepted
}

// AgeRange bounds the ages an actor wants to be matched with.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// MatchPreferences is uploaded to the actor's preferences group.
type MatchPreferences struct {
	Interests    []string `json:"interests"`
	Values       []string `json:"values"`
	DealBreakers string   `json:"dealBreakers"`
	AgeRange     AgeRange `json:"ageRange"`
}
