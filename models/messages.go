package models

// Message is a single chat line inside a match's chat group.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp int64  `json:"timestamp"`
}
