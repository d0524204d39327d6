package domain

import "time"

// Message is an inbox message normalized for task extraction. It is not
// stored.
type Message struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Sender      string    `json:"sender"`
	ReceivedAt  time.Time `json:"receivedAt"`
	BodyExcerpt string    `json:"bodyExcerpt"`
}

// FetchQuery bounds one inbox read.
type FetchQuery struct {
	Since       time.Time
	MaxMessages int
	BodyLimit   int
}
