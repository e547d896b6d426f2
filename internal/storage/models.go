package storage

import "time"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Vocabulary defaults applied when a field is left empty.
const (
	DefaultWordType   = "noun"
	DefaultDifficulty = "beginner"
)

// VocabularyItem is a learned word or phrase.
type VocabularyItem struct {
	ID                string    `json:"id"`       // UUID
	Spanish           string    `json:"spanish"`  // As entered
	SpanishNormalized string    `json:"-"`        // Lookup key for duplicate detection
	Chinese           string    `json:"chinese"`  // Translation
	Example           string    `json:"example"`
	Notes             string    `json:"notes"`
	WordType          string    `json:"wordType"`
	Tags              []string  `json:"tags"`
	Theme             string    `json:"theme"`
	Difficulty        string    `json:"difficulty"` // beginner, intermediate or advanced
	CreatedAt         time.Time `json:"createdAt"`
	LastReviewed      time.Time `json:"lastReviewed"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ChatMessage is one turn of the conversation. Rows are never updated.
type ChatMessage struct {
	ID        string    `json:"id"`   // UUID
	Content   string    `json:"content"`
	Role      string    `json:"role"` // user or assistant
	Timestamp time.Time `json:"timestamp"`
	// HTML is Content rendered from Markdown, filled only on request.
	HTML string `json:"html,omitempty"`
}

// Sort keys accepted by VocabularyFilter.SortBy.
const (
	SortByCreatedAt    = "createdAt"
	SortBySpanish      = "spanish"
	SortByChinese      = "chinese"
	SortByLastReviewed = "lastReviewed"
)

// VocabularyFilter narrows and orders a vocabulary listing.
// The zero value lists everything in creation order.
type VocabularyFilter struct {
	Search    string // Case-insensitive substring of spanish, chinese or example
	SortBy    string
	SortOrder string // asc or desc
	Limit     int    // 0 means no limit
	Offset    int
}
