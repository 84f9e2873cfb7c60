package models

import (
	"time"
)

// User represents an authenticated user together with the profile
// fields interpolated into prompts.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	Age          int       `db:"age" json:"age"`
	Gender       string    `db:"gender" json:"gender"`
	Location     string    `db:"location" json:"location"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Profile is the prompt-facing subset of a user record.
type Profile struct {
	Name     string
	Age      int
	Gender   string
	Location string
}

// Profile extracts the prompt-facing fields of a user.
func (u *User) Profile() Profile {
	return Profile{Name: u.Name, Age: u.Age, Gender: u.Gender, Location: u.Location}
}

// Conversation is an append-only log of messages owned by one user.
type Conversation struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Message roles. A message is immutable once persisted.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one turn (user or assistant) within a conversation.
// The store assigns IDs from a sequence, so ordering by ID is creation
// order even when created_at timestamps collide.
type Message struct {
	ID             int64     `db:"id" json:"-"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	Role           string    `db:"role" json:"role"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// RetrievedPassage is one candidate passage returned by a similarity
// search. Score is a distance: lower means a closer match.
type RetrievedPassage struct {
	Content string  `db:"content" json:"content"`
	Source  string  `db:"source" json:"source"`
	Score   float64 `db:"score" json:"score"`
}
