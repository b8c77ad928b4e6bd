package models

import "time"

// Conversation is a thread between a student and a supercoach
type Conversation struct {
	ID             string    `json:"id" yaml:"id"`
	StudentID      int       `json:"student_id" yaml:"student_id"`
	SuperCoachID   string    `json:"supercoach_id" yaml:"supercoach_id"`
	Title          string    `json:"title" yaml:"title"`
	LastMessage    *Message  `json:"last_message,omitempty" yaml:"last_message,omitempty"`
	MessageCount   int       `json:"message_count" yaml:"message_count"`
	UnreadCount    int       `json:"unread_count" yaml:"unread_count"`
	NeedsAttention bool      `json:"needs_attention" yaml:"needs_attention"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
}

// Message is a single chat message
type Message struct {
	Sender  string    `json:"sender" yaml:"sender"`
	Content string    `json:"content" yaml:"content"`
	SentAt  time.Time `json:"sent_at" yaml:"sent_at"`
}

// ConversationFilter is the optional query of GET /conversations
type ConversationFilter struct {
	StudentID    int    `url:"student_id,omitempty"`
	SuperCoachID string `url:"coach_id,omitempty"`
}
