package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentLength bounds message content, in runes.
const MaxContentLength = 4000

// Message represents a chat message in the global log. Messages are
// immutable once stored and carry only the sender's id, never a copy of
// the sender's profile.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	SenderID  string    `json:"senderId" db:"sender_id"`
	Content   string    `json:"content" db:"content"`
	FileURL   *string   `json:"fileUrl" db:"file_url"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// MessageDraft is a message not yet accepted by the store.
type MessageDraft struct {
	SenderID string
	Content  string
	FileURL  *string
}

// Normalize trims the attachment and drops it when blank.
func (d MessageDraft) Normalize() MessageDraft {
	if d.FileURL != nil {
		url := strings.TrimSpace(*d.FileURL)
		if url == "" {
			d.FileURL = nil
		} else {
			d.FileURL = &url
		}
	}
	return d
}

// HasBody reports whether the draft carries text or an attachment.
func (d MessageDraft) HasBody() bool {
	return strings.TrimSpace(d.Content) != "" || (d.FileURL != nil && *d.FileURL != "")
}

// ContentTooLong reports whether the content exceeds MaxContentLength.
func (d MessageDraft) ContentTooLong() bool {
	return utf8.RuneCountInString(d.Content) > MaxContentLength
}

// Less orders messages for replay: timestamp first, id as tiebreak.
func (m Message) Less(other Message) bool {
	if m.Timestamp.Equal(other.Timestamp) {
		return m.ID < other.ID
	}
	return m.Timestamp.Before(other.Timestamp)
}
