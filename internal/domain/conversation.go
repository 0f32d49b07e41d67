package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxPreviewLength caps the denormalized last-message snapshot
const MaxPreviewLength = 500

// Conversation represents a 1:1 conversation between two users.
// The participant pair is stored canonicalized (lexicographically sorted)
// and protected by a composite unique index, so (A,B) and (B,A) always
// resolve to the same row and concurrent creates collapse to one record.
type Conversation struct {
	ID              uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ParticipantLow  string `gorm:"column:participant_low;size:64;uniqueIndex:idx_dm_pair,priority:1" json:"-"`
	ParticipantHigh string `gorm:"column:participant_high;size:64;uniqueIndex:idx_dm_pair,priority:2" json:"-"`

	// Last-message snapshot for conversation-list previews.
	// LastMessageAt is NULL until the first message is sent.
	LastMessageContent string     `gorm:"column:last_message_content;size:500" json:"-"`
	LastMessageSender  string     `gorm:"column:last_message_sender;size:64" json:"-"`
	LastMessageAt      *time.Time `gorm:"column:last_message_at;index" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index" json:"updated_at"`
}

func (Conversation) TableName() string {
	return "dm_conversations"
}

// Participants returns the canonical participant pair
func (c *Conversation) Participants() [2]string {
	return [2]string{c.ParticipantLow, c.ParticipantHigh}
}

// HasParticipant reports whether userID is a member of the conversation
func (c *Conversation) HasParticipant(userID string) bool {
	return userID == c.ParticipantLow || userID == c.ParticipantHigh
}

// OtherParticipant returns the counterpart of userID, or "" if userID
// is not a member
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.ParticipantLow:
		return c.ParticipantHigh
	case c.ParticipantHigh:
		return c.ParticipantLow
	}
	return ""
}

// ConversationParticipant holds per-member conversation state.
// Unread counters live here as single rows so increments and resets are
// atomic single-row UPDATEs, never read-modify-write.
type ConversationParticipant struct {
	ID             uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ConversationID uint64 `gorm:"column:conversation_id;uniqueIndex:idx_conv_user,priority:1" json:"-"`
	UserID         string `gorm:"column:user_id;size:64;uniqueIndex:idx_conv_user,priority:2;index" json:"-"`
	UnreadCount    int    `gorm:"column:unread_count;not null;default:0" json:"unread_count"`
	IsActive       bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

func (ConversationParticipant) TableName() string {
	return "dm_conversation_participants"
}

// CanonicalPair sorts two user IDs into the stored (low, high) order
func CanonicalPair(a, b string) (string, string) {
	if strings.Compare(a, b) <= 0 {
		return a, b
	}
	return b, a
}

// TruncatePreview bounds content to MaxPreviewLength runes for the
// last-message snapshot
func TruncatePreview(content string) string {
	if utf8.RuneCountInString(content) <= MaxPreviewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:MaxPreviewLength])
}

// StartConversationRequest resolve-or-create request body
type StartConversationRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
}

// LastMessagePreview denormalized snapshot in list responses
type LastMessagePreview struct {
	Content      string    `json:"content"`
	Timestamp    time.Time `json:"timestamp"`
	SenderID     string    `json:"sender_id"`
	IsOwnMessage bool      `json:"is_own_message"`
}

// ConversationResponse represents a conversation in API responses,
// shaped for the viewing participant
type ConversationResponse struct {
	ID          uint64              `json:"id"`
	User        *UserSummary        `json:"user,omitempty"`
	LastMessage *LastMessagePreview `json:"last_message,omitempty"`
	UnreadCount int                 `json:"unread_count"`
	IsActive    bool                `json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToResponse shapes the conversation for viewerID. The other
// participant's profile is filled in by the service layer.
func (c *Conversation) ToResponse(viewerID string, state *ConversationParticipant) *ConversationResponse {
	resp := &ConversationResponse{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		IsActive:  true,
	}
	if state != nil {
		resp.UnreadCount = state.UnreadCount
		resp.IsActive = state.IsActive
	}
	if c.LastMessageAt != nil {
		resp.LastMessage = &LastMessagePreview{
			Content:      c.LastMessageContent,
			Timestamp:    *c.LastMessageAt,
			SenderID:     c.LastMessageSender,
			IsOwnMessage: c.LastMessageSender == viewerID,
		}
	}
	return resp
}
