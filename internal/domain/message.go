package domain

import "time"

// MaxMessageLength bounds message content
const MaxMessageLength = 5000

// Message represents a single direct message inside a conversation.
// CreatedAt (with ID as tie-break) is the sole ordering key; it never
// changes after creation, edits only touch Content and EditedAt.
type Message struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ConversationID uint64     `gorm:"column:conversation_id;index:idx_conv_created,priority:1" json:"conversation_id"`
	SenderID       string     `gorm:"column:sender_id;size:64;index" json:"sender_id"`
	RecipientID    string     `gorm:"column:recipient_id;size:64;index:idx_recipient_unread,priority:1" json:"recipient_id"`
	Content        string     `gorm:"column:content;type:text" json:"content"`
	IsRead         bool       `gorm:"column:is_read;not null;default:false;index:idx_recipient_unread,priority:2" json:"is_read"`
	EditedAt       *time.Time `gorm:"column:edited_at" json:"edited_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;index:idx_conv_created,priority:2" json:"created_at"`
}

func (Message) TableName() string {
	return "dm_messages"
}

// SendMessageRequest send-message request body
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// EditMessageRequest edit-message request body
type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID             uint64     `json:"id"`
	ConversationID uint64     `json:"conversation_id"`
	Content        string     `json:"content"`
	SenderID       string     `json:"sender_id"`
	RecipientID    string     `json:"recipient_id"`
	IsOwnMessage   bool       `json:"is_own_message"`
	IsRead         bool       `json:"is_read"`
	CreatedAt      time.Time  `json:"created_at"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
}

// ToResponse shapes the message for viewerID
func (m *Message) ToResponse(viewerID string) *MessageResponse {
	return &MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Content:        m.Content,
		SenderID:       m.SenderID,
		RecipientID:    m.RecipientID,
		IsOwnMessage:   m.SenderID == viewerID,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
		EditedAt:       m.EditedAt,
	}
}
