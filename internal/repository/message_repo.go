package repository

import (
	"time"

	"github.com/openacademy/messaging-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message log data access
type MessageRepository interface {
	// Create appends the message and, in the same transaction, refreshes
	// the conversation's last-message snapshot and atomically increments
	// the recipient's unread counter. Either everything lands or nothing
	// does; message existence and registry state never diverge.
	Create(msg *domain.Message) error
	FindByID(id uint64) (*domain.Message, error)
	Edit(id uint64, content string, editedAt time.Time) error
	ListByConversation(conversationID uint64, cursor *Cursor, limit int, ascending bool) ([]*domain.Message, error)
	// MarkConversationRead flips is_read on the reader's unread messages
	// and zeroes their counter in one transaction. Messages appended
	// after the UPDATE's snapshot stay unread. Returns the number of
	// messages flipped.
	MarkConversationRead(conversationID uint64, readerID string) (int64, error)
	MarkAllRead(readerID string) (int64, error)
	CountUnread(conversationID uint64, userID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *domain.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		// Overwrite the preview snapshot
		err := tx.Model(&domain.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Updates(map[string]interface{}{
				"last_message_content": domain.TruncatePreview(msg.Content),
				"last_message_sender":  msg.SenderID,
				"last_message_at":      msg.CreatedAt,
				"updated_at":           time.Now(),
			}).Error
		if err != nil {
			return err
		}

		// Atomic increment on the stored counter, recipient only.
		// Never read-then-write: concurrent sends must not lose bumps.
		return tx.Model(&domain.ConversationParticipant{}).
			Where("conversation_id = ? AND user_id = ?", msg.ConversationID, msg.RecipientID).
			UpdateColumn("unread_count", gorm.Expr("unread_count + ?", 1)).Error
	})
}

func (r *messageRepository) FindByID(id uint64) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Edit replaces content and stamps edited_at; created_at and therefore
// ordering never change.
func (r *messageRepository) Edit(id uint64, content string, editedAt time.Time) error {
	return r.db.Model(&domain.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":   content,
			"edited_at": editedAt,
		}).Error
}

func (r *messageRepository) ListByConversation(conversationID uint64, cursor *Cursor, limit int, ascending bool) ([]*domain.Message, error) {
	query := r.db.Where("conversation_id = ?", conversationID)

	if cursor != nil {
		if ascending {
			query = query.Where("created_at > ? OR (created_at = ? AND id > ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("created_at < ? OR (created_at = ? AND id < ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		}
	}

	order := "created_at DESC, id DESC"
	if ascending {
		order = "created_at ASC, id ASC"
	}

	var messages []*domain.Message
	err := query.Order(order).Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *messageRepository) MarkConversationRead(conversationID uint64, readerID string) (int64, error) {
	var flipped int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Message{}).
			Where("conversation_id = ? AND recipient_id = ? AND is_read = ?", conversationID, readerID, false).
			Update("is_read", true)
		if result.Error != nil {
			return result.Error
		}
		flipped = result.RowsAffected

		err := tx.Model(&domain.ConversationParticipant{}).
			Where("conversation_id = ? AND user_id = ?", conversationID, readerID).
			UpdateColumn("unread_count", 0).Error
		if err != nil {
			return err
		}
		return tx.Model(&domain.Conversation{}).
			Where("id = ?", conversationID).
			UpdateColumn("updated_at", time.Now()).Error
	})
	return flipped, err
}

// MarkAllRead clears the reader's unread state across every conversation
func (r *messageRepository) MarkAllRead(readerID string) (int64, error) {
	var flipped int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Message{}).
			Where("recipient_id = ? AND is_read = ?", readerID, false).
			Update("is_read", true)
		if result.Error != nil {
			return result.Error
		}
		flipped = result.RowsAffected

		return tx.Model(&domain.ConversationParticipant{}).
			Where("user_id = ?", readerID).
			UpdateColumn("unread_count", 0).Error
	})
	return flipped, err
}

func (r *messageRepository) CountUnread(conversationID uint64, userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Where("conversation_id = ? AND recipient_id = ? AND is_read = ?", conversationID, userID, false).
		Count(&count).Error
	return count, err
}
