package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/openacademy/messaging-backend/internal/common"
	"github.com/openacademy/messaging-backend/internal/domain"
	"github.com/openacademy/messaging-backend/internal/repository"
	"github.com/openacademy/messaging-backend/internal/ws"
	"gorm.io/gorm"
)

// Notifier pushes real-time events to users. Satisfied by *ws.Hub.
type Notifier interface {
	SendToUser(userID string, event *ws.Event)
}

// MessageService business logic for the message log
type MessageService interface {
	Append(conversationID uint64, senderID, content string) (*domain.MessageResponse, error)
	Edit(messageID uint64, editorID, newContent string) (*domain.MessageResponse, error)
	List(conversationID uint64, callerID, cursorToken string, limit int, ascending bool) ([]*domain.MessageResponse, *common.Meta, error)
	MarkConversationRead(conversationID uint64, readerID string) error
	MarkAllRead(readerID string) error
}

type messageService struct {
	repo     repository.MessageRepository
	convRepo repository.ConversationRepository
	notifier Notifier
}

// NewMessageService creates a new MessageService
func NewMessageService(repo repository.MessageRepository, convRepo repository.ConversationRepository, notifier Notifier) MessageService {
	return &messageService{
		repo:     repo,
		convRepo: convRepo,
		notifier: notifier,
	}
}

func validateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", fmt.Errorf("%w: content must not be empty", common.ErrInvalidMessage)
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxMessageLength {
		return "", fmt.Errorf("%w: content exceeds %d characters", common.ErrInvalidMessage, domain.MaxMessageLength)
	}
	return trimmed, nil
}

// Append stores a new message. The message insert, the conversation
// preview refresh and the recipient's unread increment land in one
// transaction; the new-message event is emitted only after commit and
// never rolls the append back.
func (s *messageService) Append(conversationID uint64, senderID, content string) (*domain.MessageResponse, error) {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrConversationNotFound
		}
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, fmt.Errorf("%w: sender is not a participant", common.ErrInvalidMessage)
	}

	trimmed, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		RecipientID:    conv.OtherParticipant(senderID),
		Content:        trimmed,
		IsRead:         false,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.Create(msg); err != nil {
		return nil, err
	}

	s.notifyNewMessage(msg)

	return msg.ToResponse(senderID), nil
}

// notifyNewMessage pushes the new-message event and the recipient's
// refreshed unread badge, best-effort
func (s *messageService) notifyNewMessage(msg *domain.Message) {
	if s.notifier == nil {
		return
	}
	s.notifier.SendToUser(msg.RecipientID, &ws.Event{
		Type: ws.EventNewMessage,
		Payload: &ws.NewMessagePayload{
			ConversationID: msg.ConversationID,
			MessageID:      msg.ID,
			SenderID:       msg.SenderID,
			RecipientID:    msg.RecipientID,
			CreatedAt:      msg.CreatedAt.Format(time.RFC3339Nano),
		},
	})
	if total, err := s.convRepo.UnreadTotal(msg.RecipientID); err == nil {
		s.notifier.SendToUser(msg.RecipientID, &ws.Event{
			Type:    ws.EventUnreadCount,
			Payload: map[string]int64{"unread_count": total},
		})
	}
}

// Edit replaces a message's content. Only the original sender may edit;
// ordering (created_at) never changes.
func (s *messageService) Edit(messageID uint64, editorID, newContent string) (*domain.MessageResponse, error) {
	msg, err := s.repo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMessageNotFound
		}
		return nil, err
	}
	if msg.SenderID != editorID {
		return nil, common.ErrForbidden
	}

	trimmed, err := validateContent(newContent)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.repo.Edit(messageID, trimmed, now); err != nil {
		return nil, err
	}

	msg.Content = trimmed
	msg.EditedAt = &now
	return msg.ToResponse(editorID), nil
}

// List pages through a conversation's messages with an opaque keyset
// cursor; repeated pagination never reorders under concurrent appends.
func (s *messageService) List(conversationID uint64, callerID, cursorToken string, limit int, ascending bool) ([]*domain.MessageResponse, *common.Meta, error) {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, common.ErrConversationNotFound
		}
		return nil, nil, err
	}
	if !conv.HasParticipant(callerID) {
		return nil, nil, common.ErrForbidden
	}

	if limit < 1 || limit > 100 {
		limit = 50
	}
	cursor, err := repository.DecodeCursor(cursorToken)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.repo.ListByConversation(conversationID, cursor, limit, ascending)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*domain.MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = m.ToResponse(callerID)
	}

	meta := &common.Meta{
		Limit:   limit,
		HasMore: len(messages) == limit,
	}
	if len(messages) > 0 {
		meta.NextCursor = repository.EncodeCursor(messages[len(messages)-1])
	}
	return responses, meta, nil
}

// MarkConversationRead flips the reader's unread messages and zeroes
// their counter. Idempotent; messages appended after the read boundary
// stay unread.
func (s *messageService) MarkConversationRead(conversationID uint64, readerID string) error {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrConversationNotFound
		}
		return err
	}
	if !conv.HasParticipant(readerID) {
		return common.ErrForbidden
	}

	if _, err := s.repo.MarkConversationRead(conversationID, readerID); err != nil {
		return err
	}

	s.notifyUnreadTotal(readerID)
	return nil
}

// MarkAllRead clears the reader's unread state in every conversation
func (s *messageService) MarkAllRead(readerID string) error {
	if _, err := s.repo.MarkAllRead(readerID); err != nil {
		return err
	}
	s.notifyUnreadTotal(readerID)
	return nil
}

func (s *messageService) notifyUnreadTotal(userID string) {
	if s.notifier == nil {
		return
	}
	if total, err := s.convRepo.UnreadTotal(userID); err == nil {
		s.notifier.SendToUser(userID, &ws.Event{
			Type:    ws.EventUnreadCount,
			Payload: map[string]int64{"unread_count": total},
		})
	}
}
