package repository

import (
	"errors"
	"time"

	"github.com/openacademy/messaging-backend/internal/domain"
	"gorm.io/gorm"
)

// ConversationRepository conversation registry data access
type ConversationRepository interface {
	// CreateOrGet resolves the conversation for an unordered user pair,
	// creating it if absent. The create is atomic with respect to the
	// lookup: a concurrent-create loser detects the duplicate-key
	// conflict and returns the winner's row. The returned bool reports
	// whether this call created the row.
	CreateOrGet(userA, userB string) (*domain.Conversation, bool, error)
	FindByID(id uint64) (*domain.Conversation, error)
	FindByPair(userA, userB string) (*domain.Conversation, error)
	ListForUser(userID string, includeArchived bool) ([]*domain.Conversation, map[uint64]*domain.ConversationParticipant, error)
	ParticipantState(conversationID uint64, userID string) (*domain.ConversationParticipant, error)
	ResetUnread(conversationID uint64, userID string) error
	SetActive(conversationID uint64, userID string, active bool) error
	UnreadTotal(userID string) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) CreateOrGet(userA, userB string) (*domain.Conversation, bool, error) {
	low, high := domain.CanonicalPair(userA, userB)

	// Fast path: the pair almost always exists already
	existing, err := r.FindByPair(userA, userB)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	conv := &domain.Conversation{
		ParticipantLow:  low,
		ParticipantHigh: high,
	}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		// Both unread counters start at 0; rows ride in the same tx so a
		// losing concurrent create rolls back completely.
		participants := []*domain.ConversationParticipant{
			{ConversationID: conv.ID, UserID: low, UnreadCount: 0, IsActive: true},
			{ConversationID: conv.ID, UserID: high, UnreadCount: 0, IsActive: true},
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race on idx_dm_pair: return the winner's row
			winner, ferr := r.FindByPair(userA, userB)
			if ferr != nil {
				return nil, false, ferr
			}
			return winner, false, nil
		}
		return nil, false, err
	}
	return conv, true, nil
}

func (r *conversationRepository) FindByID(id uint64) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.Where("id = ?", id).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) FindByPair(userA, userB string) (*domain.Conversation, error) {
	low, high := domain.CanonicalPair(userA, userB)
	var conv domain.Conversation
	err := r.db.Where("participant_low = ? AND participant_high = ?", low, high).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListForUser returns the user's conversations ordered by last message
// time descending; conversations without messages sort last, newest
// created first among themselves.
func (r *conversationRepository) ListForUser(userID string, includeArchived bool) ([]*domain.Conversation, map[uint64]*domain.ConversationParticipant, error) {
	stateQuery := r.db.Where("user_id = ?", userID)
	if !includeArchived {
		stateQuery = stateQuery.Where("is_active = ?", true)
	}

	var states []*domain.ConversationParticipant
	if err := stateQuery.Find(&states).Error; err != nil {
		return nil, nil, err
	}
	if len(states) == 0 {
		return nil, map[uint64]*domain.ConversationParticipant{}, nil
	}

	stateByConv := make(map[uint64]*domain.ConversationParticipant, len(states))
	ids := make([]uint64, 0, len(states))
	for _, st := range states {
		stateByConv[st.ConversationID] = st
		ids = append(ids, st.ConversationID)
	}

	var conversations []*domain.Conversation
	err := r.db.Where("id IN ?", ids).
		Order("last_message_at IS NULL, last_message_at DESC, created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, nil, err
	}
	return conversations, stateByConv, nil
}

func (r *conversationRepository) ParticipantState(conversationID uint64, userID string) (*domain.ConversationParticipant, error) {
	var state domain.ConversationParticipant
	err := r.db.Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ResetUnread zeroes the reader's counter. Idempotent: a second call is
// a no-op.
func (r *conversationRepository) ResetUnread(conversationID uint64, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.ConversationParticipant{}).
			Where("conversation_id = ? AND user_id = ?", conversationID, userID).
			UpdateColumn("unread_count", 0).Error
		if err != nil {
			return err
		}
		return tx.Model(&domain.Conversation{}).
			Where("id = ?", conversationID).
			UpdateColumn("updated_at", time.Now()).Error
	})
}

// SetActive toggles the archival flag for one participant only; the
// other participant's view and both unread counters are untouched. The
// conversation's updated_at records the state change.
func (r *conversationRepository) SetActive(conversationID uint64, userID string, active bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.ConversationParticipant{}).
			Where("conversation_id = ? AND user_id = ?", conversationID, userID).
			Update("is_active", active).Error
		if err != nil {
			return err
		}
		return tx.Model(&domain.Conversation{}).
			Where("id = ?", conversationID).
			UpdateColumn("updated_at", time.Now()).Error
	})
}

// UnreadTotal sums the user's unread counters across all conversations
func (r *conversationRepository) UnreadTotal(userID string) (int64, error) {
	var total int64
	err := r.db.Model(&domain.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&total).Error
	return total, err
}
