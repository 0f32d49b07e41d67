package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openacademy/messaging-backend/internal/common"
	"github.com/openacademy/messaging-backend/internal/domain"
	"github.com/openacademy/messaging-backend/internal/repository"
	"github.com/openacademy/messaging-backend/pkg/cache"
	"gorm.io/gorm"
)

// ConversationService business logic for the conversation registry
type ConversationService interface {
	ResolveOrCreate(callerID, recipientID string) (*domain.ConversationResponse, error)
	List(userID string, includeArchived bool) ([]*domain.ConversationResponse, error)
	SetActive(conversationID uint64, userID string, active bool) error
	UnreadTotal(userID string) (int64, error)
}

type conversationService struct {
	repo     repository.ConversationRepository
	userRepo repository.UserRepository
	cache    cache.Service
}

// NewConversationService creates a new ConversationService
func NewConversationService(repo repository.ConversationRepository, userRepo repository.UserRepository, cacheService cache.Service) ConversationService {
	return &conversationService{
		repo:     repo,
		userRepo: userRepo,
		cache:    cacheService,
	}
}

// lookupUser resolves a user ID to an eligible (active) account,
// consulting the profile cache first
func (s *conversationService) lookupUser(userID string) (*domain.User, error) {
	ctx := context.Background()

	if s.cache != nil && s.cache.IsAvailable() {
		var cached domain.User
		if err := s.cache.GetUser(ctx, userID, &cached); err == nil && cached.ID != "" {
			if !cached.IsActive {
				return nil, common.ErrUnknownParticipant
			}
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUnknownParticipant
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrUnknownParticipant
	}

	if s.cache != nil && s.cache.IsAvailable() {
		s.cache.SetUser(ctx, userID, user) //nolint:errcheck
	}
	return user, nil
}

// ResolveOrCreate returns the single conversation for the caller and
// recipient, creating it on first contact. (A,B) and (B,A) always
// resolve to the same conversation.
func (s *conversationService) ResolveOrCreate(callerID, recipientID string) (*domain.ConversationResponse, error) {
	if callerID == "" || recipientID == "" {
		return nil, fmt.Errorf("%w: participant id must not be empty", common.ErrInvalidParticipants)
	}
	if callerID == recipientID {
		return nil, fmt.Errorf("%w: cannot start a conversation with yourself", common.ErrInvalidParticipants)
	}

	if _, err := s.lookupUser(callerID); err != nil {
		return nil, err
	}
	recipient, err := s.lookupUser(recipientID)
	if err != nil {
		return nil, err
	}

	conv, _, err := s.repo.CreateOrGet(callerID, recipientID)
	if err != nil {
		return nil, err
	}

	state, err := s.repo.ParticipantState(conv.ID, callerID)
	if err != nil {
		return nil, err
	}

	resp := conv.ToResponse(callerID, state)
	resp.User = recipient.ToSummary()
	return resp, nil
}

// List returns the user's conversations, most recent message first;
// conversations without messages sort last by creation time.
func (s *conversationService) List(userID string, includeArchived bool) ([]*domain.ConversationResponse, error) {
	conversations, states, err := s.repo.ListForUser(userID, includeArchived)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		resp := conv.ToResponse(userID, states[conv.ID])

		otherID := conv.OtherParticipant(userID)
		if other, err := s.lookupUser(otherID); err == nil {
			resp.User = other.ToSummary()
		} else if !errors.Is(err, common.ErrUnknownParticipant) {
			return nil, err
		}
		// Deactivated counterparts still list with their profile omitted

		responses = append(responses, resp)
	}
	return responses, nil
}

// SetActive toggles the caller's archival flag on a conversation.
// Unread counters and the other participant's view are untouched.
func (s *conversationService) SetActive(conversationID uint64, userID string, active bool) error {
	conv, err := s.repo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrConversationNotFound
		}
		return err
	}
	if !conv.HasParticipant(userID) {
		return common.ErrForbidden
	}
	return s.repo.SetActive(conversationID, userID, active)
}

// UnreadTotal returns the user's unread message count across all
// conversations (inbox badge)
func (s *conversationService) UnreadTotal(userID string) (int64, error) {
	return s.repo.UnreadTotal(userID)
}
