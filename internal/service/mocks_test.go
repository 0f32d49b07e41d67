package service

import (
	"time"

	"github.com/openacademy/messaging-backend/internal/domain"
	"github.com/openacademy/messaging-backend/internal/repository"
	"github.com/openacademy/messaging-backend/internal/ws"
	"github.com/stretchr/testify/mock"
)

type mockConversationRepo struct {
	mock.Mock
}

func (m *mockConversationRepo) CreateOrGet(userA, userB string) (*domain.Conversation, bool, error) {
	args := m.Called(userA, userB)
	conv, _ := args.Get(0).(*domain.Conversation)
	return conv, args.Bool(1), args.Error(2)
}

func (m *mockConversationRepo) FindByID(id uint64) (*domain.Conversation, error) {
	args := m.Called(id)
	conv, _ := args.Get(0).(*domain.Conversation)
	return conv, args.Error(1)
}

func (m *mockConversationRepo) FindByPair(userA, userB string) (*domain.Conversation, error) {
	args := m.Called(userA, userB)
	conv, _ := args.Get(0).(*domain.Conversation)
	return conv, args.Error(1)
}

func (m *mockConversationRepo) ListForUser(userID string, includeArchived bool) ([]*domain.Conversation, map[uint64]*domain.ConversationParticipant, error) {
	args := m.Called(userID, includeArchived)
	convs, _ := args.Get(0).([]*domain.Conversation)
	states, _ := args.Get(1).(map[uint64]*domain.ConversationParticipant)
	return convs, states, args.Error(2)
}

func (m *mockConversationRepo) ParticipantState(conversationID uint64, userID string) (*domain.ConversationParticipant, error) {
	args := m.Called(conversationID, userID)
	state, _ := args.Get(0).(*domain.ConversationParticipant)
	return state, args.Error(1)
}

func (m *mockConversationRepo) ResetUnread(conversationID uint64, userID string) error {
	return m.Called(conversationID, userID).Error(0)
}

func (m *mockConversationRepo) SetActive(conversationID uint64, userID string, active bool) error {
	return m.Called(conversationID, userID, active).Error(0)
}

func (m *mockConversationRepo) UnreadTotal(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(msg *domain.Message) error {
	return m.Called(msg).Error(0)
}

func (m *mockMessageRepo) FindByID(id uint64) (*domain.Message, error) {
	args := m.Called(id)
	msg, _ := args.Get(0).(*domain.Message)
	return msg, args.Error(1)
}

func (m *mockMessageRepo) Edit(id uint64, content string, editedAt time.Time) error {
	return m.Called(id, content, editedAt).Error(0)
}

func (m *mockMessageRepo) ListByConversation(conversationID uint64, cursor *repository.Cursor, limit int, ascending bool) ([]*domain.Message, error) {
	args := m.Called(conversationID, cursor, limit, ascending)
	msgs, _ := args.Get(0).([]*domain.Message)
	return msgs, args.Error(1)
}

func (m *mockMessageRepo) MarkConversationRead(conversationID uint64, readerID string) (int64, error) {
	args := m.Called(conversationID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) MarkAllRead(readerID string) (int64, error) {
	args := m.Called(readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) CountUnread(conversationID uint64, userID string) (int64, error) {
	args := m.Called(conversationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(id string) (*domain.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByUsername(username string) (*domain.User, error) {
	args := m.Called(username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendToUser(userID string, event *ws.Event) {
	m.Called(userID, event)
}
