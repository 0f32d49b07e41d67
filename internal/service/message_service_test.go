package service

import (
	"strings"
	"testing"
	"time"

	"github.com/openacademy/messaging-backend/internal/common"
	"github.com/openacademy/messaging-backend/internal/domain"
	"github.com/openacademy/messaging-backend/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConversation() *domain.Conversation {
	return &domain.Conversation{ID: 1, ParticipantLow: "alice", ParticipantHigh: "bob"}
}

func TestAppend(t *testing.T) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	notifier := new(mockNotifier)
	svc := NewMessageService(msgRepo, convRepo, notifier)

	convRepo.On("FindByID", uint64(1)).Return(testConversation(), nil)
	msgRepo.On("Create", mock.MatchedBy(func(m *domain.Message) bool {
		return m.ConversationID == 1 && m.SenderID == "alice" &&
			m.RecipientID == "bob" && m.Content == "hello" && !m.IsRead
	})).Return(nil)
	convRepo.On("UnreadTotal", "bob").Return(int64(1), nil)
	notifier.On("SendToUser", "bob", mock.MatchedBy(func(e *ws.Event) bool {
		return e.Type == ws.EventNewMessage
	})).Once()
	notifier.On("SendToUser", "bob", mock.MatchedBy(func(e *ws.Event) bool {
		return e.Type == ws.EventUnreadCount
	})).Once()

	resp, err := svc.Append(1, "alice", "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.True(t, resp.IsOwnMessage)

	msgRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAppend_Validation(t *testing.T) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	svc := NewMessageService(msgRepo, convRepo, nil)

	convRepo.On("FindByID", uint64(1)).Return(testConversation(), nil)

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \n\t ", true},
		{"at limit", strings.Repeat("a", 5000), false},
		{"over limit", strings.Repeat("a", 5001), true},
		{"multibyte at limit", strings.Repeat("한", 5000), false},
		{"multibyte over limit", strings.Repeat("한", 5001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.wantErr {
				msgRepo.On("Create", mock.Anything).Return(nil).Once()
			}
			_, err := svc.Append(1, "alice", tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidMessage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppend_SenderMustBeParticipant(t *testing.T) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	svc := NewMessageService(msgRepo, convRepo, nil)

	convRepo.On("FindByID", uint64(1)).Return(testConversation(), nil)

	_, err := svc.Append(1, "mallory", "hi")
	assert.ErrorIs(t, err, common.ErrInvalidMessage)
	msgRepo.AssertNotCalled(t, "Create")
}

func TestAppend_MissingConversation(t *testing.T) {
	convRepo := new(mockConversationRepo)
	svc := NewMessageService(new(mockMessageRepo), convRepo, nil)

	convRepo.On("FindByID", uint64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Append(404, "alice", "hi")
	assert.ErrorIs(t, err, common.ErrConversationNotFound)
}

func TestAppend_NotifierFailureIsIsolated(t *testing.T) {
	// UnreadTotal failing after commit must not surface to the sender
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	notifier := new(mockNotifier)
	svc := NewMessageService(msgRepo, convRepo, notifier)

	convRepo.On("FindByID", uint64(1)).Return(testConversation(), nil)
	msgRepo.On("Create", mock.Anything).Return(nil)
	convRepo.On("UnreadTotal", "bob").Return(int64(0), gorm.ErrInvalidDB)
	notifier.On("SendToUser", "bob", mock.Anything).Once()

	_, err := svc.Append(1, "alice", "hi")
	assert.NoError(t, err)
}

func TestEdit(t *testing.T) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	svc := NewMessageService(msgRepo, convRepo, nil)

	created := time.Now().Add(-time.Hour)
	stored := &domain.Message{ID: 5, ConversationID: 1, SenderID: "alice", RecipientID: "bob", Content: "original", CreatedAt: created}
	msgRepo.On("FindByID", uint64(5)).Return(stored, nil)
	msgRepo.On("Edit", uint64(5), "edited", mock.AnythingOfType("time.Time")).Return(nil)

	resp, err := svc.Edit(5, "alice", " edited ")
	require.NoError(t, err)
	assert.Equal(t, "edited", resp.Content)
	require.NotNil(t, resp.EditedAt)
	assert.Equal(t, created, resp.CreatedAt)
}

func TestEdit_OnlySender(t *testing.T) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	svc := NewMessageService(msgRepo, convRepo, nil)

	stored := &domain.Message{ID: 5, SenderID: "alice", RecipientID: "bob", Content: "original"}
	msgRepo.On("FindByID", uint64(5)).Return(stored, nil)

	_, err := svc.Edit(5, "bob", "hijacked")
	assert.ErrorIs(t, err, common.ErrForbidden)
	msgRepo.AssertNotCalled(t, "Edit")
}

func TestEdit_MissingMessage(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	svc := NewMessageService(msgRepo, new(mockConversationRepo), nil)

	msgRepo.On("FindByID", uint64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Edit(404, "alice", "x")
	assert.ErrorIs(t, err, common.ErrMessageNotFound)
}

func TestListMessages(t *testing.T) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	svc := NewMessageService(msgRepo, convRepo, nil)

	convRepo.On("FindByID", uint64(1)).Return(testConversation(), nil)
	msgs := []*domain.Message{
		{ID: 2, ConversationID: 1, SenderID: "bob", RecipientID: "alice", Content: "two", CreatedAt: time.Now()},
		{ID: 1, ConversationID: 1, SenderID: "alice", RecipientID: "bob", Content: "one", CreatedAt: time.Now().Add(-time.Minute)},
	}
	msgRepo.On("ListByConversation", uint64(1), mock.Anything, 2, false).Return(msgs, nil)

	resp, meta, err := svc.List(1, "alice", "", 2, false)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.False(t, resp[0].IsOwnMessage)
	assert.True(t, resp[1].IsOwnMessage)
	assert.True(t, meta.HasMore)
	assert.NotEmpty(t, meta.NextCursor)
}

func TestListMessages_LimitClampAndCursorErrors(t *testing.T) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	svc := NewMessageService(msgRepo, convRepo, nil)

	convRepo.On("FindByID", uint64(1)).Return(testConversation(), nil)

	// Out-of-range limits fall back to the default page size
	msgRepo.On("ListByConversation", uint64(1), mock.Anything, 50, false).Return([]*domain.Message{}, nil).Twice()
	_, meta, err := svc.List(1, "alice", "", 0, false)
	require.NoError(t, err)
	assert.Equal(t, 50, meta.Limit)
	assert.False(t, meta.HasMore)

	_, _, err = svc.List(1, "alice", "", 500, false)
	require.NoError(t, err)

	// A malformed cursor is the caller's error
	_, _, err = svc.List(1, "alice", "garbage!!!", 10, false)
	assert.ErrorIs(t, err, common.ErrInvalidCursor)
}

func TestListMessages_NonParticipant(t *testing.T) {
	convRepo := new(mockConversationRepo)
	svc := NewMessageService(new(mockMessageRepo), convRepo, nil)

	convRepo.On("FindByID", uint64(1)).Return(testConversation(), nil)

	_, _, err := svc.List(1, "mallory", "", 10, false)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestMarkConversationRead(t *testing.T) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	notifier := new(mockNotifier)
	svc := NewMessageService(msgRepo, convRepo, notifier)

	convRepo.On("FindByID", uint64(1)).Return(testConversation(), nil)
	msgRepo.On("MarkConversationRead", uint64(1), "bob").Return(int64(3), nil)
	convRepo.On("UnreadTotal", "bob").Return(int64(0), nil)
	notifier.On("SendToUser", "bob", mock.MatchedBy(func(e *ws.Event) bool {
		return e.Type == ws.EventUnreadCount
	})).Once()

	require.NoError(t, svc.MarkConversationRead(1, "bob"))
	notifier.AssertExpectations(t)
}

func TestMarkConversationRead_NonParticipant(t *testing.T) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	svc := NewMessageService(msgRepo, convRepo, nil)

	convRepo.On("FindByID", uint64(1)).Return(testConversation(), nil)

	err := svc.MarkConversationRead(1, "mallory")
	assert.ErrorIs(t, err, common.ErrForbidden)
	msgRepo.AssertNotCalled(t, "MarkConversationRead")
}

func TestMarkAllRead(t *testing.T) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	notifier := new(mockNotifier)
	svc := NewMessageService(msgRepo, convRepo, notifier)

	msgRepo.On("MarkAllRead", "bob").Return(int64(7), nil)
	convRepo.On("UnreadTotal", "bob").Return(int64(0), nil)
	notifier.On("SendToUser", "bob", mock.Anything).Once()

	require.NoError(t, svc.MarkAllRead("bob"))
	msgRepo.AssertExpectations(t)
}
