package repository

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/openacademy/messaging-backend/internal/common"
	"github.com/openacademy/messaging-backend/internal/domain"
)

// Cursor is the decoded form of the opaque message pagination token.
// Keyset pagination on (created_at, id) stays stable while new messages
// are appended concurrently; offsets would not.
type Cursor struct {
	CreatedAt time.Time `json:"t"`
	ID        uint64    `json:"id"`
}

// EncodeCursor builds the opaque token pointing at msg
func EncodeCursor(msg *domain.Message) string {
	data, err := json.Marshal(Cursor{CreatedAt: msg.CreatedAt, ID: msg.ID})
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor parses an opaque token; empty input means "no cursor"
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, common.ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, common.ErrInvalidCursor
	}
	if c.ID == 0 {
		return nil, common.ErrInvalidCursor
	}
	return &c, nil
}
