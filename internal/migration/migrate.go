package migration

import (
	"github.com/openacademy/messaging-backend/internal/domain"
	"gorm.io/gorm"
)

// Run creates/updates the messaging schema. The composite unique index
// on (participant_low, participant_high) is what makes resolve-or-create
// safe under concurrent callers; it must exist before the API serves
// traffic.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Conversation{},
		&domain.ConversationParticipant{},
		&domain.Message{},
	)
}
