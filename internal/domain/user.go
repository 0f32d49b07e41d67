package domain

import "time"

// User is the platform user record consumed for identity lookup.
// Account management lives in the main platform backend; this service
// only reads eligibility (existence + active flag).
type User struct {
	ID          string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	Username    string    `gorm:"column:username;size:100;uniqueIndex" json:"username"`
	DisplayName string    `gorm:"column:display_name;size:100" json:"display_name"`
	AvatarURL   string    `gorm:"column:avatar_url;size:500" json:"avatar_url"`
	Role        string    `gorm:"column:role;size:20;default:user" json:"role"`
	// No default tag: gorm drops zero-value fields carrying one on
	// INSERT, which would silently store false as true.
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "lms_users"
}

// UserSummary is the profile slice embedded in conversation/message responses
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Role        string `json:"role"`
}

// ToSummary converts a User to its response form
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
	}
}
