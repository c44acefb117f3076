package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RollAdmin = "Admin"
	RollUser  = "User"
)

type UserAccount struct {
	ID           string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName     string    `gorm:"uniqueIndex;not null" json:"userName"`
	Name         string    `gorm:"not null" json:"name"`
	UserRoll     string    `gorm:"type:varchar(16);not null" json:"userRoll"`
	Joined       time.Time `gorm:"type:date;not null" json:"joined"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (UserAccount) TableName() string { return "user_accounts" }

type AuditLog struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string        `gorm:"type:uuid;index" json:"userId,omitempty"`
	Action    string         `gorm:"not null" json:"action"`
	Source    string         `gorm:"size:8" json:"source,omitempty"`
	ReportID  *string        `gorm:"type:uuid;index" json:"reportId,omitempty"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Session struct {
	JTI       string     `gorm:"primaryKey;size:64" json:"jti"`
	UserID    string     `gorm:"type:uuid;index;not null" json:"userId"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{&UserAccount{}, &Session{}, &AuditLog{}, &FIReport{}, &ISReport{}}
}
