package models

import "time"

type DirectMessage struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	SenderID   uint64    `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint64    `gorm:"not null;index" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

type Report struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	ReporterID     uint64    `gorm:"not null;index" json:"reporter_id"`
	ReportedUserID uint64    `gorm:"not null;index" json:"reported_user_id"`
	Reason         *string   `gorm:"type:text" json:"reason"`
	IsResolved     bool      `gorm:"not null;default:false" json:"is_resolved"`
	CreatedAt      time.Time `json:"created_at"`

	// Relations
	Reporter     User `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	ReportedUser User `gorm:"foreignKey:ReportedUserID" json:"reported_user,omitempty"`
}
