package models

import "time"

// Per-class child records referencing a user as subject or author. These are
// deleted outright when that user deletes their account; when a whole class is
// deleted they go with it.

type BehaviorLog struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ClassID     uint64    `gorm:"not null;index" json:"class_id"`
	StudentID   uint64    `gorm:"not null;index" json:"student_id"`
	CreatedByID uint64    `gorm:"not null;index" json:"created_by_id"`
	Behavior    string    `gorm:"type:varchar(255);not null" json:"behavior"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

type RewardRedemption struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ClassID     uint64    `gorm:"not null;index" json:"class_id"`
	StudentID   uint64    `gorm:"not null;index" json:"student_id"`
	CreatedByID uint64    `gorm:"not null;index" json:"created_by_id"`
	Reward      string    `gorm:"type:varchar(255);not null" json:"reward"`
	Cost        int       `json:"cost"`
	CreatedAt   time.Time `json:"created_at"`
}

type StudentExpectation struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ClassID   uint64    `gorm:"not null;index" json:"class_id"`
	StudentID uint64    `gorm:"not null;index" json:"student_id"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ClassRosterEntry struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ClassID     uint64    `gorm:"not null;index" json:"class_id"`
	StudentID   uint64    `gorm:"not null;index" json:"student_id"`
	DisplayName string    `gorm:"type:varchar(255)" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type DashboardPreference struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	ClassID   uint64    `gorm:"not null;index" json:"class_id"`
	Layout    string    `gorm:"type:text" json:"layout"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TermsAcceptance struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	UserID     uint64    `gorm:"not null;index" json:"user_id"`
	Version    string    `gorm:"type:varchar(50);not null" json:"version"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// PendingMember is an email-addressed placeholder membership created by roster
// imports, resolved into a real membership once the invited person signs up.
type PendingMember struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ClassID   uint64    `gorm:"not null;index" json:"class_id"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Role      Role      `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UserFile struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	OwnerID   uint64    `gorm:"not null;index" json:"owner_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Path      string    `gorm:"type:varchar(512);not null" json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
