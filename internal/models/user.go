package models

import "time"

type User struct {
	ID           uint64  `gorm:"primarykey" json:"id"`
	Email        string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName    string  `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string  `gorm:"type:varchar(100)" json:"last_name"`
	PasswordHash string  `gorm:"type:varchar(255);not null" json:"-"`
	SessionToken *string `gorm:"type:varchar(64);uniqueIndex" json:"-"`

	// StudentGuardianCode is the per-student code guardians use to self-enroll
	// and auto-link to this student. Nil until the user first joins a class as
	// a student.
	StudentGuardianCode *string `gorm:"type:varchar(6);uniqueIndex" json:"student_guardian_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	ClassMemberships        []ClassMembership        `gorm:"foreignKey:UserID" json:"-"`
	OrganizationMemberships []OrganizationMembership `gorm:"foreignKey:UserID" json:"-"`
	Files                   []UserFile               `gorm:"foreignKey:OwnerID" json:"-"`
}
