package models

import "time"

// ClassMembership is one role link between a user and a class. A user may hold
// several roles on the same class; each is its own row.
type ClassMembership struct {
	ClassID  uint64    `gorm:"primarykey" json:"class_id"`
	UserID   uint64    `gorm:"primarykey" json:"user_id"`
	Role     Role      `gorm:"primarykey;type:varchar(20)" json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	Class Class `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// OrganizationMembership is one role link between a user and an organization.
type OrganizationMembership struct {
	OrganizationID uint64    `gorm:"primarykey" json:"organization_id"`
	UserID         uint64    `gorm:"primarykey" json:"user_id"`
	Role           Role      `gorm:"primarykey;type:varchar(20)" json:"role"`
	JoinedAt       time.Time `json:"joined_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// GuardianLink is the symmetric guardian/child relation. One row represents
// both directions; severing the row severs the pair regardless of which side
// initiated the link.
type GuardianLink struct {
	GuardianID uint64    `gorm:"primarykey" json:"guardian_id"`
	StudentID  uint64    `gorm:"primarykey" json:"student_id"`
	CreatedAt  time.Time `json:"created_at"`

	Guardian User `gorm:"foreignKey:GuardianID" json:"guardian,omitempty"`
	Student  User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}
