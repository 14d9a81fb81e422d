package models

import "time"

type Class struct {
	ID             uint64  `gorm:"primarykey" json:"id"`
	Name           string  `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID        uint64  `gorm:"not null;index" json:"owner_id"`
	OrganizationID *uint64 `gorm:"index" json:"organization_id,omitempty"`

	// Join codes, one per joinable role. Each is globally unique for its
	// column; the data layer enforces that and a collision on insert is
	// treated as a generation retry.
	StudentCode  string `gorm:"type:varchar(6);uniqueIndex;not null" json:"student_code"`
	TeacherCode  string `gorm:"type:varchar(6);uniqueIndex;not null" json:"teacher_code"`
	GuardianCode string `gorm:"type:varchar(6);uniqueIndex;not null" json:"guardian_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Owner        User              `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Organization *Organization     `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Members      []ClassMembership `gorm:"foreignKey:ClassID" json:"members,omitempty"`
	Groups       []Group           `gorm:"foreignKey:ClassID" json:"groups,omitempty"`
}
