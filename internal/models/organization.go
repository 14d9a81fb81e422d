package models

import "time"

type Organization struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID   uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Owner    User                     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	JoinCode *OrgJoinCode             `gorm:"foreignKey:OrganizationID" json:"join_code,omitempty"`
	Members  []OrganizationMembership `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	Classes  []Class                  `gorm:"foreignKey:OrganizationID" json:"classes,omitempty"`
}

// OrgJoinCode grants the teacher role on exactly one organization.
type OrgJoinCode struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Code           string    `gorm:"type:varchar(6);uniqueIndex;not null" json:"code"`
	OrganizationID uint64    `gorm:"uniqueIndex;not null" json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
