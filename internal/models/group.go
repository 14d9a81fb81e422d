package models

import "time"

// Group is a class-scoped grouping of students (seating groups, reading
// groups, and so on).
type Group struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ClassID   uint64    `gorm:"not null;index" json:"class_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Class Class  `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	Teams []Team `gorm:"foreignKey:GroupID" json:"teams,omitempty"`
}

type GroupStudent struct {
	GroupID uint64 `gorm:"primarykey" json:"group_id"`
	UserID  uint64 `gorm:"primarykey" json:"user_id"`

	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Team is a group-scoped sub-grouping of students.
type Team struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	GroupID   uint64    `gorm:"not null;index" json:"group_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

type TeamStudent struct {
	TeamID uint64 `gorm:"primarykey" json:"team_id"`
	UserID uint64 `gorm:"primarykey" json:"user_id"`

	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
