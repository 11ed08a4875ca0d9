package models

import "time"

type User struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	RoleID    uint64    `gorm:"not null" json:"role_id"`
	CreatedAt time.Time `gorm:"index:idx_users_created_at" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Role        UserRole         `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
}
