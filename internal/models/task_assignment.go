package models

import "time"

// TaskAssignment is the task/user bridge row. The composite primary key
// allows at most one row per pair.
type TaskAssignment struct {
	TaskID     uint64    `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	UserID     uint64    `gorm:"primarykey;autoIncrement:false;index:idx_task_assignments_user_id" json:"user_id"`
	AssignedAt time.Time `gorm:"not null" json:"assigned_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
