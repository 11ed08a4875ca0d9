package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Task struct {
	ID             uint64              `gorm:"primarykey" json:"id"`
	Title          string              `gorm:"type:varchar(255);not null" json:"title"`
	Description    *string             `gorm:"type:text" json:"description"`
	EstimatedHours decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"estimated_hours"`
	SpentHours     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"spent_hours"`
	DueDate        time.Time           `gorm:"not null;index:idx_tasks_due_date" json:"due_date"`
	StatusID       uint64              `gorm:"not null;index:idx_tasks_status_id" json:"status_id"`
	Cost           decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"cost"`
	CreatedAt      time.Time           `gorm:"index:idx_tasks_created_at" json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	// Relations
	Status      TaskStatus       `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}
