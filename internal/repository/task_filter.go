package repository

import (
	"strings"

	"github.com/yukikurage/task-analytics-api/internal/database"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"gorm.io/gorm"
)

// Scope compiles the filter into WHERE clauses on the tasks table.
//
// Present criteria are ANDed. The two assignee criteria are separate EXISTS
// subqueries, so a task matches when one assignee has the ID and another
// (or the same) assignee matches the text query.
func (f TaskFilter) Scope(db *gorm.DB) *gorm.DB {
	sub := db.Session(&gorm.Session{NewDB: true})

	if f.Status != nil {
		statusIDs := sub.Model(&models.TaskStatus{}).
			Select("id").
			Where("name = ?", *f.Status)
		db = db.Where("tasks.status_id IN (?)", statusIDs)
	}
	if text, ok := matchText(f.TitleContains); ok {
		db = db.Where("LOWER(tasks.title) LIKE ?"+database.LikeEscape, database.ContainsPattern(text))
	}
	if f.DueDateFrom != nil {
		db = db.Where("tasks.due_date >= ?", *f.DueDateFrom)
	}
	if f.DueDateTo != nil {
		db = db.Where("tasks.due_date <= ?", *f.DueDateTo)
	}
	if f.AssigneeID != nil {
		byID := sub.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id").
			Where("task_assignments.user_id = ?", *f.AssigneeID)
		db = db.Where("EXISTS (?)", byID)
	}
	if text, ok := matchText(f.AssigneeQuery); ok {
		pattern := database.ContainsPattern(text)
		byText := sub.Model(&models.TaskAssignment{}).
			Select("1").
			Joins("JOIN users ON users.id = task_assignments.user_id").
			Where("task_assignments.task_id = tasks.id").
			Where("(LOWER(users.name) LIKE ?"+database.LikeEscape+" OR LOWER(users.email) LIKE ?"+database.LikeEscape+")", pattern, pattern)
		db = db.Where("EXISTS (?)", byText)
	}

	return db
}

// matchText returns the substring to search for. A nil or all-blank value is
// no constraint; anything else is matched as given, surrounding spaces included.
func matchText(s *string) (string, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", false
	}
	return *s, true
}
