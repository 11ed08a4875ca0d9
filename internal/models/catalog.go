package models

// Catalog names. Rows are seeded at migration time and never mutated.
const (
	StatusActive = "ACTIVE"
	StatusDone   = "DONE"

	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// TaskStatusNames lists every status in display order.
var TaskStatusNames = []string{StatusActive, StatusDone}

// UserRoleNames lists every role in display order.
var UserRoleNames = []string{RoleAdmin, RoleMember}

type TaskStatus struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
}

type UserRole struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
}
