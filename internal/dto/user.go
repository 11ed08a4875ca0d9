package dto

import (
	"time"

	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserDetailDTO is a user with role and timestamps
type UserDetailDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStatsDTO is a user with completed-work totals.
// CompletedCostSum is rounded to two decimals.
type UserStatsDTO struct {
	UserDetailDTO
	CompletedTaskCount int    `json:"completed_task_count"`
	CompletedCostSum   string `json:"completed_cost_sum"`
}

// UserListResponse wraps the enriched user list
type UserListResponse struct {
	Users []UserStatsDTO `json:"users"`
	Count int            `json:"count"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToUserDetailDTO converts a User model with its role preloaded
func ToUserDetailDTO(user models.User) UserDetailDTO {
	return UserDetailDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func ToUserStatsDTO(stats services.UserStats) UserStatsDTO {
	return UserStatsDTO{
		UserDetailDTO:      ToUserDetailDTO(stats.User),
		CompletedTaskCount: stats.CompletedTaskCount,
		CompletedCostSum:   stats.CompletedCostSum.StringFixed(2),
	}
}

// ToUserListResponse converts enriched users to UserListResponse
func ToUserListResponse(stats []services.UserStats) UserListResponse {
	items := make([]UserStatsDTO, len(stats))
	for i, s := range stats {
		items[i] = ToUserStatsDTO(s)
	}
	return UserListResponse{Users: items, Count: len(items)}
}
