package dto

import "github.com/yukikurage/task-analytics-api/internal/services"

type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type StatusBreakdownResponse struct {
	Statuses []StatusCountDTO `json:"statuses"`
	ByStatus map[string]int64 `json:"by_status"`
	Total    int64            `json:"total"`
}

type TopUsersResponse struct {
	Limit int            `json:"limit"`
	Users []UserStatsDTO `json:"users"`
}

// AnalyticsOverviewResponse combines both analytics views in one payload
type AnalyticsOverviewResponse struct {
	TasksByStatus StatusBreakdownResponse `json:"tasks_by_status"`
	TopUsers      TopUsersResponse        `json:"top_users_by_completed_cost"`
}

func ToStatusBreakdownResponse(counts []services.StatusCount) StatusBreakdownResponse {
	resp := StatusBreakdownResponse{
		Statuses: make([]StatusCountDTO, len(counts)),
		ByStatus: make(map[string]int64, len(counts)),
	}
	for i, c := range counts {
		resp.Statuses[i] = StatusCountDTO{Status: c.Status, Count: c.Count}
		resp.ByStatus[c.Status] = c.Count
		resp.Total += c.Count
	}
	return resp
}

func ToTopUsersResponse(limit int, stats []services.UserStats) TopUsersResponse {
	users := make([]UserStatsDTO, len(stats))
	for i, s := range stats {
		users[i] = ToUserStatsDTO(s)
	}
	return TopUsersResponse{Limit: limit, Users: users}
}

func ToAnalyticsOverviewResponse(limit int, overview *services.Overview) AnalyticsOverviewResponse {
	return AnalyticsOverviewResponse{
		TasksByStatus: ToStatusBreakdownResponse(overview.TasksByStatus),
		TopUsers:      ToTopUsersResponse(limit, overview.TopUsers),
	}
}
