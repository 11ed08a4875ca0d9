package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-analytics-api/internal/constants"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/repository"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// AnalyticsService derives per-user statistics from completed work.
// Everything is recomputed from the store on each call.
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	userRepo      repository.UserRepository
	catalogRepo   repository.CatalogRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, userRepo repository.UserRepository, catalogRepo repository.CatalogRepository) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		userRepo:      userRepo,
		catalogRepo:   catalogRepo,
	}
}

// UserStats is a user with the totals of the completed tasks assigned to them.
// CompletedCostSum is unrounded.
type UserStats struct {
	User               models.User
	CompletedTaskCount int
	CompletedCostSum   decimal.Decimal
}

// StatusCount is the number of tasks holding one status
type StatusCount struct {
	Status string
	Count  int64
}

// Overview is the status breakdown together with the top users
type Overview struct {
	TasksByStatus []StatusCount
	TopUsers      []UserStats
}

// NormalizeLimit coerces a non-positive limit to the default
func NormalizeLimit(limit int) int {
	if limit < constants.MinTopUsersLimit {
		return constants.DefaultTopUsersLimit
	}
	return limit
}

// StatusBreakdown counts tasks per status. Every catalog status is present,
// in catalog order, even when its count is zero.
func (s *AnalyticsService) StatusBreakdown(ctx context.Context) ([]StatusCount, error) {
	statuses, err := s.catalogRepo.ListStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}

	counts, err := s.analyticsRepo.CountTasksByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	byID := make(map[uint64]int64, len(counts))
	for _, c := range counts {
		byID[c.StatusID] = c.Count
	}

	breakdown := make([]StatusCount, len(statuses))
	for i, status := range statuses {
		breakdown[i] = StatusCount{Status: status.Name, Count: byID[status.ID]}
	}
	return breakdown, nil
}

// TopUsersByCompletedCost ranks users by the summed cost of their completed
// tasks, then by completed task count, then by ascending user ID. Only users
// with at least one completed assignment appear.
func (s *AnalyticsService) TopUsersByCompletedCost(ctx context.Context, limit int) ([]UserStats, error) {
	limit = NormalizeLimit(limit)

	doneID, err := s.completedStatusID(ctx)
	if err != nil {
		return nil, err
	}

	costs, err := s.analyticsRepo.ListTaskCostsByStatus(ctx, doneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}
	rows, err := s.analyticsRepo.ListAssignmentsByTaskStatus(ctx, doneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed assignments: %w", err)
	}

	tallies := accumulate(costIndex(costs), rows)

	ranked := make([]uint64, 0, len(tallies))
	for userID := range tallies {
		ranked = append(ranked, userID)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := tallies[ranked[i]], tallies[ranked[j]]
		if c := a.sum.Cmp(b.sum); c != 0 {
			return c > 0
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	users, err := s.userRepo.FindByIDs(ctx, ranked)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	usersByID := make(map[uint64]models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	result := make([]UserStats, 0, len(ranked))
	for _, userID := range ranked {
		user, ok := usersByID[userID]
		if !ok {
			// deleted between the two reads
			continue
		}
		t := tallies[userID]
		result = append(result, UserStats{User: user, CompletedTaskCount: t.count, CompletedCostSum: t.sum})
	}
	return result, nil
}

// Overview computes the status breakdown and the top users concurrently.
// The first failure cancels the other read.
func (s *AnalyticsService) Overview(ctx context.Context, limit int) (*Overview, error) {
	var overview Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		breakdown, err := s.StatusBreakdown(gctx)
		if err != nil {
			return err
		}
		overview.TasksByStatus = breakdown
		return nil
	})
	g.Go(func() error {
		top, err := s.TopUsersByCompletedCost(gctx, limit)
		if err != nil {
			return err
		}
		overview.TopUsers = top
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

// EnrichedUserList filters users first and then computes completed-task
// totals for that user set only. Users without completed work are included
// with zero totals.
func (s *AnalyticsService) EnrichedUserList(ctx context.Context, filter repository.UserFilter) ([]UserStats, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return []UserStats{}, nil
	}

	doneID, err := s.completedStatusID(ctx)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint64, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}

	rows, err := s.analyticsRepo.ListAssignmentsForUsers(ctx, doneID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed assignments: %w", err)
	}

	taskIDs := make([]uint64, 0, len(rows))
	for _, row := range rows {
		taskIDs = append(taskIDs, row.TaskID)
	}
	costs, err := s.analyticsRepo.ListTaskCosts(ctx, uniqueUint64(taskIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load task costs: %w", err)
	}

	tallies := accumulate(costIndex(costs), rows)

	result := make([]UserStats, len(users))
	for i, u := range users {
		stats := UserStats{User: u, CompletedCostSum: decimal.Zero}
		if t, ok := tallies[u.ID]; ok {
			stats.CompletedTaskCount = t.count
			stats.CompletedCostSum = t.sum
		}
		result[i] = stats
	}
	return result, nil
}

func (s *AnalyticsService) completedStatusID(ctx context.Context) (uint64, error) {
	status, err := s.catalogRepo.FindStatusByName(ctx, models.StatusDone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("catalog is missing status %s", models.StatusDone)
		}
		return 0, fmt.Errorf("failed to resolve completed status: %w", err)
	}
	return status.ID, nil
}

type tally struct {
	count int
	sum   decimal.Decimal
}

func costIndex(costs []repository.TaskCost) map[uint64]decimal.Decimal {
	index := make(map[uint64]decimal.Decimal, len(costs))
	for _, c := range costs {
		index[c.ID] = c.Cost
	}
	return index
}

// accumulate joins bridge rows to task costs and sums per user in one pass.
// Rows whose task is missing from costs were not completed at read time
// and are skipped.
func accumulate(costs map[uint64]decimal.Decimal, rows []repository.AssignmentRow) map[uint64]*tally {
	tallies := make(map[uint64]*tally)
	for _, row := range rows {
		cost, ok := costs[row.TaskID]
		if !ok {
			continue
		}
		t, ok := tallies[row.UserID]
		if !ok {
			t = &tally{sum: decimal.Zero}
			tallies[row.UserID] = t
		}
		t.count++
		t.sum = t.sum.Add(cost)
	}
	return tallies
}
