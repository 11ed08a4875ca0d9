package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/testutil"
	"gorm.io/gorm"
)

type TaskRepositoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	db   *gorm.DB
	fx   testutil.Fixtures
	repo TaskRepository
	base time.Time
}

func (suite *TaskRepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = testutil.OpenDB(suite.T())
	suite.fx = testutil.Fixtures{T: suite.T(), DB: suite.db}
	suite.repo = NewTaskRepository(suite.db)
	suite.base = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *TaskRepositoryTestSuite) list(filter TaskFilter) []string {
	tasks, err := suite.repo.List(suite.ctx, filter)
	suite.Require().NoError(err)

	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	return titles
}

func ptr[T any](v T) *T {
	return &v
}

func (suite *TaskRepositoryTestSuite) TestList_AssigneeCriteriaAreIndependent() {
	ann := suite.fx.User("Ann", "ann@x.com")
	bob := suite.fx.User("Bob", "bob@x.com")
	carl := suite.fx.User("Carl", "carl@x.com")
	suite.fx.Task("T1", models.StatusActive, "1", suite.base, ann, bob)
	suite.fx.Task("T2", models.StatusActive, "1", suite.base.Add(time.Hour), ann, carl)

	titles := suite.list(TaskFilter{AssigneeQuery: ptr("bob"), AssigneeID: &ann.ID})
	suite.Equal([]string{"T1"}, titles)

	titles = suite.list(TaskFilter{AssigneeQuery: ptr("BOB"), AssigneeID: &carl.ID})
	suite.Empty(titles)
}

func (suite *TaskRepositoryTestSuite) TestList_AssigneeQueryMatchesEmail() {
	ann := suite.fx.User("Ann", "ann@corp.io")
	suite.fx.User("Bob", "bob@x.com")
	suite.fx.Task("T1", models.StatusActive, "1", suite.base, ann)

	suite.Equal([]string{"T1"}, suite.list(TaskFilter{AssigneeQuery: ptr("CORP")}))
	suite.Empty(suite.list(TaskFilter{AssigneeQuery: ptr("bob")}))

	ines := suite.fx.User("ÍNES", "ines@x.com")
	suite.fx.Task("T2", models.StatusActive, "1", suite.base.Add(time.Hour), ines)
	suite.Equal([]string{"T2"}, suite.list(TaskFilter{AssigneeQuery: ptr("ínes")}))
	suite.Equal([]string{"T2"}, suite.list(TaskFilter{AssigneeQuery: ptr("ÍnEs")}))
}

func (suite *TaskRepositoryTestSuite) TestList_TitleFoldsNonASCII() {
	suite.fx.Task("ÜBERSICHT Q3", models.StatusActive, "1", suite.base)
	suite.fx.Task("Overview", models.StatusActive, "1", suite.base.Add(time.Hour))

	suite.Equal([]string{"ÜBERSICHT Q3"}, suite.list(TaskFilter{TitleContains: ptr("übersicht")}))
}

func (suite *TaskRepositoryTestSuite) TestList_TextIsMatchedUntrimmed() {
	suite.fx.Task("Xfix", models.StatusActive, "1", suite.base)
	suite.fx.Task("Hot fix", models.StatusActive, "1", suite.base.Add(time.Hour))

	suite.Equal([]string{"Hot fix"}, suite.list(TaskFilter{TitleContains: ptr(" fix")}))
	suite.Equal([]string{"Hot fix", "Xfix"}, suite.list(TaskFilter{TitleContains: ptr("fix")}))
}

func (suite *TaskRepositoryTestSuite) TestList_AssigneeQueryEscapesWildcards() {
	ann := suite.fx.User("Ann", "ann@x.com")
	odd := suite.fx.User("50% Off", "sale@x.com")
	suite.fx.Task("T1", models.StatusActive, "1", suite.base, ann)
	suite.fx.Task("T2", models.StatusActive, "1", suite.base.Add(time.Hour), odd)

	suite.Equal([]string{"T2"}, suite.list(TaskFilter{AssigneeQuery: ptr("%")}))
	suite.Empty(suite.list(TaskFilter{AssigneeQuery: ptr("a_n")}))
}

func (suite *TaskRepositoryTestSuite) TestList_TitleStatusAndDueDates() {
	a := suite.fx.Task("Write Report", models.StatusActive, "1", suite.base)
	suite.fx.Task("Review report", models.StatusDone, "1", suite.base.Add(time.Hour))
	suite.fx.Task("Deploy", models.StatusActive, "1", suite.base.Add(2*time.Hour))

	suite.Equal([]string{"Review report", "Write Report"}, suite.list(TaskFilter{TitleContains: ptr("REPORT")}))
	suite.Equal([]string{"Review report"}, suite.list(TaskFilter{Status: ptr(models.StatusDone)}))
	suite.Empty(suite.list(TaskFilter{Status: ptr("ARCHIVED")}))

	// bounds are inclusive
	due := a.DueDate
	suite.Equal([]string{"Write Report"}, suite.list(TaskFilter{DueDateFrom: &due, DueDateTo: &due}))

	from := a.DueDate.Add(time.Minute)
	suite.Equal([]string{"Deploy", "Review report"}, suite.list(TaskFilter{DueDateFrom: &from}))
}

func (suite *TaskRepositoryTestSuite) TestList_BlankTextIsNoConstraint() {
	suite.fx.Task("A", models.StatusActive, "1", suite.base)
	suite.fx.Task("B", models.StatusActive, "1", suite.base.Add(time.Hour))

	suite.Equal([]string{"B", "A"}, suite.list(TaskFilter{TitleContains: ptr("  "), AssigneeQuery: ptr("")}))
}

func (suite *TaskRepositoryTestSuite) TestList_NewestFirstWithIDTieBreak() {
	suite.fx.Task("first", models.StatusActive, "1", suite.base)
	suite.fx.Task("second", models.StatusActive, "1", suite.base)
	suite.fx.Task("newest", models.StatusActive, "1", suite.base.Add(time.Second))

	suite.Equal([]string{"newest", "first", "second"}, suite.list(TaskFilter{}))
}

func (suite *TaskRepositoryTestSuite) TestList_PreloadsAssigneesInUserOrder() {
	ann := suite.fx.User("Ann", "ann@x.com")
	bob := suite.fx.User("Bob", "bob@x.com")
	suite.fx.Task("T1", models.StatusDone, "1", suite.base, bob, ann)

	tasks, err := suite.repo.List(suite.ctx, TaskFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)

	suite.Equal(models.StatusDone, tasks[0].Status.Name)
	suite.Require().Len(tasks[0].Assignments, 2)
	suite.Equal("Ann", tasks[0].Assignments[0].User.Name)
	suite.Equal("Bob", tasks[0].Assignments[1].User.Name)
}

func (suite *TaskRepositoryTestSuite) TestInsertAssignments_SkipsExistingPairs() {
	ann := suite.fx.User("Ann", "ann@x.com")
	bob := suite.fx.User("Bob", "bob@x.com")
	task := suite.fx.Task("T1", models.StatusActive, "1", suite.base, ann)

	suite.Require().NoError(suite.repo.InsertAssignments(suite.ctx, task.ID, []uint64{ann.ID, bob.ID}))
	suite.Require().NoError(suite.repo.InsertAssignments(suite.ctx, task.ID, nil))

	suite.Equal([]uint64{ann.ID, bob.ID}, suite.fx.AssigneeIDs(task.ID))
}

func (suite *TaskRepositoryTestSuite) TestCountUsersByIDs() {
	ann := suite.fx.User("Ann", "ann@x.com")

	count, err := suite.repo.CountUsersByIDs(suite.ctx, []uint64{ann.ID, 999})
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)

	count, err = suite.repo.CountUsersByIDs(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Zero(count)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}

func TestChunkIDs(t *testing.T) {
	ids := []uint64{1, 2, 3, 4, 5}

	assert.Equal(t, [][]uint64{{1, 2}, {3, 4}, {5}}, chunkIDs(ids, 2))
	assert.Equal(t, [][]uint64{{1, 2, 3, 4, 5}}, chunkIDs(ids, 5))
	assert.Nil(t, chunkIDs(nil, 2))
}
