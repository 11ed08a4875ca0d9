package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-analytics-api/internal/dto"
	"github.com/yukikurage/task-analytics-api/internal/logging"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/testutil"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite drives the task routes through the full router
type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	fx     testutil.Fixtures
	router *gin.Engine
}

func (suite *TaskHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logging.Logger.SetOutput(io.Discard)
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.db = testutil.OpenDB(suite.T())
	suite.fx = testutil.Fixtures{T: suite.T(), DB: suite.db}
	suite.router = NewRouter(suite.db)
}

func (suite *TaskHandlerTestSuite) request(method, url string, body interface{}) *httptest.ResponseRecorder {
	return serve(suite.T(), suite.router, method, url, body)
}

func serve(t *testing.T, router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, ok := body.(string)
		if !ok {
			raw, err := json.Marshal(body)
			assert.NoError(t, err)
			payload = string(raw)
		}
		reader = bytes.NewBufferString(payload)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) decodeTask(w *httptest.ResponseRecorder) dto.TaskDTO {
	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func assigneeIDs(task dto.TaskDTO) []uint64 {
	ids := make([]uint64, len(task.Assignees))
	for i, a := range task.Assignees {
		ids[i] = a.User.ID
	}
	return ids
}

func (suite *TaskHandlerTestSuite) taskBody(title string, assignees ...uint64) map[string]interface{} {
	body := map[string]interface{}{
		"title":           title,
		"estimated_hours": 3,
		"due_date":        "2026-06-01T00:00:00Z",
		"cost":            "120.50",
	}
	if assignees != nil {
		body["assignee_ids"] = assignees
	}
	return body
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	ann := suite.fx.User("Ann", "ann@x.com")
	bob := suite.fx.User("Bob", "bob@x.com")

	w := suite.request(http.MethodPost, "/api/tasks", suite.taskBody("Ship", bob.ID, ann.ID, bob.ID))

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	task := suite.decodeTask(w)
	suite.Equal("Ship", task.Title)
	suite.Equal("120.50", task.Cost)
	suite.Equal("3.00", task.EstimatedHours)
	suite.Nil(task.SpentHours)
	suite.Equal(models.StatusActive, task.Status.Name)
	suite.Equal([]uint64{ann.ID, bob.ID}, assigneeIDs(task))
	suite.Equal("ann@x.com", task.Assignees[0].User.Email)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownAssignee() {
	w := suite.request(http.MethodPost, "/api/tasks", suite.taskBody("Ship", 99))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "INVALID_REFERENCE")

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidRequest() {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing title", map[string]interface{}{"estimated_hours": 1, "due_date": "2026-06-01T00:00:00Z", "cost": 1}},
		{"missing cost", map[string]interface{}{"title": "x", "estimated_hours": 1, "due_date": "2026-06-01T00:00:00Z"}},
		{"negative cost", map[string]interface{}{"title": "x", "estimated_hours": 1, "due_date": "2026-06-01T00:00:00Z", "cost": -1}},
		{"zero assignee id", map[string]interface{}{"title": "x", "estimated_hours": 1, "due_date": "2026-06-01T00:00:00Z", "cost": 1, "assignee_ids": []int{0}}},
		{"malformed json", "{"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.request(http.MethodPost, "/api/tasks", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Contains(w.Body.String(), "INVALID_INPUT")
		})
	}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownStatus() {
	body := suite.taskBody("Ship")
	body["status"] = "ARCHIVED"

	w := suite.request(http.MethodPost, "/api/tasks", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "INVALID_REFERENCE")
}

func (suite *TaskHandlerTestSuite) TestGetTask() {
	task := suite.fx.Task("Ship", models.StatusDone, "10", time.Now().UTC())

	w := suite.request(http.MethodGet, "/api/tasks/"+itoa(task.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(models.StatusDone, suite.decodeTask(w).Status.Name)

	w = suite.request(http.MethodGet, "/api/tasks/999", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/api/tasks/abc", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Filters() {
	ann := suite.fx.User("Ann", "ann@x.com")
	bob := suite.fx.User("Bob", "bob@x.com")
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	suite.fx.Task("T1", models.StatusActive, "1", base, ann, bob)
	suite.fx.Task("T2", models.StatusDone, "1", base.Add(time.Hour), ann)

	w := suite.request(http.MethodGet, "/api/tasks?assignee=bob&assignee_id="+itoa(ann.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Equal(1, resp.Count)
	suite.Equal("T1", resp.Tasks[0].Title)

	w = suite.request(http.MethodGet, "/api/tasks", nil)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.Count)
	suite.Equal("T2", resp.Tasks[0].Title)

	// due dates are base+7d; a bare due_to date covers the whole day
	w = suite.request(http.MethodGet, "/api/tasks?due_from=2026-05-08&due_to=2026-05-08&status=DONE", nil)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Equal(1, resp.Count)
	suite.Equal("T2", resp.Tasks[0].Title)

	w = suite.request(http.MethodGet, "/api/tasks?due_from=tomorrow", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	w = suite.request(http.MethodGet, "/api/tasks?assignee_id=x", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_AssigneeTriState() {
	ann := suite.fx.User("Ann", "ann@x.com")
	bob := suite.fx.User("Bob", "bob@x.com")
	task := suite.fx.Task("Ship", models.StatusActive, "10", time.Now().UTC(), ann)
	url := "/api/tasks/" + itoa(task.ID)

	// absent: untouched
	w := suite.request(http.MethodPatch, url, map[string]interface{}{"title": "Ship it", "status": "DONE"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	updated := suite.decodeTask(w)
	suite.Equal("Ship it", updated.Title)
	suite.Equal(models.StatusDone, updated.Status.Name)
	suite.Equal([]uint64{ann.ID}, assigneeIDs(updated))

	// present: replaced
	w = suite.request(http.MethodPatch, url, map[string]interface{}{"assignee_ids": []uint64{bob.ID}})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal([]uint64{bob.ID}, assigneeIDs(suite.decodeTask(w)))

	// null: cleared
	w = suite.request(http.MethodPatch, url, `{"assignee_ids": null}`)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(suite.decodeTask(w).Assignees)

	w = suite.request(http.MethodPatch, url, map[string]interface{}{"assignee_ids": []uint64{ann.ID, 404}})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPatch, "/api/tasks/999", map[string]interface{}{"title": "x"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestAssignAndReplace() {
	ann := suite.fx.User("Ann", "ann@x.com")
	bob := suite.fx.User("Bob", "bob@x.com")
	task := suite.fx.Task("Ship", models.StatusActive, "10", time.Now().UTC(), ann)
	url := "/api/tasks/" + itoa(task.ID)

	w := suite.request(http.MethodPost, url+"/assign", map[string]interface{}{"assignee_ids": []uint64{bob.ID, ann.ID}})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal([]uint64{ann.ID, bob.ID}, assigneeIDs(suite.decodeTask(w)))

	w = suite.request(http.MethodPost, url+"/assign", map[string]interface{}{"assignee_ids": []uint64{}})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPut, url+"/assignees", map[string]interface{}{"assignee_ids": []uint64{bob.ID, bob.ID}})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal([]uint64{bob.ID}, assigneeIDs(suite.decodeTask(w)))

	w = suite.request(http.MethodPut, url+"/assignees", map[string]interface{}{"assignee_ids": []uint64{}})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(suite.decodeTask(w).Assignees)

	w = suite.request(http.MethodPost, "/api/tasks/999/assign", map[string]interface{}{"assignee_ids": []uint64{ann.ID}})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	ann := suite.fx.User("Ann", "ann@x.com")
	task := suite.fx.Task("Ship", models.StatusActive, "10", time.Now().UTC(), ann)

	w := suite.request(http.MethodDelete, "/api/tasks/"+itoa(task.ID), nil)
	suite.Equal(http.StatusNoContent, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.TaskAssignment{}).Count(&count).Error)
	suite.Zero(count)

	w = suite.request(http.MethodDelete, "/api/tasks/"+itoa(task.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
