package issues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"issue-tracker/internal/api"
	"issue-tracker/internal/database"
	"issue-tracker/internal/model"
	"issue-tracker/internal/store"
	"issue-tracker/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const (
	annID = "9m4e2mr0ui3e8a215n4g"
	bobID = "cq2b6k0n3bkc73c9k1a0"
)

func restore() {
	getIssueByID = store.GetIssueByID
	listIssues = store.ListIssues
	createIssue = store.CreateIssue
	updateIssue = store.UpdateIssue
	deleteIssue = store.DeleteIssue
	listIssueEvents = store.ListIssueEvents
	getUserByID = store.GetUserByID
	validateCreate = validation.ValidateCreateIssue
	validateUpdate = validation.ValidateUpdateIssue
}

type recordedEvent struct {
	issueID int
	actor   string
	action  model.IssueAction
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeRecorder) Record(issueID int, actorID string, action model.IssueAction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{issueID, actorID, action})
}

// memStore 以記憶體模擬 issues/users 兩張表，並把 store 函式變數指向它
type memStore struct {
	mu     sync.Mutex
	nextID int
	issues map[int]model.Issue
	users  map[string]model.User
	now    time.Time
}

func newMemStore(t *testing.T) *memStore {
	t.Helper()
	t.Cleanup(restore)
	ann, bob := "Ann", "Bob"
	m := &memStore{
		nextID: 1,
		issues: map[int]model.Issue{},
		users: map[string]model.User{
			annID: {ID: annID, Name: &ann},
			bobID: {ID: bobID, Name: &bob},
		},
		now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	getUserByID = func(_ context.Context, _ database.DB, id string) (*model.User, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		u, ok := m.users[id]
		if !ok {
			return nil, fmt.Errorf("GetUserByID: %w", store.ErrNotFound)
		}
		return &u, nil
	}
	getIssueByID = func(_ context.Context, _ database.DB, id int) (*model.Issue, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		iss, ok := m.issues[id]
		if !ok {
			return nil, fmt.Errorf("GetIssueByID: %w", store.ErrNotFound)
		}
		return &iss, nil
	}
	listIssues = func(context.Context, database.DB) ([]model.Issue, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		out := []model.Issue{}
		for id := m.nextID - 1; id > 0; id-- {
			if iss, ok := m.issues[id]; ok {
				out = append(out, iss)
			}
		}
		return out, nil
	}
	createIssue = func(_ context.Context, _ database.DB, in model.NewIssue) (*model.Issue, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if in.AssignedTo != nil {
			if _, ok := m.users[*in.AssignedTo]; !ok {
				return nil, fmt.Errorf("CreateIssue: %w", store.ErrAssigneeNotFound)
			}
		}
		m.now = m.now.Add(time.Second)
		desc := in.Description
		iss := model.Issue{
			ID:          m.nextID,
			Title:       in.Title,
			Description: &desc,
			Status:      model.IssueStatusOpen,
			AssignedTo:  in.AssignedTo,
			CreatedAt:   m.now,
			UpdatedAt:   m.now,
		}
		m.attach(&iss)
		m.issues[iss.ID] = iss
		m.nextID++
		return &iss, nil
	}
	updateIssue = func(_ context.Context, _ database.DB, id int, p model.IssuePatch) (*model.Issue, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		iss, ok := m.issues[id]
		if !ok {
			return nil, fmt.Errorf("UpdateIssue: %w", store.ErrNotFound)
		}
		if p.Title != nil {
			iss.Title = *p.Title
		}
		if p.SetDescription {
			iss.Description = p.Description
		}
		if p.Status != nil {
			iss.Status = *p.Status
		}
		if p.SetAssignee {
			if p.AssignedTo != nil {
				if _, ok := m.users[*p.AssignedTo]; !ok {
					return nil, fmt.Errorf("UpdateIssue: %w", store.ErrAssigneeNotFound)
				}
			}
			iss.AssignedTo = p.AssignedTo
		}
		m.now = m.now.Add(time.Second)
		iss.UpdatedAt = m.now
		m.attach(&iss)
		m.issues[id] = iss
		return &iss, nil
	}
	deleteIssue = func(_ context.Context, _ database.DB, id int) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.issues[id]; !ok {
			return fmt.Errorf("DeleteIssue: %w", store.ErrNotFound)
		}
		delete(m.issues, id)
		return nil
	}
	return m
}

func (m *memStore) attach(iss *model.Issue) {
	iss.Assignee = nil
	if iss.AssignedTo != nil {
		s := m.users[*iss.AssignedTo].Summary()
		iss.Assignee = &s
	}
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.issues)
}

func newServer(rec EventRecorder) *echo.Echo {
	e := echo.New()
	e.GET("/api/issues", ListIssuesHandler(nil))
	e.POST("/api/issues", CreateIssueHandler(nil, rec))
	e.GET("/api/issues/:id", GetIssueHandler(nil))
	e.PATCH("/api/issues/:id", UpdateIssueHandler(nil, rec))
	e.DELETE("/api/issues/:id", DeleteIssueHandler(nil, rec))
	e.GET("/api/issues/:id/events", ListIssueEventsHandler(nil))
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeIssue(t *testing.T, rec *httptest.ResponseRecorder) api.IssueResponse {
	t.Helper()
	var got api.IssueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var got api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestCreateIssueHandler(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		newMemStore(t)
		rec := &fakeRecorder{}
		e := newServer(rec)

		res := do(e, http.MethodPost, "/api/issues", `{"title":"Login broken","description":"500 on submit"}`)
		require.Equal(t, http.StatusCreated, res.Code)
		created := decodeIssue(t, res)
		require.Positive(t, created.ID)
		require.False(t, created.CreatedAt.IsZero())
		require.Equal(t, "OPEN", created.Status)
		require.Nil(t, created.AssignedTo)
		require.Nil(t, created.Assignee)

		res = do(e, http.MethodGet, fmt.Sprintf("/api/issues/%d", created.ID), "")
		require.Equal(t, http.StatusOK, res.Code)
		got := decodeIssue(t, res)
		require.Equal(t, created.ID, got.ID)
		require.Equal(t, "Login broken", got.Title)
		require.Equal(t, "500 on submit", *got.Description)
		require.Equal(t, "OPEN", got.Status)
		require.Nil(t, got.AssignedTo)
		require.True(t, created.CreatedAt.Equal(got.CreatedAt))

		require.Equal(t, []recordedEvent{{created.ID, "", model.IssueActionCreated}}, rec.events)
	})

	t.Run("with assignee", func(t *testing.T) {
		newMemStore(t)
		e := newServer(nil)
		res := do(e, http.MethodPost, "/api/issues", `{"title":"t","description":"d","assigneeId":"`+annID+`"}`)
		require.Equal(t, http.StatusCreated, res.Code)
		got := decodeIssue(t, res)
		require.Equal(t, annID, *got.AssignedTo)
		require.Equal(t, "Ann", *got.Assignee.Name)
	})

	t.Run("null assignee", func(t *testing.T) {
		newMemStore(t)
		e := newServer(nil)
		res := do(e, http.MethodPost, "/api/issues", `{"title":"t","description":"d","assigneeId":null}`)
		require.Equal(t, http.StatusCreated, res.Code)
		require.Nil(t, decodeIssue(t, res).AssignedTo)
	})

	t.Run("unknown assignee creates nothing", func(t *testing.T) {
		m := newMemStore(t)
		rec := &fakeRecorder{}
		e := newServer(rec)
		res := do(e, http.MethodPost, "/api/issues", `{"title":"t","description":"d","assigneeId":"cq2b6k0n3bkc73c9k1b0"}`)
		require.Equal(t, http.StatusBadRequest, res.Code)
		require.Equal(t, "Assignee not found", decodeError(t, res).Error)
		require.Equal(t, 0, m.count())
		require.Empty(t, rec.events)
	})

	t.Run("assignee removed between check and write", func(t *testing.T) {
		m := newMemStore(t)
		e := newServer(nil)
		inner := getUserByID
		getUserByID = func(ctx context.Context, db database.DB, id string) (*model.User, error) {
			u, err := inner(ctx, db, id)
			m.mu.Lock()
			delete(m.users, id)
			m.mu.Unlock()
			return u, err
		}
		res := do(e, http.MethodPost, "/api/issues", `{"title":"t","description":"d","assigneeId":"`+bobID+`"}`)
		require.Equal(t, http.StatusBadRequest, res.Code)
		require.Equal(t, "Assignee not found", decodeError(t, res).Error)
		require.Equal(t, 0, m.count())
	})

	t.Run("validation failures", func(t *testing.T) {
		m := newMemStore(t)
		e := newServer(nil)
		cases := map[string]string{
			`{"title":"","description":"d"}`:                               "title",
			`{"title":"` + strings.Repeat("x", 256) + `","description":"d"}`: "title",
			`{"title":"t","description":""}`:                               "description",
			`{"title":"t"}`:                                                "description",
			`{"title":"t","description":"d","assigneeId":"not-an-id"}`:     "assigneeId",
		}
		for body, field := range cases {
			res := do(e, http.MethodPost, "/api/issues", body)
			require.Equal(t, http.StatusBadRequest, res.Code, body)
			got := decodeError(t, res)
			require.Equal(t, "Validation failed", got.Error)
			require.NotEmpty(t, got.Details.FieldErrors[field], body)
		}
		require.Equal(t, 0, m.count())
	})

	t.Run("bad json", func(t *testing.T) {
		newMemStore(t)
		res := do(newServer(nil), http.MethodPost, "/api/issues", `{"title":`)
		require.Equal(t, http.StatusBadRequest, res.Code)
		require.Equal(t, "Invalid JSON body", decodeError(t, res).Error)
	})

	t.Run("store failure", func(t *testing.T) {
		newMemStore(t)
		createIssue = func(context.Context, database.DB, model.NewIssue) (*model.Issue, error) {
			return nil, errors.New("connection reset")
		}
		res := do(newServer(nil), http.MethodPost, "/api/issues", `{"title":"t","description":"d"}`)
		require.Equal(t, http.StatusInternalServerError, res.Code)
		require.JSONEq(t, `{"error":"Internal Server Error"}`, res.Body.String())
	})

	t.Run("assignee lookup failure", func(t *testing.T) {
		newMemStore(t)
		getUserByID = func(context.Context, database.DB, string) (*model.User, error) { return nil, errors.New("db") }
		res := do(newServer(nil), http.MethodPost, "/api/issues", `{"title":"t","description":"d","assigneeId":"`+annID+`"}`)
		require.Equal(t, http.StatusInternalServerError, res.Code)
	})
}

func TestListAndGetIssueHandlers(t *testing.T) {
	newMemStore(t)
	e := newServer(nil)

	res := do(e, http.MethodGet, "/api/issues", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `[]`, res.Body.String())

	for _, title := range []string{"first", "second", "third"} {
		require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/api/issues", `{"title":"`+title+`","description":"d"}`).Code)
	}
	res = do(e, http.MethodGet, "/api/issues", "")
	var list []api.IssueResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.Len(t, list, 3)
	require.Equal(t, "third", list[0].Title)
	require.Equal(t, "first", list[2].Title)

	for _, bad := range []string{"abc", "0", "-1", "1.5", "+1", "2147483648", "3000000000"} {
		res = do(e, http.MethodGet, "/api/issues/"+bad, "")
		require.Equal(t, http.StatusBadRequest, res.Code, bad)
		require.Equal(t, "Invalid id", decodeError(t, res).Error)
	}

	res = do(e, http.MethodGet, "/api/issues/99", "")
	require.Equal(t, http.StatusNotFound, res.Code)

	res = do(e, http.MethodGet, "/api/issues/2147483647", "")
	require.Equal(t, http.StatusNotFound, res.Code)
	require.Equal(t, "Issue not found", decodeError(t, res).Error)

	listIssues = func(context.Context, database.DB) ([]model.Issue, error) { return nil, errors.New("db") }
	require.Equal(t, http.StatusInternalServerError, do(e, http.MethodGet, "/api/issues", "").Code)
	getIssueByID = func(context.Context, database.DB, int) (*model.Issue, error) { return nil, errors.New("db") }
	require.Equal(t, http.StatusInternalServerError, do(e, http.MethodGet, "/api/issues/1", "").Code)
}

func TestUpdateIssueHandler(t *testing.T) {
	setup := func(t *testing.T) (*memStore, *fakeRecorder, *echo.Echo, int) {
		m := newMemStore(t)
		rec := &fakeRecorder{}
		e := newServer(rec)
		res := do(e, http.MethodPost, "/api/issues", `{"title":"t","description":"d","assigneeId":"`+annID+`"}`)
		require.Equal(t, http.StatusCreated, res.Code)
		return m, rec, e, decodeIssue(t, res).ID
	}

	t.Run("status change", func(t *testing.T) {
		_, rec, e, id := setup(t)
		res := do(e, http.MethodPatch, fmt.Sprintf("/api/issues/%d", id), `{"status":"IN_PROGRESS"}`)
		require.Equal(t, http.StatusOK, res.Code)
		got := decodeIssue(t, res)
		require.Equal(t, "IN_PROGRESS", got.Status)
		require.Equal(t, "t", got.Title)
		require.Equal(t, annID, *got.AssignedTo)
		require.True(t, got.UpdatedAt.After(got.CreatedAt))
		require.Len(t, rec.events, 2)
		require.Equal(t, model.IssueActionUpdated, rec.events[1].action)
	})

	t.Run("empty description stored as null", func(t *testing.T) {
		_, _, e, id := setup(t)
		res := do(e, http.MethodPatch, fmt.Sprintf("/api/issues/%d", id), `{"description":""}`)
		require.Equal(t, http.StatusOK, res.Code)
		require.Nil(t, decodeIssue(t, res).Description)

		res = do(e, http.MethodGet, fmt.Sprintf("/api/issues/%d", id), "")
		require.Nil(t, decodeIssue(t, res).Description)
	})

	t.Run("unassign and reassign", func(t *testing.T) {
		_, _, e, id := setup(t)
		path := fmt.Sprintf("/api/issues/%d", id)
		res := do(e, http.MethodPatch, path, `{"assigneeId":null}`)
		require.Equal(t, http.StatusOK, res.Code)
		got := decodeIssue(t, res)
		require.Nil(t, got.AssignedTo)
		require.Nil(t, got.Assignee)

		res = do(e, http.MethodPatch, path, `{"assigneeId":"`+bobID+`"}`)
		require.Equal(t, http.StatusOK, res.Code)
		require.Equal(t, "Bob", *decodeIssue(t, res).Assignee.Name)

		res = do(e, http.MethodPatch, path, `{"assigneeId":""}`)
		require.Equal(t, http.StatusOK, res.Code)
		require.Nil(t, decodeIssue(t, res).AssignedTo)
	})

	t.Run("same values are a valid update", func(t *testing.T) {
		_, _, e, id := setup(t)
		res := do(e, http.MethodPatch, fmt.Sprintf("/api/issues/%d", id), `{"title":"t","status":"OPEN"}`)
		require.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("no fields", func(t *testing.T) {
		_, rec, e, id := setup(t)
		for _, body := range []string{`{}`, `{"unknown":1}`} {
			res := do(e, http.MethodPatch, fmt.Sprintf("/api/issues/%d", id), body)
			require.Equal(t, http.StatusBadRequest, res.Code)
			got := decodeError(t, res)
			require.Equal(t, "Validation failed", got.Error)
			require.Equal(t, []string{"No fields to update"}, got.Details.FormErrors)
		}
		require.Len(t, rec.events, 1)
	})

	t.Run("invalid fields", func(t *testing.T) {
		_, _, e, id := setup(t)
		path := fmt.Sprintf("/api/issues/%d", id)
		for body, field := range map[string]string{
			`{"status":"DONE"}`:                        "status",
			`{"title":""}`:                             "title",
			`{"title":null}`:                           "title",
			`{"title":"` + strings.Repeat("x", 256) + `"}`: "title",
		} {
			res := do(e, http.MethodPatch, path, body)
			require.Equal(t, http.StatusBadRequest, res.Code, body)
			require.NotEmpty(t, decodeError(t, res).Details.FieldErrors[field], body)
		}
	})

	t.Run("unknown assignee", func(t *testing.T) {
		_, _, e, id := setup(t)
		res := do(e, http.MethodPatch, fmt.Sprintf("/api/issues/%d", id), `{"assigneeId":"cq2b6k0n3bkc73c9k1b0"}`)
		require.Equal(t, http.StatusBadRequest, res.Code)
		require.Equal(t, "Assignee not found", decodeError(t, res).Error)
		iss, err := getIssueByID(context.Background(), nil, id)
		require.NoError(t, err)
		require.Equal(t, annID, *iss.AssignedTo)
	})

	t.Run("missing issue", func(t *testing.T) {
		_, _, e, _ := setup(t)
		res := do(e, http.MethodPatch, "/api/issues/999", `{"status":"CLOSED"}`)
		require.Equal(t, http.StatusNotFound, res.Code)
		require.Equal(t, "Issue not found", decodeError(t, res).Error)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, _, e, _ := setup(t)
		res := do(e, http.MethodPatch, "/api/issues/x", `{"status":"CLOSED"}`)
		require.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		_, _, e, id := setup(t)
		updateIssue = func(context.Context, database.DB, int, model.IssuePatch) (*model.Issue, error) {
			return nil, errors.New("boom")
		}
		res := do(e, http.MethodPatch, fmt.Sprintf("/api/issues/%d", id), `{"status":"CLOSED"}`)
		require.Equal(t, http.StatusInternalServerError, res.Code)
	})
}

func TestDeleteIssueHandler(t *testing.T) {
	m := newMemStore(t)
	rec := &fakeRecorder{}
	e := newServer(rec)

	res := do(e, http.MethodPost, "/api/issues", `{"title":"t","description":"d"}`)
	id := decodeIssue(t, res).ID
	path := fmt.Sprintf("/api/issues/%d", id)

	res = do(e, http.MethodDelete, "/api/issues/999", "")
	require.Equal(t, http.StatusNotFound, res.Code)
	require.Equal(t, 1, m.count())

	res = do(e, http.MethodDelete, "/api/issues/abc", "")
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Equal(t, "Invalid id", decodeError(t, res).Error)

	res = do(e, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `{"ok":true}`, res.Body.String())

	require.Equal(t, http.StatusNotFound, do(e, http.MethodGet, path, "").Code)
	require.Equal(t, http.StatusNotFound, do(e, http.MethodDelete, path, "").Code)
	require.Equal(t, model.IssueActionDeleted, rec.events[len(rec.events)-1].action)

	deleteIssue = func(context.Context, database.DB, int) error { return errors.New("boom") }
	require.Equal(t, http.StatusInternalServerError, do(e, http.MethodDelete, path, "").Code)
}

func TestConcurrentUpdateAndDelete(t *testing.T) {
	for i := 0; i < 20; i++ {
		m := newMemStore(t)
		e := newServer(&fakeRecorder{})
		id := decodeIssue(t, do(e, http.MethodPost, "/api/issues", `{"title":"t","description":"d"}`)).ID
		path := fmt.Sprintf("/api/issues/%d", id)

		var wg sync.WaitGroup
		var updateCode, deleteCode int
		wg.Add(2)
		go func() {
			defer wg.Done()
			updateCode = do(e, http.MethodPatch, path, `{"status":"CLOSED"}`).Code
		}()
		go func() {
			defer wg.Done()
			deleteCode = do(e, http.MethodDelete, path, "").Code
		}()
		wg.Wait()

		require.Equal(t, http.StatusOK, deleteCode)
		require.Contains(t, []int{http.StatusOK, http.StatusNotFound}, updateCode)
		require.Equal(t, 0, m.count())
		require.Equal(t, http.StatusNotFound, do(e, http.MethodGet, path, "").Code)
	}
}

func TestListIssueEventsHandler(t *testing.T) {
	t.Cleanup(restore)
	e := newServer(nil)
	actor := annID
	listIssueEvents = func(_ context.Context, _ database.DB, issueID int) ([]model.IssueEvent, error) {
		require.Equal(t, 4, issueID)
		return []model.IssueEvent{
			{ID: 2, IssueID: 4, ActorID: &actor, Action: model.IssueActionUpdated},
			{ID: 1, IssueID: 4, Action: model.IssueActionCreated},
		}, nil
	}
	res := do(e, http.MethodGet, "/api/issues/4/events", "")
	require.Equal(t, http.StatusOK, res.Code)
	var got []api.IssueEventResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "updated", got[0].Action)
	require.Equal(t, annID, *got[0].ActorID)
	require.Nil(t, got[1].ActorID)

	require.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/issues/zero/events", "").Code)

	listIssueEvents = func(context.Context, database.DB, int) ([]model.IssueEvent, error) { return nil, errors.New("db") }
	require.Equal(t, http.StatusInternalServerError, do(e, http.MethodGet, "/api/issues/4/events", "").Code)
}
