package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartboard-dev/smartboard/db"
	"github.com/smartboard-dev/smartboard/internal/auth"
	"github.com/smartboard-dev/smartboard/internal/handlers"
	"github.com/smartboard-dev/smartboard/internal/models"
	"github.com/smartboard-dev/smartboard/internal/refresher"
	"github.com/smartboard-dev/smartboard/internal/router"
	"github.com/smartboard-dev/smartboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	router  *gin.Engine
	notices *store.NoticeStore
	board   *refresher.Refresher
	hub     *handlers.BoardHub
	cookies []*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	require.NoError(t, auth.Init("test-secret"))

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, db.Seed(gdb, "admin", "secret"))
	t.Cleanup(func() { _ = db.Close(gdb) })

	notices := store.NewNoticeStore(gdb)
	users := store.NewUserStore(gdb)
	hub := handlers.NewBoardHub(nil)
	board := refresher.New(notices.ListAll, time.Hour, func(_ []models.Notice) {
		hub.BroadcastRefresh()
	})
	board.Start()
	t.Cleanup(board.Stop)

	r := router.New(router.Deps{
		DB:             gdb,
		Notices:        notices,
		Users:          users,
		Board:          board,
		Hub:            hub,
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	return &testEnv{router: r, notices: notices, board: board, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range e.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"username": "admin",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	e.cookies = w.Result().Cookies()
	require.NotEmpty(t, e.cookies)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWritesRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/notices", gin.H{
		"title":       "Exam Notice",
		"description": "Final exam schedule",
		"priority":    models.PriorityHigh,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNoticeCRUDFlow(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/api/notices", gin.H{
		"title":       "Exam Notice",
		"description": "Final exam schedule",
		"priority":    models.PriorityHigh,
		"status":      models.StatusApproved,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created handlers.NoticeSummary
	decode(t, w, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "admin", created.PublishedBy)
	assert.Equal(t, time.Now().Format("2006-01-02"), created.Date)

	w = env.do(t, http.MethodGet, "/api/notices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []handlers.NoticeSummary
	decode(t, w, &listed)
	require.Len(t, listed, 1)

	w = env.do(t, http.MethodPut, "/api/notices/"+itoa(created.ID), gin.H{
		"title":       "Exam Notice (rescheduled)",
		"description": "Final exam moved to Friday",
		"priority":    models.PriorityMedium,
		"status":      models.StatusPending,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated handlers.NoticeSummary
	decode(t, w, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Exam Notice (rescheduled)", updated.Title)
	assert.Equal(t, models.StatusPending, updated.Status)

	w = env.do(t, http.MethodDelete, "/api/notices/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/notices/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/notices/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateValidatesFields(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	// Blank-after-trim title.
	w := env.do(t, http.MethodPost, "/api/notices", gin.H{
		"title":       "   ",
		"description": "Body",
		"priority":    models.PriorityLow,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Out-of-enumeration priority.
	w = env.do(t, http.MethodPost, "/api/notices", gin.H{
		"title":       "Title",
		"description": "Body",
		"priority":    "Critical",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Out-of-enumeration status.
	w = env.do(t, http.MethodPost, "/api/notices", gin.H{
		"title":       "Title",
		"description": "Body",
		"priority":    models.PriorityLow,
		"status":      "Archived",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Status defaults to Pending when omitted.
	w = env.do(t, http.MethodPost, "/api/notices", gin.H{
		"title":       "Title",
		"description": "Body",
		"priority":    models.PriorityLow,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created handlers.NoticeSummary
	decode(t, w, &created)
	assert.Equal(t, models.StatusPending, created.Status)
}

func TestListNoticesAppliesFilterParams(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	seed := []gin.H{
		{"title": "Exam Notice", "description": "Schedule", "priority": models.PriorityHigh, "status": models.StatusApproved},
		{"title": "Holiday", "description": "Campus closed", "priority": models.PriorityLow, "status": models.StatusPending},
	}
	for _, body := range seed {
		w := env.do(t, http.MethodPost, "/api/notices", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/notices?q=notice&status=Approved", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []handlers.NoticeSummary
	decode(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Exam Notice", rows[0].Title)

	w = env.do(t, http.MethodGet, "/api/notices?status=All&priority=Low", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows = nil
	decode(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Holiday", rows[0].Title)

	w = env.do(t, http.MethodGet, "/api/notices?q=zzz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows = nil
	decode(t, w, &rows)
	assert.Empty(t, rows)
}

func TestBoardShowsOnlyPublishedNotices(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	for _, body := range []gin.H{
		{"title": "Approved Notice", "description": "Visible", "priority": models.PriorityHigh, "status": models.StatusApproved},
		{"title": "Pending Notice", "description": "Hidden", "priority": models.PriorityLow, "status": models.StatusPending},
		{"title": "Draft Notice", "description": "Hidden", "priority": models.PriorityLow, "status": models.StatusDraft},
	} {
		w := env.do(t, http.MethodPost, "/api/notices", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// The board is public: drop the session before browsing.
	env.cookies = nil

	w := env.do(t, http.MethodGet, "/api/board", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notices       []handlers.NoticeSummary `json:"notices"`
		LastRefreshed string                   `json:"last_refreshed"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Notices, 1)
	assert.Equal(t, "Approved Notice", resp.Notices[0].Title)
	assert.NotEmpty(t, resp.LastRefreshed)
}

func TestBoardDetailHidesUnpublished(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/api/notices", gin.H{
		"title":       "Draft Notice",
		"description": "Hidden",
		"priority":    models.PriorityLow,
		"status":      models.StatusDraft,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created handlers.NoticeSummary
	decode(t, w, &created)

	env.cookies = nil
	w = env.do(t, http.MethodGet, "/api/board/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBoardManualRefreshPicksUpDirectWrites(t *testing.T) {
	env := newTestEnv(t)

	// A row written behind the refresher's back is invisible until a
	// refresh happens.
	require.NoError(t, env.notices.Create(&models.Notice{
		Title:       "Backdoor",
		Description: "Inserted directly",
		Priority:    models.PriorityLow,
		Status:      models.StatusApproved,
	}))

	w := env.do(t, http.MethodGet, "/api/board", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var before struct {
		Notices []handlers.NoticeSummary `json:"notices"`
	}
	decode(t, w, &before)
	assert.Empty(t, before.Notices)

	w = env.do(t, http.MethodPost, "/api/board/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/board", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var after struct {
		Notices []handlers.NoticeSummary `json:"notices"`
	}
	decode(t, w, &after)
	require.Len(t, after.Notices, 1)
	assert.Equal(t, "Backdoor", after.Notices[0].Title)
}

func TestHealthReportsDatabase(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "ok", resp["database"])
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
