package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kojiurata-bit/reading-tracker/internal/database"
)

func setupBackfillTestDB(t *testing.T) (*database.BackfillState, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_backfill_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return database.NewBackfillState(db), cleanup
}

type fakeScheduler struct {
	running bool
	next    *time.Time
	runErr  error
	calls   int
}

func (f *fakeScheduler) RunNow() error { f.calls++; return f.runErr }

func (f *fakeScheduler) IsRunning() bool { return f.running }

func (f *fakeScheduler) GetNextRunTime() *time.Time { return f.next }

func TestBackfillController_Run(t *testing.T) {
	t.Run("enqueues a pass", func(t *testing.T) {
		state, cleanup := setupBackfillTestDB(t)
		defer cleanup()

		sched := &fakeScheduler{}
		controller := NewBackfillController(state, sched)

		router := gin.New()
		router.POST("/api/backfill/run", controller.Run)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/backfill/run", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), "metadata backfill enqueued")
		assert.Equal(t, 1, sched.calls)
	})

	t.Run("returns 503 when task queue is disabled", func(t *testing.T) {
		state, cleanup := setupBackfillTestDB(t)
		defer cleanup()

		controller := NewBackfillController(state, nil)

		router := gin.New()
		router.POST("/api/backfill/run", controller.Run)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/backfill/run", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "task queue is not enabled")
	})

	t.Run("returns 500 when enqueue fails", func(t *testing.T) {
		state, cleanup := setupBackfillTestDB(t)
		defer cleanup()

		sched := &fakeScheduler{runErr: errors.New("queue gone")}
		controller := NewBackfillController(state, sched)

		router := gin.New()
		router.POST("/api/backfill/run", controller.Run)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/backfill/run", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestBackfillController_Status(t *testing.T) {
	t.Run("reports empty state before any run", func(t *testing.T) {
		state, cleanup := setupBackfillTestDB(t)
		defer cleanup()

		controller := NewBackfillController(state, nil)

		router := gin.New()
		router.GET("/api/backfill/status", controller.Status)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/backfill/status", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp BackfillStatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.LastRunAt)
		assert.Empty(t, resp.LastStatus)
		assert.Zero(t, resp.SuppressedRecords)
		assert.False(t, resp.SchedulerRunning)
		assert.Nil(t, resp.NextRunAt)
	})

	t.Run("reports recorded state and schedule", func(t *testing.T) {
		state, cleanup := setupBackfillTestDB(t)
		defer cleanup()

		lastRun := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, state.SetLastRunAt(lastRun))
		require.NoError(t, state.SetNegativeCache(map[uint]int64{3: 1, 9: 2}))
		require.NoError(t, state.SetLastStatus("success", "5 checked, 2 updated, 1 cached"))

		next := time.Date(2025, 6, 2, 5, 30, 0, 0, time.UTC)
		sched := &fakeScheduler{running: true, next: &next}
		controller := NewBackfillController(state, sched)

		router := gin.New()
		router.GET("/api/backfill/status", controller.Status)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/backfill/status", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp BackfillStatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.LastRunAt)
		assert.True(t, resp.LastRunAt.Equal(lastRun))
		assert.Equal(t, "success", resp.LastStatus)
		assert.Equal(t, "5 checked, 2 updated, 1 cached", resp.LastMessage)
		assert.Equal(t, 2, resp.SuppressedRecords)
		assert.True(t, resp.SchedulerRunning)
		require.NotNil(t, resp.NextRunAt)
		assert.True(t, resp.NextRunAt.Equal(next))
	})
}
