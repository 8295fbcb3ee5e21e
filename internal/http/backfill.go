package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BackfillStateReader exposes the scheduling state the status endpoint
// reports. The backfill runner owns writes; this side only reads.
type BackfillStateReader interface {
	LastRunAt() (time.Time, error)
	NegativeCache() (map[uint]int64, error)
	LastStatus() (status, message string)
}

// RunScheduler triggers passes and reports the next scheduled one.
type RunScheduler interface {
	RunNow() error
	IsRunning() bool
	GetNextRunTime() *time.Time
}

// BackfillController handles the metadata backfill trigger and status
// endpoints.
type BackfillController struct {
	state     BackfillStateReader
	scheduler RunScheduler
}

func NewBackfillController(state BackfillStateReader, scheduler RunScheduler) *BackfillController {
	return &BackfillController{
		state:     state,
		scheduler: scheduler,
	}
}

// BackfillStatusResponse reports the most recent pass and the next
// scheduled one.
type BackfillStatusResponse struct {
	LastRunAt         *time.Time `json:"last_run_at"` // null = never ran
	LastStatus        string     `json:"last_status,omitempty"`
	LastMessage       string     `json:"last_message,omitempty"`
	SuppressedRecords int        `json:"suppressed_records"` // live negative-cache entries
	SchedulerRunning  bool       `json:"scheduler_running"`
	NextRunAt         *time.Time `json:"next_run_at,omitempty"`
}

// Run handles POST /api/backfill/run. The pass itself executes on the task
// queue; the runner's cooldown makes repeated triggers harmless.
func (bc *BackfillController) Run(c *gin.Context) {
	if bc.scheduler == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is not enabled")
		return
	}

	if err := bc.scheduler.RunNow(); err != nil {
		respondInternalError(c, err, "enqueue backfill")
		return
	}

	respondAccepted(c, "metadata backfill enqueued", nil)
}

// Status handles GET /api/backfill/status.
func (bc *BackfillController) Status(c *gin.Context) {
	lastRun, err := bc.state.LastRunAt()
	if err != nil {
		respondInternalError(c, err, "read backfill state")
		return
	}
	cache, err := bc.state.NegativeCache()
	if err != nil {
		respondInternalError(c, err, "read negative cache")
		return
	}
	status, message := bc.state.LastStatus()

	resp := BackfillStatusResponse{
		LastStatus:        status,
		LastMessage:       message,
		SuppressedRecords: len(cache),
	}
	if !lastRun.IsZero() {
		resp.LastRunAt = &lastRun
	}
	if bc.scheduler != nil {
		resp.SchedulerRunning = bc.scheduler.IsRunning()
		resp.NextRunAt = bc.scheduler.GetNextRunTime()
	}

	c.IndentedJSON(http.StatusOK, resp)
}
