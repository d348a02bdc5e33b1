package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Startup step names, in the order the server completes them
const (
	StepDatabase   = "Database connection"
	StepMigrations = "Running migrations"
	StepServices   = "Initializing services"
	StepScheduler  = "Starting scheduler"
)

// StartupStep is one stage of server initialization
type StartupStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// StartupStatus tracks initialization progress for the health endpoint
type StartupStatus struct {
	mu       sync.RWMutex
	ready    bool
	progress int
	steps    []StartupStep
}

// NewStartupStatus creates a status with the standard startup steps pending
func NewStartupStatus() *StartupStatus {
	return &StartupStatus{
		steps: []StartupStep{
			{Name: StepDatabase},
			{Name: StepMigrations},
			{Name: StepServices},
			{Name: StepScheduler},
		},
	}
}

// CompleteStep marks a step as completed and updates progress
func (s *StartupStatus) CompleteStep(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.steps {
		if s.steps[i].Name == name {
			s.steps[i].Completed = true
			break
		}
	}

	completed := 0
	for _, step := range s.steps {
		if step.Completed {
			completed++
		}
	}
	s.progress = (completed * 100) / len(s.steps)
}

// MarkReady marks the server as fully initialized
func (s *StartupStatus) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	s.progress = 100
}

// IsReady returns whether the server is fully initialized
func (s *StartupStatus) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports readiness and database reachability
type HealthHandler struct {
	status *StartupStatus
	db     Pinger
}

// NewHealthHandler creates a new health handler. A nil db skips the ping.
func NewHealthHandler(status *StartupStatus, db Pinger) *HealthHandler {
	return &HealthHandler{status: status, db: db}
}

type healthResponse struct {
	Status   string        `json:"status"`
	Progress int           `json:"progress"`
	Steps    []StartupStep `json:"steps,omitempty"`
	Database string        `json:"database,omitempty"`
}

// Health returns 200 once the server is ready and the database answers,
// 503 otherwise
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.status.mu.RLock()
	resp := healthResponse{Status: "starting", Progress: h.status.progress}
	ready := h.status.ready
	if !ready {
		resp.Steps = append([]StartupStep(nil), h.status.steps...)
	}
	h.status.mu.RUnlock()

	if !ready {
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Status = "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Database = "ok"
	}
	respondJSON(w, http.StatusOK, resp)
}
