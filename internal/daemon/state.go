package daemon

import (
	"sync"
	"time"

	"dropzone/internal/transfer"
)

type JobPhase string

const (
	PhaseQueued  JobPhase = "QUEUED"
	PhaseRunning JobPhase = "RUNNING"
	PhaseDone    JobPhase = "DONE"
)

// Handle tracks one submitted task from the coordinator's side.
type Handle struct {
	mu          sync.RWMutex
	TrackingID  string
	Folder      string
	SubmittedAt time.Time
	StartedAt   *time.Time
	FinishedAt  *time.Time
	outcome     transfer.Outcome
	doneCh      chan struct{}
}

type HandleSnapshot struct {
	TrackingID  string     `json:"tracking_id"`
	Folder      string     `json:"folder"`
	Phase       JobPhase   `json:"phase"`
	SubmittedAt time.Time  `json:"submitted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Succeeded   bool       `json:"succeeded"`
	Error       string     `json:"error,omitempty"`
}

func newHandle(id, folder string) *Handle {
	return &Handle{
		TrackingID:  id,
		Folder:      folder,
		SubmittedAt: time.Now(),
		doneCh:      make(chan struct{}),
	}
}

func (h *Handle) markStarted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.StartedAt = new(time.Now())
}

func (h *Handle) finish(out transfer.Outcome) {
	h.mu.Lock()
	h.outcome = out
	h.FinishedAt = new(time.Now())
	h.mu.Unlock()

	close(h.doneCh)
}

// Done reports whether the task has finished, without blocking.
func (h *Handle) Done() bool {
	select {
	case <-h.doneCh:
		return true
	default:
		return false
	}
}

// Wait blocks until the task finishes.
func (h *Handle) Wait() transfer.Outcome {
	<-h.doneCh
	return h.Outcome()
}

func (h *Handle) Outcome() transfer.Outcome {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.outcome
}

func (h *Handle) Phase() JobPhase {
	if h.Done() {
		return PhaseDone
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.StartedAt != nil {
		return PhaseRunning
	}
	return PhaseQueued
}

func (h *Handle) Snapshot() HandleSnapshot {
	phase := h.Phase()

	h.mu.RLock()
	defer h.mu.RUnlock()

	snap := HandleSnapshot{
		TrackingID:  h.TrackingID,
		Folder:      h.Folder,
		Phase:       phase,
		SubmittedAt: h.SubmittedAt,
		StartedAt:   h.StartedAt,
		FinishedAt:  h.FinishedAt,
		Succeeded:   h.outcome.Succeeded,
	}
	if h.outcome.Err != nil {
		snap.Error = h.outcome.Err.Error()
	}
	return snap
}
