package models

import (
	"context"
	"sync"
	"time"
)

// Stages reported through ProcessingState.Stage.
const (
	StageIdle       = "Idle"
	StageRunning    = "Running"
	StageCancelling = "Cancelling"
	StageCompleted  = "Completed"
	StageCancelled  = "Cancelled"
	StageFailed     = "Failed"
)

// ProcessingState is a snapshot of the invocation the UI is tracking.
type ProcessingState struct {
	IsActive  bool
	Operator  string
	Stage     string
	Progress  int
	StartTime time.Time
	Elapsed   time.Duration
}

// ProcessingStateRepository tracks the single in-flight invocation and owns its cancel func.
type ProcessingStateRepository struct {
	mu     sync.RWMutex
	state  ProcessingState
	cancel context.CancelFunc
	done   chan struct{}
}

func NewProcessingStateRepository() *ProcessingStateRepository {
	return &ProcessingStateRepository{
		state: ProcessingState{Stage: StageIdle},
	}
}

func (psr *ProcessingStateRepository) GetState() ProcessingState {
	psr.mu.RLock()
	defer psr.mu.RUnlock()
	return psr.state
}

// StartProcessing records a new invocation. Callers must call FinishProcessing once the
// invocation has returned.
func (psr *ProcessingStateRepository) StartProcessing(operator string, cancel context.CancelFunc) {
	psr.mu.Lock()
	defer psr.mu.Unlock()

	psr.state = ProcessingState{
		IsActive:  true,
		Operator:  operator,
		Stage:     StageRunning,
		StartTime: time.Now(),
	}
	psr.cancel = cancel
	psr.done = make(chan struct{})
}

// UpdateProgress ignores values that would move progress backwards.
func (psr *ProcessingStateRepository) UpdateProgress(progress int) {
	psr.mu.Lock()
	defer psr.mu.Unlock()

	if psr.state.IsActive && progress >= psr.state.Progress {
		psr.state.Progress = progress
		psr.state.Elapsed = time.Since(psr.state.StartTime)
	}
}

// FinishProcessing records the terminal stage and wakes anyone blocked in Wait.
func (psr *ProcessingStateRepository) FinishProcessing(stage string) {
	psr.mu.Lock()
	defer psr.mu.Unlock()

	if !psr.state.IsActive {
		return
	}
	psr.state.IsActive = false
	psr.state.Stage = stage
	psr.state.Elapsed = time.Since(psr.state.StartTime)
	if stage == StageCompleted {
		psr.state.Progress = 100
	}
	if psr.cancel != nil {
		psr.cancel()
		psr.cancel = nil
	}
	close(psr.done)
}

// CancelProcessing requests cancellation of the active invocation. It does not wait.
func (psr *ProcessingStateRepository) CancelProcessing() bool {
	psr.mu.Lock()
	defer psr.mu.Unlock()

	if !psr.state.IsActive || psr.cancel == nil {
		return false
	}
	psr.cancel()
	psr.state.Stage = StageCancelling
	return true
}

// Wait blocks until the active invocation, if any, has finished.
func (psr *ProcessingStateRepository) Wait() {
	psr.mu.RLock()
	done := psr.done
	active := psr.state.IsActive
	psr.mu.RUnlock()

	if active && done != nil {
		<-done
	}
}

func (psr *ProcessingStateRepository) IsProcessing() bool {
	psr.mu.RLock()
	defer psr.mu.RUnlock()
	return psr.state.IsActive
}
