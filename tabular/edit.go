package tabular

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// EditState is the lifecycle of an inline cell edit.
type EditState int

const (
	EditNone EditState = iota
	EditEditing
	EditSaving
	EditSuccess
	EditError
)

var (
	// ErrEditActive is returned when a second edit is started while one is
	// underway; concurrent multi-cell edits are structurally impossible.
	ErrEditActive = errors.New("tabular: another edit is active")

	// ErrNoEdit is returned when commit or pending-value updates arrive
	// with no edit in progress.
	ErrNoEdit = errors.New("tabular: no edit in progress")
)

// SaveFunc persists an edited cell. It is injected by the host; failures are
// captured in the edit state rather than propagated.
type SaveFunc func(ctx context.Context, rowID, columnKey string, value any) error

// EditSession serializes inline cell edits: at most one cell may be edited
// at a time. A failed save keeps the pending value so the user can retry or
// cancel without losing input; a successful save shows briefly and then
// clears itself.
type EditSession struct {
	mu sync.Mutex

	state     EditState
	rowID     string
	columnKey string
	original  any
	pending   any
	saveErr   error

	save         SaveFunc
	successDelay time.Duration
	clearTimer   *time.Timer
	generation   uint64
}

// NewEditSession builds an idle session around the injected save callback.
func NewEditSession(save SaveFunc) *EditSession {
	return &EditSession{save: save, successDelay: 1500 * time.Millisecond}
}

// WithSuccessDelay overrides how long the Success state stays visible.
func (s *EditSession) WithSuccessDelay(d time.Duration) *EditSession {
	if d > 0 {
		s.successDelay = d
	}
	return s
}

// StartEdit begins editing a cell. It fails with ErrEditActive while another
// edit is underway; a lingering Success display does not block.
func (s *EditSession) StartEdit(rowID, columnKey string, current any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case EditNone:
	case EditSuccess:
		s.stopTimerLocked()
	default:
		return ErrEditActive
	}

	s.generation++
	s.state = EditEditing
	s.rowID = rowID
	s.columnKey = columnKey
	s.original = current
	s.pending = current
	s.saveErr = nil
	return nil
}

// SetPending records the user's in-progress input.
func (s *EditSession) SetPending(value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != EditEditing && s.state != EditError {
		return ErrNoEdit
	}
	s.pending = value
	s.state = EditEditing
	s.saveErr = nil
	return nil
}

// CommitEdit saves the pending value through the injected callback. A
// callback failure (or panic) never escapes: it lands in the Error state
// with the pending value retained. Only state-machine misuse is returned as
// an error.
func (s *EditSession) CommitEdit(ctx context.Context, value any) error {
	s.mu.Lock()
	if s.state != EditEditing && s.state != EditError {
		s.mu.Unlock()
		return ErrNoEdit
	}
	s.pending = value
	s.state = EditSaving
	s.saveErr = nil
	gen := s.generation
	rowID, columnKey := s.rowID, s.columnKey
	save := s.save
	s.mu.Unlock()

	err := runSave(ctx, save, rowID, columnKey, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	// The session may have been cancelled or restarted while saving.
	if s.generation != gen || s.state != EditSaving {
		return nil
	}
	if err != nil {
		s.state = EditError
		s.saveErr = err
		return nil
	}
	s.state = EditSuccess
	s.clearTimer = time.AfterFunc(s.successDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == gen && s.state == EditSuccess {
			s.resetLocked()
		}
	})
	return nil
}

// CancelEdit discards the pending value and returns to idle unconditionally.
func (s *EditSession) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.stopTimerLocked()
	s.resetLocked()
}

// State returns the current lifecycle state.
func (s *EditSession) State() EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cell returns the row id and column key being edited.
func (s *EditSession) Cell() (rowID, columnKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowID, s.columnKey
}

// Pending returns the value the user has typed so far.
func (s *EditSession) Pending() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Original returns the cell value captured when the edit started, so hosts
// can restore the display after a cancel.
func (s *EditSession) Original() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original
}

// Err returns the failure of the last save attempt, if any.
func (s *EditSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

func (s *EditSession) stopTimerLocked() {
	if s.clearTimer != nil {
		s.clearTimer.Stop()
		s.clearTimer = nil
	}
}

func (s *EditSession) resetLocked() {
	s.state = EditNone
	s.rowID = ""
	s.columnKey = ""
	s.original = nil
	s.pending = nil
	s.saveErr = nil
}

func runSave(ctx context.Context, save SaveFunc, rowID, columnKey string, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tabular: save panicked: %v", r)
		}
	}()
	if save == nil {
		return errors.New("tabular: no save callback configured")
	}
	return save(ctx, rowID, columnKey, value)
}
