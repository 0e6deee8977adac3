// Package workflow is the page shell: the Idle, Loading, Result state machine
// around one receipt upload, and the in-memory store of live pages.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lowvie/internal/analysis"
	"lowvie/internal/models"
	"lowvie/internal/upload"

	"go.uber.org/zap"
)

var (
	ErrBusy       = errors.New("an upload is already being processed")
	ErrSuperseded = errors.New("upload was cancelled or replaced")
	ErrClosed     = errors.New("page is closed")
)

// FailureNotice is the only message a user sees for a failed upload.
const FailureNotice = "Failed to process receipt"

type State int

const (
	StateIdle State = iota
	StateLoading
	StateResult
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateResult:
		return "result"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Analyzer turns an uploaded receipt into parsed expenses.
type Analyzer interface {
	AnalyzeReceipt(ctx context.Context, file upload.File) (*models.AnalysisResult, error)
}

type Transition struct {
	From   State
	To     State
	Notice string
	At     time.Time
}

// Observer is told about every state change of a page.
type Observer func(pageID string, t Transition)

type Options struct {
	// MinLoading keeps the loading screen up at least this long. Zero disables it.
	MinLoading time.Duration
	Observers  []Observer
}

// Status is a copy of the shell state for rendering.
type Status struct {
	State  State
	Notice string
	View   *analysis.View
}

type Shell struct {
	mu      sync.Mutex
	id      string
	state   State
	view    *analysis.View
	notice  string
	attempt uint64
	cancel  context.CancelFunc

	root      context.Context
	closeRoot context.CancelFunc

	analyzer   Analyzer
	newView    func(*models.AnalysisResult) *analysis.View
	minLoading time.Duration
	observers  []Observer
	logger     *zap.Logger
}

func NewShell(
	id string,
	analyzer Analyzer,
	newView func(*models.AnalysisResult) *analysis.View,
	opts Options,
	logger *zap.Logger,
) *Shell {
	root, closeRoot := context.WithCancel(context.Background())
	return &Shell{
		id:         id,
		state:      StateIdle,
		root:       root,
		closeRoot:  closeRoot,
		analyzer:   analyzer,
		newView:    newView,
		minLoading: opts.MinLoading,
		observers:  opts.Observers,
		logger:     logger.With(zap.String("page_id", id)),
	}
}

func (s *Shell) ID() string {
	return s.id
}

// OnFileUpload is the upload widget callback.
func (s *Shell) OnFileUpload(file upload.File) error {
	_, err := s.Submit(file)
	return err
}

// Submit moves to Loading, drops any previous result and notice, and
// analyzes the file in the background. The returned channel yields the
// outcome once the attempt settles.
func (s *Shell) Submit(file upload.File) (<-chan error, error) {
	s.mu.Lock()
	if s.root.Err() != nil {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.state == StateLoading {
		s.mu.Unlock()
		return nil, ErrBusy
	}

	s.attempt++
	attempt := s.attempt
	ctx, cancel := context.WithCancel(s.root)
	s.cancel = cancel
	s.view = nil
	t := s.transitionLocked(StateLoading, "")
	s.mu.Unlock()

	s.notify(t)
	s.logger.Info("Receipt submitted",
		zap.String("file", file.Name),
		zap.Int("size", file.Size()),
		zap.Uint64("attempt", attempt),
	)

	done := make(chan error, 1)
	go func() {
		defer cancel()
		done <- s.run(ctx, attempt, file)
	}()
	return done, nil
}

// Upload is Submit that waits for the attempt to settle.
func (s *Shell) Upload(ctx context.Context, file upload.File) error {
	done, err := s.Submit(file)
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shell) run(ctx context.Context, attempt uint64, file upload.File) error {
	started := time.Now()
	result, err := s.analyzer.AnalyzeReceipt(ctx, file)

	if wait := s.minLoading - time.Since(started); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	s.mu.Lock()
	if attempt != s.attempt || s.state != StateLoading {
		s.mu.Unlock()
		s.logger.Debug("Discarding superseded upload", zap.Uint64("attempt", attempt))
		return ErrSuperseded
	}

	var t Transition
	if err != nil {
		s.view = nil
		t = s.transitionLocked(StateIdle, FailureNotice)
	} else {
		s.view = s.newView(result)
		t = s.transitionLocked(StateResult, "")
	}
	s.cancel = nil
	s.mu.Unlock()

	s.notify(t)

	if err != nil {
		s.logger.Error("Receipt analysis failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return fmt.Errorf("failed to process receipt: %w", err)
	}

	s.logger.Info("Receipt analyzed",
		zap.Int("expenses", len(result.Expenses)),
		zap.String("total", result.TotalAmount.StringFixed(2)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// Cancel aborts an in-flight upload and returns to Idle without a notice.
// It reports whether there was anything to cancel.
func (s *Shell) Cancel() bool {
	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		return false
	}
	s.abortLocked()
	t := s.transitionLocked(StateIdle, "")
	s.mu.Unlock()

	s.notify(t)
	s.logger.Info("Upload cancelled")
	return true
}

// Reset returns to an empty Idle page from any state.
func (s *Shell) Reset() {
	s.mu.Lock()
	if s.state == StateLoading {
		s.abortLocked()
	}
	s.view = nil
	if s.state == StateIdle && s.notice == "" {
		s.mu.Unlock()
		return
	}
	t := s.transitionLocked(StateIdle, "")
	s.mu.Unlock()

	s.notify(t)
}

// Close cancels any in-flight upload and refuses further submissions.
func (s *Shell) Close() {
	s.mu.Lock()
	if s.state == StateLoading {
		s.abortLocked()
		s.state = StateIdle
	}
	s.mu.Unlock()
	s.closeRoot()
}

func (s *Shell) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{State: s.state, Notice: s.notice, View: s.view}
}

func (s *Shell) abortLocked() {
	s.attempt++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Shell) transitionLocked(to State, notice string) Transition {
	t := Transition{From: s.state, To: to, Notice: notice, At: time.Now()}
	s.state = to
	s.notice = notice
	return t
}

func (s *Shell) notify(t Transition) {
	for _, observe := range s.observers {
		observe(s.id, t)
	}
}

// LogTransitions is an Observer writing every transition to the logger.
func LogTransitions(logger *zap.Logger) Observer {
	return func(pageID string, t Transition) {
		logger.Debug("Page transition",
			zap.String("page_id", pageID),
			zap.Stringer("from", t.From),
			zap.Stringer("to", t.To),
			zap.String("notice", t.Notice),
		)
	}
}
