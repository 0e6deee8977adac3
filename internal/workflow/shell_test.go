package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lowvie/internal/alternatives"
	"lowvie/internal/analysis"
	"lowvie/internal/email"
	"lowvie/internal/models"
	"lowvie/internal/upload"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type analyzerFunc func(ctx context.Context, file upload.File) (*models.AnalysisResult, error)

func (f analyzerFunc) AnalyzeReceipt(ctx context.Context, file upload.File) (*models.AnalysisResult, error) {
	return f(ctx, file)
}

type transitionLog struct {
	mu          sync.Mutex
	transitions []Transition
}

func (l *transitionLog) observe(_ string, t Transition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transitions = append(l.transitions, t)
}

func (l *transitionLog) states() []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]State, 0, len(l.transitions))
	for _, t := range l.transitions {
		out = append(out, t.To)
	}
	return out
}

func demoResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Expenses: []models.Expense{
			{Category: "material", BusinessName: "Acme", City: "SF", Price: decimal.RequireFromString("20.00"), Contact: "a@acme.com"},
		},
		TotalAmount: decimal.RequireFromString("20.00"),
	}
}

func testShell(t *testing.T, analyzer Analyzer, minLoading time.Duration) (*Shell, *transitionLog) {
	t.Helper()
	catalog, err := alternatives.NewCatalog()
	require.NoError(t, err)
	templates := email.NewTemplates("")

	log := &transitionLog{}
	newView := func(result *models.AnalysisResult) *analysis.View {
		return analysis.NewView(result, catalog, email.NewTemplateDrafter(templates), templates, zap.NewNop())
	}
	shell := NewShell("page-1", analyzer, newView, Options{
		MinLoading: minLoading,
		Observers:  []Observer{log.observe},
	}, zap.NewNop())
	t.Cleanup(shell.Close)
	return shell, log
}

var receipt = upload.File{Name: "receipt.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}

func TestShellSuccessfulUpload(t *testing.T) {
	shell, log := testShell(t, analyzerFunc(func(context.Context, upload.File) (*models.AnalysisResult, error) {
		return demoResult(), nil
	}), 0)

	assert.Equal(t, StateIdle, shell.Status().State)
	require.NoError(t, shell.Upload(context.Background(), receipt))

	status := shell.Status()
	assert.Equal(t, StateResult, status.State)
	assert.Empty(t, status.Notice)
	require.NotNil(t, status.View)
	assert.Equal(t, "20.00", status.View.Result().TotalAmount.StringFixed(2))
	assert.Equal(t, []State{StateLoading, StateResult}, log.states())
}

func TestShellFailureResetsToIdle(t *testing.T) {
	calls := 0
	shell, log := testShell(t, analyzerFunc(func(context.Context, upload.File) (*models.AnalysisResult, error) {
		calls++
		if calls == 1 {
			return demoResult(), nil
		}
		return nil, errors.New("500 from backend")
	}), 0)

	require.NoError(t, shell.Upload(context.Background(), receipt))
	require.Equal(t, StateResult, shell.Status().State)

	err := shell.Upload(context.Background(), receipt)
	require.Error(t, err)

	status := shell.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Equal(t, FailureNotice, status.Notice)
	assert.Nil(t, status.View)
	assert.Equal(t, []State{StateLoading, StateResult, StateLoading, StateIdle}, log.states())
}

func TestShellNewUploadClearsNotice(t *testing.T) {
	fail := true
	shell, _ := testShell(t, analyzerFunc(func(context.Context, upload.File) (*models.AnalysisResult, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return demoResult(), nil
	}), 0)

	require.Error(t, shell.Upload(context.Background(), receipt))
	require.Equal(t, FailureNotice, shell.Status().Notice)

	fail = false
	require.NoError(t, shell.Upload(context.Background(), receipt))
	assert.Empty(t, shell.Status().Notice)
}

func TestShellRejectsUploadWhileLoading(t *testing.T) {
	release := make(chan struct{})
	calls := 0
	shell, _ := testShell(t, analyzerFunc(func(context.Context, upload.File) (*models.AnalysisResult, error) {
		calls++
		<-release
		return demoResult(), nil
	}), 0)

	done, err := shell.Submit(receipt)
	require.NoError(t, err)
	assert.Equal(t, StateLoading, shell.Status().State)

	_, err = shell.Submit(receipt)
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, shell.OnFileUpload(receipt), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StateResult, shell.Status().State)
}

func TestShellCancel(t *testing.T) {
	shell, log := testShell(t, analyzerFunc(func(ctx context.Context, _ upload.File) (*models.AnalysisResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), 0)

	assert.False(t, shell.Cancel())

	done, err := shell.Submit(receipt)
	require.NoError(t, err)
	require.True(t, shell.Cancel())

	assert.ErrorIs(t, <-done, ErrSuperseded)

	status := shell.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Empty(t, status.Notice)
	assert.Equal(t, []State{StateLoading, StateIdle}, log.states())
}

func TestShellSupersededAttemptDoesNotWrite(t *testing.T) {
	late := make(chan struct{})
	shell, _ := testShell(t, analyzerFunc(func(_ context.Context, file upload.File) (*models.AnalysisResult, error) {
		if file.Name == "first.pdf" {
			// Ignores cancellation and answers late.
			<-late
			return demoResult(), nil
		}
		return nil, errors.New("second attempt fails")
	}), 0)

	first := receipt
	first.Name = "first.pdf"
	done1, err := shell.Submit(first)
	require.NoError(t, err)
	require.True(t, shell.Cancel())

	done2, err := shell.Submit(receipt)
	require.NoError(t, err)
	require.Error(t, <-done2)

	close(late)
	assert.ErrorIs(t, <-done1, ErrSuperseded)

	status := shell.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Equal(t, FailureNotice, status.Notice)
	assert.Nil(t, status.View)
}

func TestShellMinLoadingDwell(t *testing.T) {
	for _, fail := range []bool{false, true} {
		shell, _ := testShell(t, analyzerFunc(func(context.Context, upload.File) (*models.AnalysisResult, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return demoResult(), nil
		}), 80*time.Millisecond)

		started := time.Now()
		_ = shell.Upload(context.Background(), receipt)
		assert.GreaterOrEqual(t, time.Since(started), 80*time.Millisecond)
		assert.NotEqual(t, StateLoading, shell.Status().State)
	}
}

func TestShellReset(t *testing.T) {
	shell, _ := testShell(t, analyzerFunc(func(context.Context, upload.File) (*models.AnalysisResult, error) {
		return demoResult(), nil
	}), 0)

	require.NoError(t, shell.Upload(context.Background(), receipt))
	shell.Reset()

	status := shell.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Nil(t, status.View)
}

func TestShellClosedRefusesUploads(t *testing.T) {
	shell, _ := testShell(t, analyzerFunc(func(context.Context, upload.File) (*models.AnalysisResult, error) {
		return demoResult(), nil
	}), 0)

	shell.Close()
	_, err := shell.Submit(receipt)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "result", StateResult.String())
}
