package accountlink

import (
	"context"
	"errors"
	"testing"
	"time"

	"lowvie/internal/models"
	"lowvie/internal/upload"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	sessionErr   error
	syncErr      error
	sessionCalls []string
	syncLimits   []int
}

func (f *fakeBackend) CreateSession(_ context.Context, sessionType, externalUserID string) (*models.Session, error) {
	f.sessionCalls = append(f.sessionCalls, sessionType+"/"+externalUserID)
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return &models.Session{SessionID: "sess-1", ExternalUserID: externalUserID, Mock: true}, nil
}

func (f *fakeBackend) SyncTransactions(_ context.Context, _ string, limit int) ([]models.Transaction, error) {
	f.syncLimits = append(f.syncLimits, limit)
	if f.syncErr != nil {
		return nil, f.syncErr
	}
	return []models.Transaction{
		{ID: "t1", Description: "Fabric", Amount: decimal.NewNullDecimal(decimal.RequireFromString("12.50")), Date: "2025-11-01"},
		{ID: "t2", Merchant: "Amazon"},
	}, nil
}

func testConfig(mode TransactionsMode) Config {
	return Config{
		ClientID:    "client-1",
		Environment: "development",
		Product:     "transaction_link",
		EntryPoint:  "demo",
		MerchantIDs: []int{19, 44, 36},
		Mode:        mode,
		SyncLimit:   5,
	}
}

func newTestWidget(mode TransactionsMode, backend *fakeBackend, opener Opener, resubmit func(upload.File) error) *Widget {
	if resubmit == nil {
		resubmit = func(upload.File) error { return nil }
	}
	return NewWidget(testConfig(mode), "demo-user-1", backend, backend, opener, resubmit, zap.NewNop())
}

func TestOpenRequiresSession(t *testing.T) {
	opener := NewMockOpener()
	w := newTestWidget(ModeSync, &fakeBackend{}, opener, nil)

	_, err := w.Open(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, opener.Calls())
	assert.Contains(t, w.Status().Log, "No sessionId yet")
}

func TestConnectHandsSessionToOpener(t *testing.T) {
	backend := &fakeBackend{}
	opener := NewMockOpener()
	w := newTestWidget(ModeSync, backend, opener, nil)

	launch, err := w.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", launch.Options.SessionID)

	assert.Equal(t, []string{"transaction_link/demo-user-1"}, backend.sessionCalls)
	calls := opener.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "sess-1", calls[0].Session.SessionID)
	assert.Equal(t, []int{19, 44, 36}, calls[0].MerchantIDs)
	assert.Equal(t, "client-1", calls[0].ClientID)
	assert.Equal(t, "development", calls[0].Environment)
	assert.Equal(t, "transaction_link", calls[0].Product)

	status := w.Status()
	require.NotNil(t, status.Session)
	assert.Equal(t, "sess-1", status.Session.SessionID)
	assert.Contains(t, status.Log, "Session created: sess-1 (mock=true)")

	assert.NotNil(t, w.TakeLaunch())
	assert.Nil(t, w.TakeLaunch())
}

func TestCreateSessionFailure(t *testing.T) {
	backend := &fakeBackend{sessionErr: errors.New("502")}
	opener := NewMockOpener()
	w := newTestWidget(ModeSync, backend, opener, nil)

	_, err := w.Connect(context.Background())
	require.Error(t, err)
	assert.Empty(t, opener.Calls())
	assert.Nil(t, w.Status().Session)
}

func TestOpenerFailure(t *testing.T) {
	opener := NewMockOpener()
	opener.OpenFn = func(context.Context, OpenRequest) (*Launch, error) {
		return nil, errors.New("sdk unavailable")
	}
	w := newTestWidget(ModeSync, &fakeBackend{}, opener, nil)

	_, err := w.Connect(context.Background())
	require.Error(t, err)
	assert.Nil(t, w.TakeLaunch())
}

func TestHandleEvents(t *testing.T) {
	w := newTestWidget(ModeSync, &fakeBackend{}, NewMockOpener(), nil)
	connected := 0
	w.OnConnected(func() { connected++ })

	w.HandleEvent(Event{Kind: EventProgress, Product: "transaction_link", Name: "AUTHENTICATED"})
	w.HandleEvent(Event{Kind: EventError, Product: "transaction_link", ErrorCode: "INVALID_SESSION", Message: "expired"})
	assert.False(t, w.Status().Connected)

	w.HandleEvent(Event{Kind: EventSuccess, Product: "transaction_link"})
	w.HandleEvent(Event{Kind: EventSuccess, Product: "transaction_link"})
	w.HandleEvent(Event{Kind: EventExit, Product: "transaction_link"})

	status := w.Status()
	assert.True(t, status.Connected)
	assert.Equal(t, 1, connected)
	assert.Equal(t, []string{
		"onEvent transaction_link AUTHENTICATED",
		"onError transaction_link INVALID_SESSION: expired",
		"onSuccess transaction_link",
		"onSuccess transaction_link",
		"onExit transaction_link",
	}, status.Log)
}

func TestLogIsBounded(t *testing.T) {
	w := newTestWidget(ModeSync, &fakeBackend{}, NewMockOpener(), nil)
	for i := 0; i < maxLogLines+20; i++ {
		w.HandleEvent(Event{Kind: EventExit, Product: "p"})
	}
	assert.Len(t, w.Status().Log, maxLogLines)
}

func TestFetchTransactionsSync(t *testing.T) {
	backend := &fakeBackend{}
	w := newTestWidget(ModeSync, backend, NewMockOpener(), nil)

	txs, err := w.FetchTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, []int{5}, backend.syncLimits)

	status := w.Status()
	require.Len(t, status.Transactions, 2)
	assert.Equal(t, "Fabric", status.Transactions[0].Label())
	assert.Equal(t, "$12.50", status.Transactions[0].DisplayAmount())
	assert.Equal(t, "Amazon", status.Transactions[1].Label())
	assert.Equal(t, "N/A", status.Transactions[1].DisplayAmount())
	assert.Contains(t, status.Log, "Transactions loaded: 2")
}

func TestFetchTransactionsSyncFailure(t *testing.T) {
	w := newTestWidget(ModeSync, &fakeBackend{syncErr: errors.New("timeout")}, NewMockOpener(), nil)

	_, err := w.FetchTransactions(context.Background())
	require.Error(t, err)
	assert.Empty(t, w.Status().Transactions)
}

func TestFetchTransactionsDemoResubmitsPlaceholder(t *testing.T) {
	var submitted []upload.File
	backend := &fakeBackend{}
	w := newTestWidget(ModeDemo, backend, NewMockOpener(), func(f upload.File) error {
		submitted = append(submitted, f)
		return nil
	})

	txs, err := w.FetchTransactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Empty(t, backend.syncLimits)

	require.Len(t, submitted, 1)
	assert.Equal(t, "application/pdf", mimetype.Detect(submitted[0].Data).String())
}

func TestPlaceholderReceiptIsPDF(t *testing.T) {
	file := PlaceholderReceipt("demo-user-1", time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "linked-demo-user-1-20251108.pdf", file.Name)
	assert.True(t, mimetype.Detect(file.Data).Is("application/pdf"))
}

func TestScriptOpener(t *testing.T) {
	opener := NewScriptOpener("https://unpkg.com/knotapi-js@next")

	_, err := opener.Open(context.Background(), OpenRequest{})
	assert.ErrorIs(t, err, ErrNoSession)

	launch, err := opener.Open(context.Background(), OpenRequest{
		Session:     models.Session{SessionID: "sess-1"},
		ClientID:    "client-1",
		Environment: "development",
		Product:     "transaction_link",
		EntryPoint:  "demo",
		MerchantIDs: []int{19, 44, 36},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://unpkg.com/knotapi-js@next", launch.ScriptURL)
	assert.Equal(t, "sess-1", launch.Options.SessionID)
	assert.Equal(t, []int{19, 44, 36}, launch.Options.MerchantIDs)
	assert.False(t, launch.Options.UseSearch)
}

func TestParseTransactionsMode(t *testing.T) {
	assert.Equal(t, ModeDemo, ParseTransactionsMode("demo"))
	assert.Equal(t, ModeSync, ParseTransactionsMode("sync"))
	assert.Equal(t, ModeSync, ParseTransactionsMode(""))
}
