// Package accountlink connects a merchant account through the third-party
// link SDK and relays its events and transactions.
package accountlink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"lowvie/internal/models"
	"lowvie/internal/upload"

	"go.uber.org/zap"
)

var ErrNoSession = errors.New("no account-link session yet")

const maxLogLines = 50

type TransactionsMode string

const (
	// ModeSync pulls transactions from the backend sync endpoint.
	ModeSync TransactionsMode = "sync"
	// ModeDemo feeds a placeholder receipt back into the upload workflow.
	ModeDemo TransactionsMode = "demo"
)

func ParseTransactionsMode(s string) TransactionsMode {
	if TransactionsMode(s) == ModeDemo {
		return ModeDemo
	}
	return ModeSync
}

type SessionCreator interface {
	CreateSession(ctx context.Context, sessionType, externalUserID string) (*models.Session, error)
}

type TransactionSyncer interface {
	SyncTransactions(ctx context.Context, externalUserID string, limit int) ([]models.Transaction, error)
}

type Config struct {
	ClientID    string
	Environment string
	Product     string
	EntryPoint  string
	MerchantIDs []int
	Mode        TransactionsMode
	SyncLimit   int
}

type EventKind string

const (
	EventSuccess  EventKind = "success"
	EventError    EventKind = "error"
	EventProgress EventKind = "event"
	EventExit     EventKind = "exit"
)

// Event is one SDK callback relayed from the browser.
type Event struct {
	Kind      EventKind
	Product   string
	Name      string
	ErrorCode string
	Message   string
	Details   json.RawMessage
}

// Status is a copy of the widget state for rendering.
type Status struct {
	ExternalUserID string
	Session        *models.Session
	Launch         *Launch
	Connected      bool
	Transactions   []models.Transaction
	Log            []string
}

type Widget struct {
	mu             sync.Mutex
	cfg            Config
	externalUserID string
	sessions       SessionCreator
	syncer         TransactionSyncer
	opener         Opener
	resubmit       func(upload.File) error
	onConnected    func()

	session      *models.Session
	launch       *Launch
	connected    bool
	transactions []models.Transaction
	log          []string
	logger       *zap.Logger
}

func NewWidget(
	cfg Config,
	externalUserID string,
	sessions SessionCreator,
	syncer TransactionSyncer,
	opener Opener,
	resubmit func(upload.File) error,
	logger *zap.Logger,
) *Widget {
	return &Widget{
		cfg:            cfg,
		externalUserID: externalUserID,
		sessions:       sessions,
		syncer:         syncer,
		opener:         opener,
		resubmit:       resubmit,
		logger:         logger,
	}
}

// OnConnected registers a callback fired on the first SDK success event.
func (w *Widget) OnConnected(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onConnected = fn
}

// CreateSession requests a fresh session token from the backend.
func (w *Widget) CreateSession(ctx context.Context) (*models.Session, error) {
	w.appendLog("Creating session...")

	session, err := w.sessions.CreateSession(ctx, w.cfg.Product, w.externalUserID)
	if err != nil {
		w.appendLog("Create session failed")
		return nil, fmt.Errorf("failed to create link session: %w", err)
	}

	w.mu.Lock()
	w.session = session
	w.launch = nil
	w.mu.Unlock()

	w.appendLog(fmt.Sprintf("Session created: %s (mock=%t)", session.SessionID, session.Mock))
	w.logger.Info("Link session created",
		zap.String("external_user_id", w.externalUserID),
		zap.Bool("mock", session.Mock),
	)
	return session, nil
}

// Open passes the current session to the SDK opener with the merchant allow-list.
func (w *Widget) Open(ctx context.Context) (*Launch, error) {
	w.mu.Lock()
	session := w.session
	w.mu.Unlock()
	if session == nil {
		w.appendLog("No sessionId yet")
		return nil, ErrNoSession
	}

	w.appendLog("Opening link SDK...")
	launch, err := w.opener.Open(ctx, OpenRequest{
		Session:     *session,
		ClientID:    w.cfg.ClientID,
		Environment: w.cfg.Environment,
		Product:     w.cfg.Product,
		EntryPoint:  w.cfg.EntryPoint,
		MerchantIDs: w.cfg.MerchantIDs,
	})
	if err != nil {
		w.appendLog("Open failed: " + err.Error())
		return nil, fmt.Errorf("failed to open link SDK: %w", err)
	}

	w.mu.Lock()
	w.launch = launch
	w.mu.Unlock()
	return launch, nil
}

// Connect creates a session and opens it in one step.
func (w *Widget) Connect(ctx context.Context) (*Launch, error) {
	if _, err := w.CreateSession(ctx); err != nil {
		return nil, err
	}
	return w.Open(ctx)
}

// HandleEvent logs an SDK callback. Success marks the account connected.
func (w *Widget) HandleEvent(event Event) {
	line := fmt.Sprintf("on%s %s", capitalize(string(event.Kind)), event.Product)
	switch event.Kind {
	case EventError:
		line += fmt.Sprintf(" %s: %s", event.ErrorCode, event.Message)
	case EventProgress:
		line += " " + event.Name
	}
	w.appendLog(line)

	fields := []zap.Field{
		zap.String("kind", string(event.Kind)),
		zap.String("product", event.Product),
		zap.String("name", event.Name),
	}

	switch event.Kind {
	case EventSuccess:
		w.mu.Lock()
		first := !w.connected
		w.connected = true
		callback := w.onConnected
		// A session is consumed once.
		w.launch = nil
		w.mu.Unlock()

		w.logger.Info("Account linked", fields...)
		if first && callback != nil {
			callback()
		}
	case EventError:
		w.logger.Warn("Link SDK error", append(fields,
			zap.String("error_code", event.ErrorCode),
			zap.String("message", event.Message),
		)...)
	case EventExit:
		w.mu.Lock()
		w.launch = nil
		w.mu.Unlock()
		w.logger.Info("Link SDK closed", fields...)
	default:
		w.logger.Debug("Link SDK event", fields...)
	}
}

// FetchTransactions pulls transactions in sync mode. In demo mode it submits
// a placeholder receipt to the upload workflow instead and returns nothing.
func (w *Widget) FetchTransactions(ctx context.Context) ([]models.Transaction, error) {
	if w.cfg.Mode == ModeDemo {
		w.appendLog("Submitting placeholder receipt...")
		if err := w.resubmit(PlaceholderReceipt(w.externalUserID, time.Now())); err != nil {
			w.appendLog("Placeholder submission failed")
			return nil, fmt.Errorf("failed to submit placeholder receipt: %w", err)
		}
		return nil, nil
	}

	w.appendLog("Fetching transactions...")
	txs, err := w.syncer.SyncTransactions(ctx, w.externalUserID, w.cfg.SyncLimit)
	if err != nil {
		w.appendLog("Fetch transactions failed")
		return nil, fmt.Errorf("failed to sync transactions: %w", err)
	}

	w.mu.Lock()
	w.transactions = txs
	w.mu.Unlock()

	w.appendLog(fmt.Sprintf("Transactions loaded: %d", len(txs)))
	return txs, nil
}

// TakeLaunch returns the pending SDK launch and clears it, so a session is
// handed to the browser once.
func (w *Widget) TakeLaunch() *Launch {
	w.mu.Lock()
	defer w.mu.Unlock()
	launch := w.launch
	w.launch = nil
	return launch
}

func (w *Widget) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	status := Status{
		ExternalUserID: w.externalUserID,
		Launch:         w.launch,
		Connected:      w.connected,
		Transactions:   append([]models.Transaction(nil), w.transactions...),
		Log:            append([]string(nil), w.log...),
	}
	if w.session != nil {
		session := *w.session
		status.Session = &session
	}
	return status
}

func (w *Widget) appendLog(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.log = append(w.log, line)
	if len(w.log) > maxLogLines {
		w.log = w.log[len(w.log)-maxLogLines:]
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
