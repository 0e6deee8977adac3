// Package backend talks to the receipt-analysis service: uploads, supplier
// search, email drafting and account-link sessions.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"lowvie/internal/dto"
	"lowvie/internal/models"
	"lowvie/internal/upload"
	"lowvie/pkg/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

// Observer is told about every backend round trip.
type Observer interface {
	ObserveBackendCall(op string, err error, elapsed time.Duration)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

func NewClient(cfg *config.BackendConfig, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnalyzeReceipt posts the file as multipart field "file" to /upload-receipt.
func (c *Client) AnalyzeReceipt(ctx context.Context, file upload.File) (*models.AnalysisResult, error) {
	const op = "upload-receipt"

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-receipt", &body)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result models.AnalysisResult
	if err := c.do(req, op, &result); err != nil {
		return nil, err
	}
	if result.Expenses == nil {
		return nil, &Error{Op: op, Kind: KindDecode, Detail: "response has no expenses list"}
	}

	c.logger.Info("Receipt analyzed",
		zap.String("file", file.Name),
		zap.Int("expenses", len(result.Expenses)),
		zap.String("total", result.TotalAmount.StringFixed(2)),
	)

	return &result, nil
}

// FindAlternatives queries /search-alternatives/{category}.
func (c *Client) FindAlternatives(ctx context.Context, category, city string, currentPrice decimal.Decimal) ([]models.Alternative, error) {
	const op = "search-alternatives"

	query := url.Values{}
	query.Set("city", city)
	query.Set("current_price", currentPrice.String())
	endpoint := fmt.Sprintf("%s/search-alternatives/%s?%s", c.baseURL, url.PathEscape(category), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}

	var resp dto.SearchAlternativesResponse
	if err := c.do(req, op, &resp); err != nil {
		return nil, err
	}
	return resp.Alternatives, nil
}

// DraftEmail asks the backend to compose a supplier email.
func (c *Client) DraftEmail(ctx context.Context, request dto.DraftEmailRequest) (*models.EmailDraft, error) {
	var draft models.EmailDraft
	if err := c.postJSON(ctx, "draft-email", "/draft-email", request, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// CreateSession requests an account-link session token.
func (c *Client) CreateSession(ctx context.Context, sessionType, externalUserID string) (*models.Session, error) {
	request := dto.CreateSessionRequest{
		Type:           sessionType,
		ExternalUserID: externalUserID,
	}

	var session models.Session
	if err := c.postJSON(ctx, "session-create", "/api/session/create", request, &session); err != nil {
		return nil, err
	}
	if session.SessionID == "" {
		return nil, &Error{Op: "session-create", Kind: KindDecode, Detail: "response has no sessionId"}
	}
	session.ExternalUserID = externalUserID
	return &session, nil
}

// SyncTransactions pulls recent merchant transactions for a linked user.
func (c *Client) SyncTransactions(ctx context.Context, externalUserID string, limit int) ([]models.Transaction, error) {
	request := dto.SyncTransactionsRequest{
		ExternalUserID: externalUserID,
		Limit:          limit,
	}

	var resp dto.SyncTransactionsResponse
	if err := c.postJSON(ctx, "transactions-sync", "/api/transactions/sync", request, &resp); err != nil {
		return nil, err
	}
	if resp.Transactions == nil {
		return nil, &Error{Op: "transactions-sync", Kind: KindDecode, Detail: "response has no transactions list"}
	}
	return resp.Transactions, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out any) (err error) {
	started := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveBackendCall(op, err, time.Since(started))
		}
		if err != nil {
			c.logger.Warn("Backend call failed", zap.String("op", op), zap.Error(err))
		}
	}()

	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Op:     op,
			Kind:   kindForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Detail: strings.TrimSpace(string(detail)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Kind: KindDecode, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
