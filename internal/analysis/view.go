// Package analysis is the expense analysis view: parsed line items, the
// alternatives flow per category and the email modal they open.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lowvie/internal/alternatives"
	"lowvie/internal/dto"
	"lowvie/internal/email"
	"lowvie/internal/models"

	"go.uber.org/zap"
)

var (
	ErrNoExpense      = errors.New("no such expense")
	ErrNoSelection    = errors.New("no category selected")
	ErrNoAlternatives = errors.New("no alternatives to compare against")
	ErrNoAlternative  = errors.New("no such alternative")
)

const (
	NoticeAlternativesFailed = "Failed to fetch alternatives"
	NoticeDraftFailed        = "Failed to generate email"
)

// Selection is the category whose alternatives are on screen.
type Selection struct {
	Category     string
	ExpenseIndex int
	Expense      models.Expense
	Alternatives []models.Alternative
	Err          error
}

// Market aggregates the selection's alternatives.
func (s *Selection) Market() (models.MarketData, bool) {
	return models.NewMarketData(s.Alternatives)
}

// State is a copy of the view for rendering.
type State struct {
	Result    *models.AnalysisResult
	Selection *Selection
	Email     *models.EmailDraft
	Notice    string
}

// View owns the per-result UI state. Backend calls run without the lock
// held, so concurrent fetches race and the last one to resolve wins.
type View struct {
	mu        sync.Mutex
	result    *models.AnalysisResult
	finder    alternatives.Finder
	drafter   email.Drafter
	templates email.Templates
	selection *Selection
	modal     email.Modal
	notice    string
	logger    *zap.Logger
}

func NewView(
	result *models.AnalysisResult,
	finder alternatives.Finder,
	drafter email.Drafter,
	templates email.Templates,
	logger *zap.Logger,
) *View {
	return &View{
		result:    result,
		finder:    finder,
		drafter:   drafter,
		templates: templates,
		logger:    logger,
	}
}

func (v *View) Result() *models.AnalysisResult {
	return v.result
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := State{
		Result: v.result,
		Notice: v.notice,
	}
	if v.selection != nil {
		sel := *v.selection
		sel.Alternatives = append([]models.Alternative(nil), v.selection.Alternatives...)
		state.Selection = &sel
	}
	if draft, ok := v.modal.Draft(); ok {
		state.Email = &draft
	}
	return state
}

// ContactSupplier opens the modal with the negotiation template for one expense.
func (v *View) ContactSupplier(index int) (models.EmailDraft, error) {
	expense, ok := v.result.Expense(index)
	if !ok {
		return models.EmailDraft{}, fmt.Errorf("%w: %d", ErrNoExpense, index)
	}

	draft := v.templates.ContactSupplier(expense)

	v.mu.Lock()
	v.notice = ""
	v.modal.Open(draft)
	v.mu.Unlock()

	return draft, nil
}

// FindAlternatives fetches alternatives for the expense's category. A failed
// fetch still selects the category, with an inline error and no entries.
func (v *View) FindAlternatives(ctx context.Context, index int) error {
	expense, ok := v.result.Expense(index)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoExpense, index)
	}

	alts, err := v.finder.FindAlternatives(ctx, expense.Category, expense.City, expense.Price)

	selection := &Selection{
		Category:     expense.Category,
		ExpenseIndex: index,
		Expense:      expense,
		Alternatives: alts,
	}
	if err != nil {
		v.logger.Warn("Alternatives fetch failed",
			zap.String("category", expense.Category),
			zap.Error(err),
		)
		selection.Alternatives = nil
		selection.Err = err
	}

	v.mu.Lock()
	v.selection = selection
	if err != nil {
		v.notice = NoticeAlternativesFailed
	} else {
		v.notice = ""
	}
	v.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to fetch alternatives for %s: %w", expense.Category, err)
	}

	v.logger.Info("Alternatives fetched",
		zap.String("category", expense.Category),
		zap.Int("count", len(alts)),
	)
	return nil
}

// ContactAlternative drafts an inquiry to one of the selected alternatives.
func (v *View) ContactAlternative(ctx context.Context, altIndex int) (models.EmailDraft, error) {
	selection, err := v.currentSelection()
	if err != nil {
		return models.EmailDraft{}, err
	}
	if altIndex < 0 || altIndex >= len(selection.Alternatives) {
		return models.EmailDraft{}, fmt.Errorf("%w: %d", ErrNoAlternative, altIndex)
	}

	alt := selection.Alternatives[altIndex]
	request := dto.DraftEmailRequest{
		SupplierInfo: dto.SupplierInfo{
			BusinessName: alt.BusinessName,
			ContactEmail: alt.ContactEmail,
		},
		Category:          selection.Category,
		CurrentPrice:      selection.Expense.Price,
		IsCurrentSupplier: false,
	}
	if market, ok := selection.Market(); ok {
		request.MarketData = &market
	}

	return v.draft(ctx, request)
}

// NegotiateWithCurrent drafts a negotiation with the selected expense's own
// supplier, anchored on the fetched alternatives. The first alternative must exist.
func (v *View) NegotiateWithCurrent(ctx context.Context) (models.EmailDraft, error) {
	selection, err := v.currentSelection()
	if err != nil {
		return models.EmailDraft{}, err
	}
	market, ok := selection.Market()
	if !ok {
		return models.EmailDraft{}, ErrNoAlternatives
	}

	request := dto.DraftEmailRequest{
		SupplierInfo: dto.SupplierInfo{
			BusinessName: selection.Expense.BusinessName,
			ContactEmail: selection.Expense.Contact,
		},
		Category:          selection.Category,
		CurrentPrice:      selection.Expense.Price,
		IsCurrentSupplier: true,
		MarketData:        &market,
	}

	v.logger.Debug("Negotiation anchor",
		zap.String("category", selection.Category),
		zap.String("anchor", selection.Alternatives[0].BusinessName),
	)

	return v.draft(ctx, request)
}

func (v *View) EditEmail(subject, body string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.modal.Edit(subject, body)
}

// SendEmail closes the modal and returns the mailto URI of its current text.
func (v *View) SendEmail() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.modal.Send()
}

func (v *View) CancelEmail() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.modal.Cancel()
}

func (v *View) draft(ctx context.Context, request dto.DraftEmailRequest) (models.EmailDraft, error) {
	draft, err := v.drafter.DraftEmail(ctx, request)
	if err != nil {
		v.logger.Warn("Email draft failed",
			zap.String("supplier", request.SupplierInfo.BusinessName),
			zap.Bool("current_supplier", request.IsCurrentSupplier),
			zap.Error(err),
		)
		v.mu.Lock()
		v.notice = NoticeDraftFailed
		v.mu.Unlock()
		return models.EmailDraft{}, fmt.Errorf("failed to draft email: %w", err)
	}

	// Backends sometimes leave the recipient blank.
	if draft.ToEmail == "" {
		draft.ToEmail = request.SupplierInfo.ContactEmail
	}

	v.mu.Lock()
	v.notice = ""
	v.modal.Open(*draft)
	v.mu.Unlock()

	return *draft, nil
}

func (v *View) currentSelection() (*Selection, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selection == nil {
		return nil, ErrNoSelection
	}
	sel := *v.selection
	return &sel, nil
}
