package handlers

import (
	"encoding/json"

	"lowvie/internal/accountlink"
	"lowvie/internal/analysis"
	"lowvie/internal/dto"
	"lowvie/internal/models"
	"lowvie/internal/workflow"
)

// PageView is the binding for the page template.
type PageView struct {
	Token             string
	State             string
	Notice            string
	Refresh           bool
	Accept            string
	PolicyDescription string
	Result            *models.AnalysisResult
	Selection         *analysis.Selection
	Email             *models.EmailDraft
	Mailto            string
	Link              LinkView
}

type LinkView struct {
	ExternalUserID string
	Connected      bool
	Launch         *accountlink.Launch
	ScriptURL      string
	LaunchJSON     string
	Log            []string
	Transactions   []models.Transaction
}

// newPageView snapshots a page for rendering. A pending SDK launch is
// consumed here, so the browser opens each session once.
func newPageView(token string, page *workflow.Page, flash string) PageView {
	status := page.Shell.Status()
	policy := page.Upload.Policy()

	view := PageView{
		Token:             token,
		State:             status.State.String(),
		Notice:            status.Notice,
		Refresh:           status.State == workflow.StateLoading,
		Accept:            policy.Accept(),
		PolicyDescription: policy.Describe(),
		Link:              newLinkView(page.Link),
	}

	if status.View != nil {
		state := status.View.State()
		view.Result = state.Result
		view.Selection = state.Selection
		view.Email = state.Email
		if state.Notice != "" {
			view.Notice = state.Notice
		}
	}
	if flash != "" {
		view.Notice = flash
	}
	return view
}

func newLinkView(widget *accountlink.Widget) LinkView {
	status := widget.Status()
	view := LinkView{
		ExternalUserID: status.ExternalUserID,
		Connected:      status.Connected,
		Log:            status.Log,
		Transactions:   status.Transactions,
	}

	if launch := widget.TakeLaunch(); launch != nil {
		options, err := json.Marshal(launch.Options)
		if err == nil {
			view.Launch = launch
			view.ScriptURL = launch.ScriptURL
			view.LaunchJSON = string(options)
		}
	}
	return view
}

func newSnapshot(page *workflow.Page) dto.PageSnapshot {
	status := page.Shell.Status()
	link := page.Link.Status()

	snapshot := dto.PageSnapshot{
		ID:     page.ID,
		State:  status.State.String(),
		Notice: status.Notice,
		Link: dto.LinkResponse{
			Connected:    link.Connected,
			Transactions: link.Transactions,
			Log:          link.Log,
		},
	}
	if link.Session != nil {
		snapshot.Link.SessionID = link.Session.SessionID
	}

	if status.View != nil {
		state := status.View.State()
		snapshot.Result = state.Result
		snapshot.Email = state.Email
		if state.Notice != "" {
			snapshot.Notice = state.Notice
		}
		if sel := state.Selection; sel != nil {
			snapshot.Selection = &dto.SelectionResponse{
				Category:     sel.Category,
				ExpenseIndex: sel.ExpenseIndex,
				Alternatives: sel.Alternatives,
			}
			if snapshot.Selection.Alternatives == nil {
				snapshot.Selection.Alternatives = []models.Alternative{}
			}
			if sel.Err != nil {
				snapshot.Selection.Error = analysis.NoticeAlternativesFailed
			}
		}
	}
	return snapshot
}
