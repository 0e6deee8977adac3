// Package email holds the negotiation email composer: templates, drafting
// strategies, the editable modal and the mailto hand-off.
package email

import (
	"errors"

	"lowvie/internal/models"
)

var ErrModalClosed = errors.New("email modal is not open")

// Modal is an editable draft. Send and Cancel both discard it; reopening
// always starts from a freshly seeded draft. Not safe for concurrent use.
type Modal struct {
	draft models.EmailDraft
	open  bool
}

func (m *Modal) Open(draft models.EmailDraft) {
	m.draft = draft
	m.open = true
}

func (m *Modal) IsOpen() bool {
	return m.open
}

func (m *Modal) Draft() (models.EmailDraft, bool) {
	return m.draft, m.open
}

// Edit replaces subject and body with the user's text.
func (m *Modal) Edit(subject, body string) error {
	if !m.open {
		return ErrModalClosed
	}
	m.draft.Subject = subject
	m.draft.Body = body
	return nil
}

// Send closes the modal and returns the mailto URI for the current text.
// Nothing is transmitted; the caller navigates to the URI.
func (m *Modal) Send() (string, error) {
	if !m.open {
		return "", ErrModalClosed
	}
	uri := MailtoURI(m.draft)
	m.Cancel()
	return uri, nil
}

func (m *Modal) Cancel() {
	m.draft = models.EmailDraft{}
	m.open = false
}
