package email

import (
	"net/url"
	"strings"

	"lowvie/internal/models"
)

// MailtoURI builds the link handed to the system mail handler. Subject and
// body are percent-encoded with %20 for spaces, as encodeURIComponent does.
func MailtoURI(draft models.EmailDraft) string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(url.PathEscape(draft.ToEmail))
	b.WriteString("?subject=")
	b.WriteString(encodeComponent(draft.Subject))
	b.WriteString("&body=")
	b.WriteString(encodeComponent(draft.Body))
	return b.String()
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
