package email

import (
	"net/url"
	"strings"
	"testing"

	"lowvie/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailtoURI(t *testing.T) {
	uri := MailtoURI(models.EmailDraft{
		ToEmail: "a@acme.com",
		Subject: "Hi & bye",
		Body:    "Line 1\nLine 2",
	})

	assert.Equal(t, "mailto:a@acme.com?subject=Hi%20%26%20bye&body=Line%201%0ALine%202", uri)
}

func TestMailtoURIRoundTrips(t *testing.T) {
	draft := models.EmailDraft{
		ToEmail: "sales@ecohoodies.com",
		Subject: "Inquiry about material pricing?",
		Body:    "Dear team,\n\nPrices: $20.00 + 5% = more.\n\nBest regards,\n[Your Company Name]",
	}

	uri := MailtoURI(draft)
	require.True(t, strings.HasPrefix(uri, "mailto:sales@ecohoodies.com?"))
	assert.NotContains(t, uri, "+")
	assert.NotContains(t, uri, " ")

	query, err := url.ParseQuery(strings.SplitN(uri, "?", 2)[1])
	require.NoError(t, err)
	assert.Equal(t, draft.Subject, query.Get("subject"))
	assert.Equal(t, draft.Body, query.Get("body"))
}
