package email

import (
	"testing"

	"lowvie/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModalLifecycle(t *testing.T) {
	var m Modal
	assert.False(t, m.IsOpen())

	_, err := m.Send()
	assert.ErrorIs(t, err, ErrModalClosed)
	assert.ErrorIs(t, m.Edit("s", "b"), ErrModalClosed)

	m.Open(models.EmailDraft{ToEmail: "a@acme.com", Subject: "Hello", Body: "Body"})
	require.True(t, m.IsOpen())

	require.NoError(t, m.Edit("Hi & bye", "Line 1\nLine 2"))
	draft, open := m.Draft()
	assert.True(t, open)
	assert.Equal(t, "Hi & bye", draft.Subject)
	assert.Equal(t, "a@acme.com", draft.ToEmail)

	uri, err := m.Send()
	require.NoError(t, err)
	assert.Equal(t, "mailto:a@acme.com?subject=Hi%20%26%20bye&body=Line%201%0ALine%202", uri)
	assert.False(t, m.IsOpen())

	_, open = m.Draft()
	assert.False(t, open)
}

func TestModalCancelDiscardsDraft(t *testing.T) {
	var m Modal
	m.Open(models.EmailDraft{ToEmail: "a@acme.com", Subject: "Hello"})
	m.Cancel()

	assert.False(t, m.IsOpen())
	draft, _ := m.Draft()
	assert.Empty(t, draft.Subject)

	m.Open(models.EmailDraft{ToEmail: "b@acme.com", Subject: "Fresh"})
	draft, open := m.Draft()
	assert.True(t, open)
	assert.Equal(t, "Fresh", draft.Subject)
}
