package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	data := map[string]any{
		"Username": "nikos",
		"Link":     "http://localhost:8080/api/v1/confirm/abc123",
	}
	for _, name := range []string{"confirm_account", "reset_password", "change_email"} {
		subject, text, err := Render(name, data)
		require.NoError(t, err, name)
		assert.NotEmpty(t, subject, name)
		assert.Contains(t, text, "Dear nikos,", name)
		assert.Contains(t, text, "http://localhost:8080/api/v1/confirm/abc123", name)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := Render("party_invite", nil)
	assert.Error(t, err)
}
