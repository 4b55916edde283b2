package mailer

import (
	"bytes"
	"fmt"
	"text/template"
)

// Account email templates. Data keys: Username, Link.
var templates = map[string]struct {
	subject string
	body    string
}{
	"confirm_account": {
		subject: "Confirm Your Account",
		body: `Dear {{.Username}},

Welcome to Greek Gang Terminal! To confirm your account please follow this link:

{{.Link}}

The link expires in one hour.`,
	},
	"reset_password": {
		subject: "Reset Your Password",
		body: `Dear {{.Username}},

To reset your password follow this link:

{{.Link}}

If you have not requested a password reset simply ignore this message. The link expires in one hour.`,
	},
	"change_email": {
		subject: "Confirm Your Email Address",
		body: `Dear {{.Username}},

To confirm your new email address follow this link:

{{.Link}}

The link expires in one hour.`,
	},
}

// Render produces the subject and text body for a template name.
func Render(name string, data map[string]any) (subject, text string, err error) {
	tpl, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	t, err := template.New(name).Parse(tpl.body)
	if err != nil {
		return "", "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return tpl.subject, buf.String(), nil
}
