package mailer

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template names understood by the email worker.
const (
	TemplateWelcome   = "welcome"
	TemplateVerifyOTP = "verify_otp"
	TemplateResetOTP  = "reset_otp"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Subject/Text are set directly or Template+Data name one of the
// known templates.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

type emailTemplate struct {
	subject string
	body    *template.Template
}

var emailTemplates = map[string]emailTemplate{
	TemplateWelcome: {
		subject: "Welcome!",
		body: template.Must(template.New(TemplateWelcome).Parse(
			"Hi {{.Name}},\n\nThanks for registering. " +
				"Verify your email from your dashboard to unlock your account features.\n")),
	},
	TemplateVerifyOTP: {
		subject: "Verify your email",
		body: template.Must(template.New(TemplateVerifyOTP).Parse(
			"Hi {{.Name}},\n\nYour email verification code is {{.Code}}. " +
				"It expires at {{.ExpiresAt}}.\n\nIf you did not request this, ignore this email.\n")),
	},
	TemplateResetOTP: {
		subject: "Reset your password",
		body: template.Must(template.New(TemplateResetOTP).Parse(
			"Hi {{.Name}},\n\nUse code {{.Code}} to reset your password. " +
				"It expires at {{.ExpiresAt}}.\n\nIf you did not request this, ignore this email.\n")),
	},
}

// Render resolves the job into a subject and a text body. Jobs without a
// template pass their Subject/Text through unchanged.
func (j EmailJob) Render() (subject, text string, err error) {
	if j.Template == "" {
		return j.Subject, j.Text, nil
	}
	tpl, ok := emailTemplates[j.Template]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", j.Template)
	}
	var buf bytes.Buffer
	if err := tpl.body.Execute(&buf, j.Data); err != nil {
		return "", "", err
	}
	return tpl.subject, buf.String(), nil
}
