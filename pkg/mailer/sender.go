package mailer

import (
	"context"
	"time"

	"github.com/wastedx7/Secure-User-Authentication/pkg/helpers"
)

// QueueSender enqueues notification emails on RabbitMQ for the email worker
// to deliver. With sending disabled or no publisher configured it becomes a
// no-op, which keeps local development working without a broker.
type QueueSender struct {
	Pub     *helpers.RabbitPublisher
	Enabled bool
}

func NewQueueSender(pub *helpers.RabbitPublisher, enabled bool) *QueueSender {
	return &QueueSender{Pub: pub, Enabled: enabled}
}

func (s *QueueSender) SendWelcome(ctx context.Context, email, name string) error {
	return s.publish(ctx, EmailJob{
		To:       email,
		Template: TemplateWelcome,
		Data:     map[string]any{"Name": name},
	})
}

func (s *QueueSender) SendVerificationCode(ctx context.Context, email, name, code string, expiresAt time.Time) error {
	return s.publish(ctx, EmailJob{
		To:       email,
		Template: TemplateVerifyOTP,
		Data:     codeData(name, code, expiresAt),
	})
}

func (s *QueueSender) SendResetCode(ctx context.Context, email, name, code string, expiresAt time.Time) error {
	return s.publish(ctx, EmailJob{
		To:       email,
		Template: TemplateResetOTP,
		Data:     codeData(name, code, expiresAt),
	})
}

func (s *QueueSender) publish(ctx context.Context, job EmailJob) error {
	if !s.Enabled || s.Pub == nil {
		return nil
	}
	return s.Pub.PublishJSON(ctx, job)
}

func codeData(name, code string, expiresAt time.Time) map[string]any {
	return map[string]any{
		"Name":      name,
		"Code":      code,
		"ExpiresAt": expiresAt.UTC().Format(time.RFC3339),
	}
}
