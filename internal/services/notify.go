package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventlisting/internal/domain"
)

type requestNotifier struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewRequestNotifier returns a RequestNotifier that emails requesters when
// their participation request is confirmed or rejected. Delivery failures
// are logged and swallowed.
func NewRequestNotifier(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.RequestNotifier {
	return &requestNotifier{mailer: mailer, renderer: renderer, logger: logger}
}

func (n *requestNotifier) NotifyRequestStatus(ctx context.Context, data *domain.RequestStatusEmailData) {
	if data == nil || data.Email == "" {
		return
	}
	if err := n.send(data); err != nil {
		n.logger.WarnContext(ctx, "request status notification failed",
			"email", data.Email,
			"status", data.Status,
			"err", err,
		)
	}
}

func (n *requestNotifier) send(data *domain.RequestStatusEmailData) error {
	var templateName string
	switch data.Status {
	case domain.RequestStatusConfirmed:
		templateName = "request_confirmed"
	case domain.RequestStatusRejected:
		templateName = "request_rejected"
	default:
		return nil
	}
	subject, htmlBody, textBody, err := n.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", templateName, err)
	}
	if err := n.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", templateName, err)
	}
	return nil
}
