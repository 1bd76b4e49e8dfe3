package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RequestStatusEmailData holds data for the moderation-outcome email sent to
// a requester when their participation request is confirmed or rejected.
type RequestStatusEmailData struct {
	Email      string
	UserName   string
	EventTitle string
	Status     RequestStatus
}

// RequestNotifier notifies requesters about moderation outcomes. Delivery is
// best-effort: implementations log failures and never return them.
type RequestNotifier interface {
	NotifyRequestStatus(ctx context.Context, data *RequestStatusEmailData)
}
