package domain

import "context"

// Mailer sends a single email. Implementations may use SES, SMTP, etc.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named template with data into subject and
// HTML/text bodies.
type EmailTemplateRenderer interface {
	Render(name string, data any) (subject, htmlBody, textBody string, err error)
}

// SessionInvitationEmailData is the payload for the session invitation email
// sent to each attendee of an admin-scheduled session.
type SessionInvitationEmailData struct {
	Email     string
	Attendee  string
	Title     string
	Owner     string
	StartText string
	EndText   string
	Minutes   int
}

// EmailService defines the outbound email operations used by the scheduler.
type EmailService interface {
	SendSessionInvitation(ctx context.Context, data *SessionInvitationEmailData) error
}
