package services

import (
	"context"
	"fmt"

	"slotscheduler/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendSessionInvitation sends the session invitation email using the
// "session_invitation" template and the given data.
func (s *emailService) SendSessionInvitation(ctx context.Context, data *domain.SessionInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("session invitation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("session_invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render session_invitation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send session invitation: %w", err)
	}
	return nil
}
