// Package services реализует отправку почтовых уведомлений компаниям
// о новых сообщениях обратной связи.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/lib/smtp"
	"github.com/feedbackhub/backend/internal/models"
)

// SenderService потребляет события очереди и отправляет письма.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendNewMessageNotification уведомляет компанию о новом сообщении.
//
// body — сериализованное событие models.MessageEvent из очереди.
func (s *SenderService) SendNewMessageNotification(body []byte) error {
	var event models.MessageEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	preview := event.Text
	if len([]rune(preview)) > 200 {
		preview = string([]rune(preview)[:200]) + "…"
	}

	to := []string{event.CompanyEmail}
	subject := "Новое сообщение обратной связи"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВам поступило новое сообщение:\n\n%s\n\nОтветить на него можно в кабинете компании.",
		event.CompanyName, preview)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
