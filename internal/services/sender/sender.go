// Package sender отправляет письма из очереди заданий через SMTP.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/sl"
	libsmtp "github.com/SalekhM8/BrainBooster-sub000/internal/lib/smtp"
	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

// SenderService читает задания на письма и доставляет их по SMTP.
type SenderService struct {
	transport libsmtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр SenderService.
func New(log *slog.Logger, transport libsmtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// ProcessEmailJob разбирает тело сообщения очереди и отправляет письмо.
// Неизвестный тип задания считается ошибкой: сообщение не должно молча
// пропадать из очереди.
func (s *SenderService) ProcessEmailJob(body []byte) error {
	var job models.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal email job", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject, bodyText, err := composeEmail(job)
	if err != nil {
		s.log.Error("failed to compose email", sl.Err(err), slog.String("kind", string(job.Kind)))
		return err
	}

	return s.sendEmail([]string{job.Email}, subject, bodyText)
}

// composeEmail собирает тему и текст письма по типу задания.
func composeEmail(job models.EmailJob) (subject, bodyText string, err error) {
	name := job.FirstName
	if name == "" {
		name = "there"
	}

	switch job.Kind {
	case models.EmailWelcomeCredentials:
		subject = "Welcome to BrainBooster"
		bodyText = fmt.Sprintf(
			"Hi %s!\n\nYour %s subscription is active and your account is ready.\n\n"+
				"Login email: %s\nTemporary password: %s\n\n"+
				"Please sign in and change your password as soon as possible.",
			name, job.Tier, job.Email, job.Password)
	case models.EmailPaymentFailed:
		subject = "Payment failed for your BrainBooster subscription"
		bodyText = fmt.Sprintf(
			"Hi %s!\n\nWe could not collect your latest payment and your subscription "+
				"is now past due.\n\nPlease update your payment details to keep your access.",
			name)
	case models.EmailCancelled:
		subject = "Your BrainBooster subscription has been cancelled"
		bodyText = fmt.Sprintf(
			"Hi %s!\n\nYour subscription has been cancelled. We are sorry to see you go.\n\n"+
				"You can resubscribe at any time from your dashboard.",
			name)
	default:
		return "", "", fmt.Errorf("unknown email job kind: %s", job.Kind)
	}
	return subject, bodyText, nil
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

	s.log.Info("email sent", slog.String("subject", subject), slog.Any("to", to))
	return nil
}
