package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recipebox/recipebox/internal/config"
	"github.com/resend/resend-go/v2"
	"gopkg.in/gomail.v2"
)

type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// EmailSender delivers a single message through some transport.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NewEmailSender picks the transport named by cfg.EmailTransport.
func NewEmailSender(cfg *config.Config) (EmailSender, error) {
	switch cfg.EmailTransport {
	case config.EmailTransportResend:
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("email transport resend: missing RESEND_API_KEY")
		}
		return &resendSender{client: resend.NewClient(cfg.ResendAPIKey), from: cfg.EmailFrom}, nil
	case config.EmailTransportSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("email transport smtp: missing SMTP_HOST")
		}
		return &smtpSender{
			dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
			from:   cfg.EmailFrom,
		}, nil
	case config.EmailTransportLog, "":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown email transport %q", cfg.EmailTransport)
	}
}

type resendSender struct {
	client *resend.Client
	from   string
}

func (s *resendSender) Send(ctx context.Context, msg EmailMessage) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	return err
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpSender) Send(ctx context.Context, msg EmailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(m)
}

// LogSender writes messages to the log instead of sending them (development).
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg EmailMessage) error {
	slog.InfoContext(ctx, "email sent (dev mode)", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}

type EmailService struct {
	sender  EmailSender
	appURL  string
	appName string
}

// NewEmailService builds links from appURL; a trailing slash is ignored.
func NewEmailService(sender EmailSender, appURL, appName string) *EmailService {
	return &EmailService{
		sender:  sender,
		appURL:  strings.TrimRight(appURL, "/"),
		appName: appName,
	}
}

func (s *EmailService) SendVerificationEmail(ctx context.Context, email, name, token string) error {
	verifyURL := fmt.Sprintf("%s/verify?token=%s", s.appURL, token)
	msg := verificationEmailTemplate(name, verifyURL, s.appName)
	msg.To = email
	return s.send(ctx, "verification", msg)
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, email, name, token string) error {
	resetURL := fmt.Sprintf("%s/reset_password?token=%s", s.appURL, token)
	msg := passwordResetEmailTemplate(name, resetURL, s.appName)
	msg.To = email
	return s.send(ctx, "password_reset", msg)
}

func (s *EmailService) send(ctx context.Context, kind string, msg EmailMessage) error {
	err := s.sender.Send(ctx, msg)
	if err != nil {
		slog.Error("failed to send email", "type", kind, "to", msg.To, "error", err)
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}
	slog.Info("email sent", "type", kind, "to", msg.To)
	return nil
}
