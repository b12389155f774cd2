package service

import (
	"context"
	"errors"
	"testing"

	"github.com/recipebox/recipebox/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailSender(t *testing.T) {
	sender, err := NewEmailSender(&config.Config{EmailTransport: config.EmailTransportLog})
	require.NoError(t, err)
	assert.IsType(t, LogSender{}, sender)

	sender, err = NewEmailSender(&config.Config{EmailTransport: config.EmailTransportSMTP, SMTPHost: "smtp.example.com", SMTPPort: 587})
	require.NoError(t, err)
	assert.IsType(t, &smtpSender{}, sender)

	sender, err = NewEmailSender(&config.Config{EmailTransport: config.EmailTransportResend, ResendAPIKey: "re_123"})
	require.NoError(t, err)
	assert.IsType(t, &resendSender{}, sender)

	_, err = NewEmailSender(&config.Config{EmailTransport: config.EmailTransportResend})
	assert.Error(t, err)
	_, err = NewEmailSender(&config.Config{EmailTransport: config.EmailTransportSMTP})
	assert.Error(t, err)
	_, err = NewEmailSender(&config.Config{EmailTransport: "pigeon"})
	assert.Error(t, err)
}

func TestEmailService_Links(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailService(sender, "https://recipes.example.com", "Recipe Box")
	ctx := context.Background()

	require.NoError(t, svc.SendVerificationEmail(ctx, "ann@x.com", "Ann <3", "abc"))
	msg := sender.last()
	assert.Equal(t, "ann@x.com", msg.To)
	assert.Contains(t, msg.Subject, "Recipe Box")
	assert.Contains(t, msg.Text, "https://recipes.example.com/verify?token=abc")
	assert.Contains(t, msg.HTML, `href="https://recipes.example.com/verify?token=abc"`)
	assert.Contains(t, msg.HTML, "Ann &lt;3")

	require.NoError(t, svc.SendPasswordResetEmail(ctx, "ann@x.com", "Ann", "def"))
	assert.Contains(t, sender.last().Text, "https://recipes.example.com/reset_password?token=def")
}

func TestEmailService_TrailingSlashInAppURL(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailService(sender, "https://recipes.example.com/", "Recipe Box")
	ctx := context.Background()

	require.NoError(t, svc.SendVerificationEmail(ctx, "ann@x.com", "Ann", "abc"))
	assert.Contains(t, sender.last().Text, "https://recipes.example.com/verify?token=abc")
	assert.NotContains(t, sender.last().Text, "//verify")

	require.NoError(t, svc.SendPasswordResetEmail(ctx, "ann@x.com", "Ann", "def"))
	assert.Contains(t, sender.last().Text, "https://recipes.example.com/reset_password?token=def")
	assert.NotContains(t, sender.last().HTML, "//reset_password")
}

func TestEmailService_DeliveryFailure(t *testing.T) {
	cause := errors.New("connection refused")
	svc := NewEmailService(&recordingSender{err: cause}, "https://recipes.example.com", "Recipe Box")

	err := svc.SendVerificationEmail(context.Background(), "ann@x.com", "Ann", "abc")
	assert.ErrorIs(t, err, ErrEmailDelivery)
	assert.ErrorIs(t, err, cause)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, LogSender{}.Send(context.Background(), EmailMessage{To: "ann@x.com", Subject: "hi"}))
}
