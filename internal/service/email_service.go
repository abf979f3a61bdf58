package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

// AccountNotifier сообщает пользователю о созданной для него учетной записи
type AccountNotifier interface {
	SendAccountCreated(ctx context.Context, toEmail, name string) error
}

// NoopAccountNotifier используется, когда отправка писем отключена
type NoopAccountNotifier struct{}

func (NoopAccountNotifier) SendAccountCreated(ctx context.Context, toEmail, name string) error {
	log.Debug().Str("to", toEmail).Msg("[EmailService] noop send account created")
	return nil
}

// emailSender - часть клиента Resend, которой пользуется сервис
type emailSender interface {
	SendWithOptions(ctx context.Context, params *resend.SendEmailRequest, options *resend.SendEmailOptions) (*resend.SendEmailResponse, error)
}

// ResendEmailService отправляет письма через Resend REST API
type ResendEmailService struct {
	from     string
	loginURL string
	emails   emailSender
}

// NewResendEmailService создает сервис писем Resend
func NewResendEmailService(apiKey, from, loginURL string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:     from,
		loginURL: loginURL,
		emails:   resend.NewClient(apiKey).Emails,
	}, nil
}

// SendAccountCreated отправляет приглашение войти и сменить пароль
func (s *ResendEmailService) SendAccountCreated(ctx context.Context, toEmail, name string) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Your Kuiz account is ready",
		Text: fmt.Sprintf("Hi %s,\n\nAn administrator created a Kuiz account for %s.\n"+
			"Sign in at %s with the password you were given and choose a new one.",
			name, toEmail, s.loginURL),
		Html: fmt.Sprintf("<p>Hi %s,</p><p>An administrator created a Kuiz account for <strong>%s</strong>.</p>"+
			"<p><a href=\"%s\">Sign in</a> with the password you were given and choose a new one.</p>",
			html.EscapeString(name), html.EscapeString(toEmail), html.EscapeString(s.loginURL)),
	}
	// Одно письмо на адрес, повторы с тем же ключом Resend отбрасывает
	options := &resend.SendEmailOptions{IdempotencyKey: "account-created:" + toEmail}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
