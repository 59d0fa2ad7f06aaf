package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
)

// EmailService sends transactional emails.
type EmailService interface {
	SendVerificationEmail(ctx context.Context, toEmail, verificationToken string) error
	SendCollegeDataNotification(ctx context.Context, toEmail, fullName string, data *entity.CollegeData) error
}

// NoopEmailService logs instead of sending. Used in development and tests.
type NoopEmailService struct{}

func (s *NoopEmailService) SendVerificationEmail(ctx context.Context, toEmail, verificationToken string) error {
	log.Printf("[EmailService] noop send verification email to=%s", toEmail)
	return nil
}

func (s *NoopEmailService) SendCollegeDataNotification(ctx context.Context, toEmail, fullName string, data *entity.CollegeData) error {
	log.Printf("[EmailService] noop send college data notification to=%s", toEmail)
	return nil
}

// ResendEmailService sends emails via Resend REST API.
type ResendEmailService struct {
	from    string
	baseURL string
	client  *resend.Client
}

func NewResendEmailService(apiKey, from, verificationBaseURL string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	if verificationBaseURL == "" {
		verificationBaseURL = "http://localhost:3000"
	}
	return &ResendEmailService{
		from:    from,
		baseURL: strings.TrimRight(verificationBaseURL, "/"),
		client:  resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendVerificationEmail(ctx context.Context, toEmail, verificationToken string) error {
	if toEmail == "" || verificationToken == "" {
		return fmt.Errorf("toEmail and verificationToken are required")
	}

	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, verificationToken)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Verify Your University Email",
		Text: fmt.Sprintf(
			"Thank you for registering. Open this link to verify your university email:\n\n%s\n\nThe link expires in 24 hours. If you didn't create an account, ignore this email.",
			verificationURL,
		),
		Html: fmt.Sprintf(
			`<p>Thank you for registering. Click the link below to verify your university email address.</p>
<p><a href="%s">Verify Email Address</a></p>
<p>Or copy this link into your browser: %s</p>
<p><strong>This verification link will expire in 24 hours.</strong></p>
<p>If you didn't create an account with us, please ignore this email.</p>`,
			verificationURL, verificationURL,
		),
	}

	// The token doubles as the idempotency key: a resend issues a fresh
	// token, so each distinct email gets a distinct key.
	options := &resend.SendEmailOptions{IdempotencyKey: verificationToken}

	return s.sendWithRetry(ctx, params, options)
}

func (s *ResendEmailService) SendCollegeDataNotification(ctx context.Context, toEmail, fullName string, data *entity.CollegeData) error {
	if toEmail == "" || data == nil {
		return fmt.Errorf("toEmail and data are required")
	}

	var advisorLine, gpaLine string
	if data.Advisor != "" {
		advisorLine = fmt.Sprintf("<p><strong>Advisor:</strong> %s</p>", data.Advisor)
	}
	if data.GPA > 0 {
		gpaLine = fmt.Sprintf("<p><strong>GPA:</strong> %.2f</p>", data.GPA)
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "College Data Successfully Retrieved",
		Html: fmt.Sprintf(
			`<p>Hello %s!</p>
<p>We've successfully retrieved your college information and updated your profile.</p>
<p><strong>Department:</strong> %s</p>
<p><strong>Academic Year:</strong> %s</p>
<p><strong>Semester:</strong> %s</p>
<p><strong>Courses:</strong> %s</p>
%s%s
<p>You can now access your personalized dashboard with all your academic information.</p>`,
			fullName, data.Department, data.AcademicYear, data.Semester,
			strings.Join(data.Courses, ", "), advisorLine, gpaLine,
		),
	}

	return s.sendWithRetry(ctx, params, &resend.SendEmailOptions{})
}

func (s *ResendEmailService) sendWithRetry(ctx context.Context, params *resend.SendEmailRequest, options *resend.SendEmailOptions) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
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
