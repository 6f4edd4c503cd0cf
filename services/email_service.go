package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"

	"github.com/tallymatic/tallymatic-api/config"
	"github.com/tallymatic/tallymatic-api/logger"
)

// emailSender is the part of the resend client the service uses.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService sends the reset-password and verification mails. Without a Resend
// API key the mails are only logged, which is what development and tests want.
type EmailService struct {
	config  *config.EmailConfig
	sender  emailSender
	metrics *EmailMetrics
}

type emailData struct {
	Title   string
	Heading string
	Body    string
	Action  string
	Link    string
}

func NewEmailService(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	log := logger.GetLogger()
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tallymatic_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tallymatic_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tallymatic_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}
	reg.MustRegister(metrics.sendLatency, metrics.errorCount, metrics.sentCount)

	svc := &EmailService{config: cfg, metrics: metrics}
	if cfg.ResendAPIKey != "" {
		svc.sender = resend.NewClient(cfg.ResendAPIKey).Emails
	} else {
		log.Warn("RESEND_API_KEY not set, emails will be logged instead of sent")
	}
	log.Infow("Initialized email service",
		"from", cfg.FromAddress,
		"apiKey", logger.MaskSensitiveString(cfg.ResendAPIKey, 3, 0))
	return svc
}

func (s *EmailService) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	return s.send(ctx, to, "Reset password", emailData{
		Title:   "Reset your password",
		Heading: "Reset your password",
		Body:    "Someone asked to reset the password of your Tallymatic account. If it was not you, ignore this email.",
		Action:  "Reset password",
		Link:    s.link("/reset-password", token),
	})
}

func (s *EmailService) SendVerificationEmail(ctx context.Context, to, token string) error {
	return s.send(ctx, to, "Email Verification", emailData{
		Title:   "Verify your email",
		Heading: "Verify your email",
		Body:    "Confirm the address of your Tallymatic account.",
		Action:  "Verify email",
		Link:    s.link("/verify-email", token),
	})
}

func (s *EmailService) link(path, token string) string {
	return strings.TrimRight(s.config.FrontendURL, "/") + path + "?token=" + url.QueryEscape(token)
}

func (s *EmailService) send(ctx context.Context, to, subject string, data emailData) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	var html bytes.Buffer
	if err := actionEmailTemplate.Execute(&html, data); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to execute email template", "error", err)
		return fmt.Errorf("failed to execute template: %w", err)
	}

	if s.sender == nil {
		log.Infow("Email not sent, no provider configured",
			"to", logger.MaskEmail(to),
			"subject", subject,
			"link", data.Link)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{to},
		Subject: subject,
		Html:    html.String(),
	}
	if _, err := s.sender.SendWithContext(ctx, params); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send email",
			"error", err,
			"to", logger.MaskEmail(to),
			"subject", subject)
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Email sent successfully",
		"to", logger.MaskEmail(to),
		"subject", subject)
	return nil
}

var actionEmailTemplate = template.Must(template.New("action").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: sans-serif; background-color: #f7f7f7; color: #333333; margin: 0; padding: 20px; text-align: center; }
        .container { max-width: 600px; margin: 20px auto; background-color: #ffffff; padding: 30px; border-radius: 12px; }
        h1 { color: #111827; font-size: 26px; margin-bottom: 20px; }
        p { font-size: 16px; line-height: 1.6; margin-bottom: 25px; }
        .button { display: inline-block; padding: 12px 24px; font-weight: bold; text-decoration: none; background-color: #111827; color: #ffffff; border-radius: 8px; }
        .link { margin-top: 20px; font-size: 14px; color: #777777; word-break: break-all; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Heading}}</h1>
        <p>{{.Body}}</p>
        <p><a href="{{.Link}}" class="button">{{.Action}}</a></p>
        <p class="link">Or copy this link:<br/>{{.Link}}</p>
    </div>
</body>
</html>`))
