package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tallymatic/tallymatic-api/config"
)

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resend.SendEmailResponse), args.Error(1)
}

func newTestEmailService(t *testing.T) (*EmailService, *mockEmailSender) {
	t.Helper()
	cfg := &config.EmailConfig{
		FromAddress: "no-reply@tallymatic.io",
		FromName:    "Tallymatic",
		FrontendURL: "https://admin.tallymatic.io/",
	}
	svc := NewEmailService(cfg, prometheus.NewRegistry())
	sender := new(mockEmailSender)
	svc.sender = sender
	return svc, sender
}

func TestEmailService_SendResetPasswordEmail(t *testing.T) {
	svc, sender := newTestEmailService(t)
	ctx := context.Background()

	sender.On("SendWithContext", ctx, mock.MatchedBy(func(req *resend.SendEmailRequest) bool {
		return req.From == "Tallymatic <no-reply@tallymatic.io>" &&
			len(req.To) == 1 && req.To[0] == "ada@example.com" &&
			req.Subject == "Reset password" &&
			strings.Contains(req.Html, "https://admin.tallymatic.io/reset-password?token=abc.def")
	})).Return(&resend.SendEmailResponse{Id: "email-1"}, nil).Once()

	require.NoError(t, svc.SendResetPasswordEmail(ctx, "ada@example.com", "abc.def"))
	sender.AssertExpectations(t)
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.sentCount))
	assert.Equal(t, float64(0), testutil.ToFloat64(svc.metrics.errorCount))
}

func TestEmailService_SendVerificationEmail(t *testing.T) {
	svc, sender := newTestEmailService(t)
	ctx := context.Background()

	sender.On("SendWithContext", ctx, mock.MatchedBy(func(req *resend.SendEmailRequest) bool {
		return req.Subject == "Email Verification" &&
			strings.Contains(req.Html, "https://admin.tallymatic.io/verify-email?token=tok")
	})).Return(&resend.SendEmailResponse{Id: "email-2"}, nil).Once()

	require.NoError(t, svc.SendVerificationEmail(ctx, "ada@example.com", "tok"))
	sender.AssertExpectations(t)
}

func TestEmailService_SendFailure(t *testing.T) {
	svc, sender := newTestEmailService(t)
	ctx := context.Background()

	sender.On("SendWithContext", ctx, mock.Anything).Return(nil, errors.New("rate limited")).Once()

	err := svc.SendResetPasswordEmail(ctx, "ada@example.com", "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email send failed")
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.errorCount))
	assert.Equal(t, float64(0), testutil.ToFloat64(svc.metrics.sentCount))
}

func TestEmailService_WithoutProvider(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{FrontendURL: "http://localhost:5173"}, prometheus.NewRegistry())
	assert.Nil(t, svc.sender)

	require.NoError(t, svc.SendVerificationEmail(context.Background(), "ada@example.com", "tok"))
	assert.Equal(t, float64(0), testutil.ToFloat64(svc.metrics.sentCount))
}
