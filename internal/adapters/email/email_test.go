package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omekan/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func TestTemplateRenderer_Welcome(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	tests := []struct {
		name     string
		role     domain.Role
		wantText string
	}{
		{name: "organizer", role: domain.RoleOrganizer, wantText: "Veranstaltungen anlegen"},
		{name: "user", role: domain.RoleUser, wantText: "entdecken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, html, text, err := r.Render("welcome", &domain.WelcomeMessageEmailData{
				Email: "ada@example.com",
				Name:  "Ada <b>",
				Role:  tt.role,
			})
			require.NoError(t, err)
			assert.Equal(t, "Willkommen bei Omekan, Ada <b>", subject)
			assert.Contains(t, html, "Ada &lt;b&gt;", "html body is escaped")
			assert.Contains(t, text, "ada@example.com")
			assert.Contains(t, text, tt.wantText)
		})
	}
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)
	_, _, _, err = r.Render("missing", nil)
	assert.Error(t, err)
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := &sesMailer{client: client, fromAddress: "noreply@omekan.test", fromName: "Omekan", logger: testLogger}

	require.NoError(t, m.Send(context.Background(), "ada@example.com", "Hi", "<p>hi</p>", ""))
	assert.Equal(t, "Omekan <noreply@omekan.test>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"ada@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "<p>hi</p>", aws.ToString(client.input.Message.Body.Html.Data))
	assert.Nil(t, client.input.Message.Body.Text)
}

func TestSESMailer_Send_error(t *testing.T) {
	m := &sesMailer{client: &fakeSES{err: errors.New("throttled")}, fromAddress: "a@b.c", logger: testLogger}
	err := m.Send(context.Background(), "x@y.z", "s", "", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: "noop"}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: "ses"}, testLogger)
	assert.Error(t, err, "ses requires a from address")

	m, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "a@b.c", SES: SESConfig{Region: "eu-central-1"}}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)
}
