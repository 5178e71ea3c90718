// Package email sends notification emails through Resend.
//
// Templates are embedded HTML rendered with html/template.
package email

import (
	"context"

	"github.com/hadywafa/DatabaseHub/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

const defaultSender = "DatabaseHub <onboarding@resend.dev>"

// sender is the part of resend.EmailsSvc the client needs.
type sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Client struct {
	emails sender
	from   string
	logger *zerolog.Logger
}

func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	from := cfg.Integration.ReportSender
	if from == "" {
		from = defaultSender
	}

	return &Client{
		emails: resend.NewClient(cfg.Integration.ResendAPIKey).Emails,
		from:   from,
		logger: logger,
	}
}

// SendEmail renders templateName with data and sends it to one recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data any) error {
	html, err := RenderTemplate(templateName, data)
	if err != nil {
		return err
	}

	resp, err := c.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to send %s email", templateName)
	}

	c.logger.Debug().Str("template", string(templateName)).Str("email_id", resp.Id).Msg("email sent")
	return nil
}
