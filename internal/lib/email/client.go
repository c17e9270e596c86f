// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and renders HTML bodies
// from templates embedded in the binary.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/deppfellow/odoo-bridge/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Client wraps the Resend client and a logger.
type Client struct {
	// client is the provider client used to send emails via API.
	client *resend.Client

	from string
	to   string

	logger *zerolog.Logger
}

// NewClient creates an email Client, or returns nil when notifications are
// not configured.
func NewClient(cfg config.NotifyConfig, logger *zerolog.Logger) *Client {
	if !cfg.Enabled() {
		return nil
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	if cfg.ResendBaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.ResendBaseURL, "/") + "/")
		if err != nil {
			logger.Warn().Err(err).Msg("invalid resend base url, using the default endpoint")
		} else {
			client.BaseURL = base
		}
	}

	return &Client{
		client: client,
		from:   cfg.From,
		to:     cfg.To,
		logger: logger,
	}
}

// Render executes templateName with data.
func Render(templateName Template, data map[string]string) (string, error) {
	tmplPath := fmt.Sprintf("templates/%s.html", templateName)

	tmpl, err := template.ParseFS(templateFS, tmplPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	return body.String(), nil
}

// SendEmail renders templateName with data and sends it through Resend.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("email_id", sent.Id).
		Str("template", string(templateName)).
		Msg("email sent")

	return nil
}
