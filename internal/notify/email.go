package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// EmailConfig configures the SMTP channel. An empty Host switches the
// channel to log-only mode for local development.
type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// EmailChannel sends the confirmation email over SMTP.
type EmailChannel struct {
	cfg    EmailConfig
	logger *zerolog.Logger
}

func NewEmailChannel(cfg EmailConfig, logger *zerolog.Logger) *EmailChannel {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &EmailChannel{cfg: cfg, logger: logger}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, data Data) error {
	subject := fmt.Sprintf("Office Reservation Confirmation - Office %d", data.OfficeID)
	body := buildEmailBody(data)

	if c.cfg.Host == "" {
		c.logger.Info().
			Str("to", data.RecipientEmail).
			Str("subject", subject).
			Msg("smtp not configured, logging email instead")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + c.cfg.From,
		"To: " + data.RecipientEmail,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	var auth smtp.Auth
	if c.cfg.Username != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, c.cfg.From, []string{data.RecipientEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func buildEmailBody(data Data) string {
	const timeFormat = "2006-01-02 15:04"
	return fmt.Sprintf(`Dear %s,

Your office reservation has been confirmed!

Reservation Details:
--------------------
Office: %s (Office #%d)
Date & Time: %s - %s
Reservation ID: %d

Please arrive on time. If you need to cancel or modify your reservation,
please contact the office administrator.

Best regards,
Office Reservation System`,
		data.RecipientName,
		data.OfficeName, data.OfficeID,
		data.Start.Format(timeFormat), data.End.Format("15:04"),
		data.ReservationID,
	)
}
