package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SMSConfig configures the SMS gateway channel. An empty Server switches the
// channel to log-only mode.
type SMSConfig struct {
	Server string `yaml:"server"`
	APIKey string `yaml:"api_key"`
	Sender string `yaml:"sender"`
}

// SMSChannel posts the confirmation text to an HTTP SMS gateway.
type SMSChannel struct {
	cfg    SMSConfig
	client *http.Client
	logger *zerolog.Logger
}

func NewSMSChannel(cfg SMSConfig, logger *zerolog.Logger) *SMSChannel {
	return &SMSChannel{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (c *SMSChannel) Name() string { return "sms" }

type smsRequest struct {
	To     string `json:"to"`
	Sender string `json:"sender,omitempty"`
	Text   string `json:"text"`
}

func (c *SMSChannel) Send(ctx context.Context, data Data) error {
	text := buildSMSText(data)

	if c.cfg.Server == "" {
		c.logger.Info().
			Str("to", data.RecipientPhone).
			Str("text", text).
			Msg("sms gateway not configured, logging sms instead")
		return nil
	}

	payload, err := json.Marshal(smsRequest{
		To:     data.RecipientPhone,
		Sender: c.cfg.Sender,
		Text:   text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Server, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway status %d", resp.StatusCode)
	}
	return nil
}

func buildSMSText(data Data) string {
	const timeFormat = "2006-01-02 15:04"
	return fmt.Sprintf("Office Reservation Confirmed!\nOffice: %s (#%d)\nTime: %s - %s\nID: %d",
		data.OfficeName, data.OfficeID,
		data.Start.Format(timeFormat), data.End.Format("15:04"),
		data.ReservationID,
	)
}
