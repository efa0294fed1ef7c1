// Package notify delivers booking confirmations over email and SMS.
// Delivery is synchronous from the caller's point of view but strictly
// fire-and-forget for correctness: a failed channel is logged and reported
// in the Result, never propagated as an error.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"officebook/internal/metrics"
)

// Data is the payload handed to every channel.
type Data struct {
	RecipientName  string
	RecipientEmail string
	RecipientPhone string
	OfficeID       int64
	OfficeName     string
	Start          time.Time
	End            time.Time
	ReservationID  int64
}

// Result reports per-channel delivery success.
type Result struct {
	EmailSent bool `json:"email_sent"`
	SMSSent   bool `json:"sms_sent"`
}

// Notifier is the contract consumed by the booking service.
type Notifier interface {
	Send(ctx context.Context, data Data) Result
}

// Channel delivers over a single transport.
type Channel interface {
	Name() string
	Send(ctx context.Context, data Data) error
}

const sendTimeout = 5 * time.Second

// Combined fans out to an email and an SMS channel, throttling outbound
// traffic so a booking burst cannot flood the gateways.
type Combined struct {
	email   Channel
	sms     Channel
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// NewCombined constructs the combined notifier. perSecond bounds outbound
// sends across both channels; non-positive values default to 20/s with a
// burst of 30.
func NewCombined(email, sms Channel, perSecond float64, logger *zerolog.Logger) *Combined {
	if perSecond <= 0 {
		perSecond = 20
	}
	return &Combined{
		email:   email,
		sms:     sms,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 30),
		logger:  logger,
	}
}

// Send delivers the notification over both channels and reports what landed.
func (n *Combined) Send(ctx context.Context, data Data) Result {
	messageID := uuid.NewString()
	log := n.logger.With().
		Str("message_id", messageID).
		Int64("reservation_id", data.ReservationID).
		Logger()

	return Result{
		EmailSent: n.deliver(ctx, n.email, data, &log),
		SMSSent:   n.deliver(ctx, n.sms, data, &log),
	}
}

func (n *Combined) deliver(ctx context.Context, ch Channel, data Data, log *zerolog.Logger) bool {
	if ch == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := n.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Str("channel", ch.Name()).Msg("notification throttle wait aborted")
		metrics.IncNotification(ch.Name(), "throttled")
		return false
	}

	if err := ch.Send(ctx, data); err != nil {
		log.Error().Err(err).Str("channel", ch.Name()).Msg("notification delivery failed")
		metrics.IncNotification(ch.Name(), "failed")
		return false
	}

	log.Info().Str("channel", ch.Name()).Msg("notification delivered")
	metrics.IncNotification(ch.Name(), "sent")
	return true
}
