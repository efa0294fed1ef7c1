// Package reminders sends a heads-up notification to users shortly before
// their reservation starts.
package reminders

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"officebook/internal/domain"
	"officebook/internal/notify"
	"officebook/internal/repository"
)

// Store supplies due reminders and records delivery.
type Store interface {
	ListDueReminders(ctx context.Context, now time.Time, within time.Duration) ([]*domain.Reservation, error)
	MarkReminded(ctx context.Context, id int64) error
}

// Config controls the reminder loop.
type Config struct {
	// LeadTime is how far ahead of the reservation start the reminder goes
	// out.
	LeadTime time.Duration
	// CheckInterval is how often the store is polled for due reminders.
	CheckInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		LeadTime:      time.Hour,
		CheckInterval: 5 * time.Minute,
	}
}

// Service polls for upcoming reservations and dispatches reminders through
// the shared notifier.
type Service struct {
	cfg      Config
	store    Store
	offices  repository.OfficeRepository
	notifier notify.Notifier
	logger   *zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

func NewService(cfg Config, store Store, offices repository.OfficeRepository, notifier notify.Notifier, logger *zerolog.Logger) *Service {
	if cfg.LeadTime <= 0 {
		cfg.LeadTime = time.Hour
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 5 * time.Minute
	}
	return &Service{
		cfg:      cfg,
		store:    store,
		offices:  offices,
		notifier: notifier,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the polling loop until ctx is cancelled or Stop is called.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info().
		Dur("lead_time", s.cfg.LeadTime).
		Dur("check_interval", s.cfg.CheckInterval).
		Msg("reminder service started")

	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// Stop halts the polling loop.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.running {
		s.running = false
		close(s.stopCh)
	}
	s.mu.Unlock()
}

// RunOnce processes every currently due reminder.
func (s *Service) RunOnce(ctx context.Context) {
	due, err := s.store.ListDueReminders(ctx, time.Now(), s.cfg.LeadTime)
	if err != nil {
		s.logger.Error().Err(err).Msg("fetch due reminders")
		return
	}
	if len(due) == 0 {
		return
	}

	sent := 0
	for _, r := range due {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if s.remind(ctx, r) {
			sent++
		}
	}
	s.logger.Info().Int("due", len(due)).Int("sent", sent).Msg("reminders processed")
}

func (s *Service) remind(ctx context.Context, r *domain.Reservation) bool {
	officeName := ""
	if office, err := s.offices.GetOffice(ctx, r.OfficeID); err == nil && office != nil {
		officeName = office.Name
	}

	result := s.notifier.Send(ctx, notify.Data{
		RecipientName:  r.User.Name,
		RecipientEmail: r.User.Contact.Email,
		RecipientPhone: r.User.Contact.Phone,
		OfficeID:       r.OfficeID,
		OfficeName:     officeName,
		Start:          r.Slot.Start(),
		End:            r.Slot.End(),
		ReservationID:  r.ID,
	})
	if !result.EmailSent && !result.SMSSent {
		// Leave the row unmarked so the next tick retries.
		s.logger.Warn().Int64("reservation_id", r.ID).Msg("reminder delivery failed")
		return false
	}

	if err := s.store.MarkReminded(ctx, r.ID); err != nil {
		s.logger.Error().Err(err).Int64("reservation_id", r.ID).Msg("mark reminded")
	}
	return true
}
