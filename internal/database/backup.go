package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupConfig controls the periodic SQLite file backup.
type BackupConfig struct {
	Dir           string
	Interval      time.Duration
	RetentionDays int
}

// BackupService copies the database file to a timestamped backup on a fixed
// interval and prunes backups past the retention window.
type BackupService struct {
	dbPath string
	cfg    BackupConfig
	logger *zerolog.Logger
}

func NewBackupService(dbPath string, cfg BackupConfig, logger *zerolog.Logger) *BackupService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &BackupService{dbPath: dbPath, cfg: cfg, logger: logger}
}

// Run backs up immediately, then on every tick until ctx is cancelled.
func (s *BackupService) Run(ctx context.Context) {
	s.logger.Info().
		Str("dir", s.cfg.Dir).
		Dur("interval", s.cfg.Interval).
		Msg("backup service started")

	if err := s.Backup(); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Backup(); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.cleanup()
		}
	}
}

// Backup writes a timestamped copy of the database file.
func (s *BackupService) Backup() error {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.cfg.Dir, name)

	source, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	dest, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return err
	}

	s.logger.Info().Str("path", path).Msg("backup written")
	return nil
}

func (s *BackupService) cleanup() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		s.logger.Error().Err(err).Msg("read backup dir for cleanup")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("deleting old backup")
			os.Remove(filepath.Join(s.cfg.Dir, file.Name()))
		}
	}
}
