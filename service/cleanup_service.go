package service

import (
	"go-content-api/logger"
	"go-content-api/repository"
	"time"
)

// CleanupService is the periodic batch job that hard-deletes records
// past their retention window: users soft-deleted long enough ago and
// refresh tokens that were revoked or displaced. It runs on its own
// goroutine and never touches request-serving paths; every failure is
// logged and the next tick retries.
type CleanupService struct {
	users     repository.IUserRepository
	tokens    repository.ITokenRepository
	retention time.Duration
	interval  time.Duration
	batchSize int
	now       func() time.Time
	stop      chan struct{}
}

func NewCleanupService(
	users repository.IUserRepository,
	tokens repository.ITokenRepository,
	retention time.Duration,
	interval time.Duration,
	batchSize int,
	now func() time.Time,
) *CleanupService {
	if now == nil {
		now = time.Now
	}
	return &CleanupService{
		users:     users,
		tokens:    tokens,
		retention: retention,
		interval:  interval,
		batchSize: batchSize,
		now:       now,
		stop:      make(chan struct{}),
	}
}

// Start launches the background loop.
func (s *CleanupService) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Run()
			case <-s.stop:
				return
			}
		}
	}()
	logger.Log.WithField("interval", s.interval.String()).Info("Cleanup job started")
}

// Stop terminates the background loop.
func (s *CleanupService) Stop() {
	close(s.stop)
}

// Run performs one cleanup pass. Exported so operators can trigger it
// out of schedule.
func (s *CleanupService) Run() {
	threshold := s.now().Add(-s.retention)

	total := int64(0)
	for {
		deleted, err := s.users.HardDeleteSoftDeletedBefore(threshold, s.batchSize)
		if err != nil {
			logger.Log.WithError(err).Error("Cleanup: failed to hard delete users")
			break
		}
		total += deleted
		if deleted < int64(s.batchSize) {
			break
		}
	}
	logger.Log.WithField("deleted_users", total).Info("Cleanup: user pass finished")

	deletedTokens, err := s.tokens.HardDeleteRevokedBefore(threshold)
	if err != nil {
		logger.Log.WithError(err).Error("Cleanup: failed to hard delete refresh tokens")
		return
	}
	logger.Log.WithField("deleted_tokens", deletedTokens).Info("Cleanup: token pass finished")
}
