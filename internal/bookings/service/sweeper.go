package service

import (
	"context"
	"sync"
	"time"

	"scootal/pkg/config"
)

// ExpirySweeper periodically expires stale requested bookings in the
// background. Start once, Stop on shutdown.
type ExpirySweeper struct {
	service  BookingService
	cfg      *config.Config
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewExpirySweeper(service BookingService, cfg *config.Config) *ExpirySweeper {
	return &ExpirySweeper{
		service: service,
		cfg:     cfg,
		stopCh:  make(chan struct{}),
	}
}

func (s *ExpirySweeper) Start() {
	go s.run()
	s.cfg.Log.Info("Booking expiry sweeper started",
		"interval", s.cfg.ExpirySweepInterval,
		"request_ttl", s.cfg.BookingRequestTTL,
	)
}

func (s *ExpirySweeper) run() {
	ticker := time.NewTicker(s.cfg.ExpirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
	defer cancel()

	expired, err := s.service.ExpireStale(ctx)
	if err != nil {
		s.cfg.Log.Error("Expiry sweep failed", "error", err)
		return
	}
	if expired > 0 {
		s.cfg.Log.Info("Expiry sweep completed", "expired", expired)
	}
}

func (s *ExpirySweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}
