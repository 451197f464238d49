package service

import (
	"log/slog"
)

// visitCounter abstracts the persistent visit count (consumer-defined interface)
type visitCounter interface {
	Increment() (int, error)
}

// SessionService tracks launches of the presentation
type SessionService struct {
	visits visitCounter
	logger *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(visits visitCounter, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{visits: visits, logger: logger}
}

// Begin records a visit and returns the total. A failing store is logged and
// reported as zero so the presentation still starts.
func (s *SessionService) Begin() int {
	n, err := s.visits.Increment()
	if err != nil {
		s.logger.Error("failed to record visit", "error", err)
		return 0
	}
	s.logger.Info("visit recorded", "count", n)
	return n
}
