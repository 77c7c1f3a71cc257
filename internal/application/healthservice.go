package application

import (
	"context"
	"time"

	"github.com/ericfisherdev/phonebook/internal/domain/port/driven"
)

// healthCheckTimeout bounds a single storage ping.
const healthCheckTimeout = 2 * time.Second

// HealthStatus values reported by HealthService.
const (
	HealthOK          = "ok"
	HealthUnavailable = "unavailable"
)

// HealthReport is the result of a readiness check.
type HealthReport struct {
	Status    string
	CheckedAt time.Time
	// Err is set when Status is HealthUnavailable. It is for logs only.
	Err error
}

// Healthy reports whether every dependency answered.
func (r HealthReport) Healthy() bool {
	return r.Status == HealthOK
}

// HealthService reports whether the phone book can reach its storage. It
// needs no token.
type HealthService struct {
	store driven.Pinger
	now   func() time.Time
}

// NewHealthService creates a new HealthService with the required dependencies.
func NewHealthService(store driven.Pinger) *HealthService {
	return &HealthService{
		store: store,
		now:   time.Now,
	}
}

// Check pings storage within healthCheckTimeout.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	report := HealthReport{Status: HealthOK, CheckedAt: s.now().UTC()}
	if err := s.store.Ping(ctx); err != nil {
		report.Status = HealthUnavailable
		report.Err = err
	}
	return report
}
