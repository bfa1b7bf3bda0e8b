// Package service implements the signup workflow between the HTTP handlers
// and the activity registry: confirmation messages, logging, metrics and
// the audit trail.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/metrics"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/registry"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
	"go.uber.org/zap"
)

const defaultAuditTimeout = 2 * time.Second

// ActivityService orchestrates roster changes.
type ActivityService struct {
	registry     *registry.Registry
	audit        repository.AuditSink
	auditTimeout time.Duration
	log          *zap.Logger
}

// Option customises an ActivityService.
type Option func(*ActivityService)

// WithAuditTimeout bounds each audit write.
func WithAuditTimeout(d time.Duration) Option {
	return func(s *ActivityService) {
		if d > 0 {
			s.auditTimeout = d
		}
	}
}

// NewActivityService constructs an ActivityService. A nil audit sink
// discards audit entries and a nil logger discards logs.
func NewActivityService(reg *registry.Registry, audit repository.AuditSink, log *zap.Logger, opts ...Option) *ActivityService {
	if audit == nil {
		audit = repository.NopAuditSink{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &ActivityService{
		registry:     reg,
		audit:        audit,
		auditTimeout: defaultAuditTimeout,
		log:          log,
	}
	for _, opt := range opts {
		opt(s)
	}
	for name, a := range reg.List() {
		metrics.ActivityParticipants.WithLabelValues(name).Set(float64(len(a.Participants)))
	}
	return s
}

// ListActivities returns every activity keyed by name.
func (s *ActivityService) ListActivities(ctx context.Context) map[string]model.Activity {
	return s.registry.List()
}

// Signup adds email to the named activity.
func (s *ActivityService) Signup(ctx context.Context, name, email string) (*model.MessageResponse, error) {
	a, err := s.registry.Signup(name, email)
	if err != nil {
		s.fail("signup", name, err)
		return nil, err
	}
	s.succeed(ctx, model.AuditSignup, name, email, a)
	return &model.MessageResponse{Message: fmt.Sprintf("Signed up %s for %s", email, name)}, nil
}

// Unregister removes email from the named activity.
func (s *ActivityService) Unregister(ctx context.Context, name, email string) (*model.MessageResponse, error) {
	a, err := s.registry.Unregister(name, email)
	if err != nil {
		s.fail("unregister", name, err)
		return nil, err
	}
	s.succeed(ctx, model.AuditUnregister, name, email, a)
	return &model.MessageResponse{Message: fmt.Sprintf("Unregistered %s from %s", email, name)}, nil
}

func (s *ActivityService) succeed(ctx context.Context, action model.AuditAction, name, email string, a model.Activity) {
	metrics.RegistryOperations.WithLabelValues(string(action), metrics.ResultSuccess).Inc()
	metrics.ActivityParticipants.WithLabelValues(name).Set(float64(len(a.Participants)))

	// Student emails stay out of the logs; audit_id links a line to its audit entry.
	entry := repository.NewAuditEntry(action, name, email)
	fields := []zap.Field{
		zap.String("activity", name),
		zap.String("audit_id", entry.ID),
		zap.Int("participants", len(a.Participants)),
		zap.Int("max_participants", a.MaxParticipants),
		zap.Bool("full", a.IsFull()),
	}
	if a.Remaining() < 0 {
		s.log.Warn("activity over capacity", fields...)
	}
	s.log.Debug(string(action), fields...)

	// Audit failures are logged, never returned. The write outlives a
	// disconnected client but not the audit timeout.
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.auditTimeout)
	defer cancel()
	if err := s.audit.Record(auditCtx, entry); err != nil {
		metrics.AuditWriteFailures.WithLabelValues(s.audit.Driver()).Inc()
		s.log.Warn("audit write failed",
			zap.String("driver", s.audit.Driver()),
			zap.String("audit_id", entry.ID),
			zap.Error(err),
		)
	}
}

func (s *ActivityService) fail(op, name string, err error) {
	result := metrics.ResultError
	switch {
	case errors.Is(err, registry.ErrActivityNotFound):
		result = metrics.ResultNotFound
	case errors.Is(err, registry.ErrAlreadySignedUp), errors.Is(err, registry.ErrNotRegistered):
		result = metrics.ResultConflict
	}
	metrics.RegistryOperations.WithLabelValues(op, result).Inc()
	s.log.Debug(op+" rejected",
		zap.String("activity", name),
		zap.Error(err),
	)
}
