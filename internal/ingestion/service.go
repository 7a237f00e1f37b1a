package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/rpattn/leadsathi/internal/domain"
	"github.com/rpattn/leadsathi/internal/events"
	"github.com/rpattn/leadsathi/internal/repository"
	"github.com/rpattn/leadsathi/internal/validator"

	"github.com/sirupsen/logrus"
)

// Invalidator drops derived data after the lead table changes.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service validates submissions and appends them to the Record Store.
type Service struct {
	repo        repository.LeadRepository
	location    *time.Location
	now         func() time.Time
	invalidator Invalidator
	publisher   events.Publisher
	logger      logrus.FieldLogger
}

type Option func(*Service)

// WithLocation sets the civil offset timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithInvalidator(invalidator Invalidator) Option {
	return func(s *Service) {
		s.invalidator = invalidator
	}
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new ingestion service.
func NewService(repo repository.LeadRepository, opts ...Option) *Service {
	service := &Service{
		repo:     repo,
		location: time.UTC,
		now:      time.Now,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Receipt confirms a captured lead.
type Receipt struct {
	Timestamp string `json:"timestamp"`
	// LeadID is the capture instant in epoch milliseconds. Two submissions in
	// the same millisecond share an id.
	LeadID int64 `json:"leadId"`
}

// Submit validates the decoded payload and appends exactly one row on success.
// Validation failures are returned as *validator.ValidationError and leave the
// store untouched; store failures are wrapped and returned as is.
func (s *Service) Submit(ctx context.Context, payload map[string]any) (Receipt, error) {
	submission, err := validator.ParseSubmission(payload)
	if err != nil {
		return Receipt{}, err
	}

	lead := submission.Lead(s.now().In(s.location))
	if err := s.repo.Append(ctx, lead); err != nil {
		return Receipt{}, fmt.Errorf("failed to append lead: %w", err)
	}

	receipt := Receipt{
		Timestamp: lead.Timestamp,
		LeadID:    s.now().UnixMilli(),
	}

	s.logger.WithFields(logrus.Fields{
		"name":    lead.Name,
		"source":  lead.LeadSource,
		"lead_id": receipt.LeadID,
	}).Info("lead captured")

	s.afterAppend(ctx, lead, receipt)

	return receipt, nil
}

// afterAppend runs best-effort follow ups; the row is already stored, so
// failures here are logged and never reported to the submitter.
func (s *Service) afterAppend(ctx context.Context, lead domain.Lead, receipt Receipt) {
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.logger.WithError(err).Warn("failed to invalidate analytics cache")
		}
	}
	if s.publisher != nil {
		event := events.LeadCaptured{LeadID: receipt.LeadID, Lead: lead}
		if err := s.publisher.PublishLeadCaptured(ctx, event); err != nil {
			s.logger.WithError(err).Warn("failed to publish lead event")
		}
	}
}
