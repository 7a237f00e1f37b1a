package ingestion

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rpattn/leadsathi/internal/domain"
	"github.com/rpattn/leadsathi/internal/events"
	"github.com/rpattn/leadsathi/internal/validator"

	"github.com/sirupsen/logrus"
)

var ist = time.FixedZone("UTC+05:30", 330*60)

type stubLeadRepo struct {
	appended  []domain.Lead
	appendErr error
}

func (s *stubLeadRepo) Append(ctx context.Context, lead domain.Lead) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, lead)
	return nil
}

func (s *stubLeadRepo) List(ctx context.Context) ([]domain.Lead, error) {
	return append([]domain.Lead(nil), s.appended...), nil
}

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) Invalidate(ctx context.Context) error {
	s.calls++
	return s.err
}

type stubPublisher struct {
	published []events.LeadCaptured
	err       error
}

func (s *stubPublisher) PublishLeadCaptured(ctx context.Context, event events.LeadCaptured) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, event)
	return nil
}

func (s *stubPublisher) Close() error { return nil }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fixedClock() func() time.Time {
	instant := time.Date(2024, time.March, 10, 8, 30, 15, 0, time.UTC)
	return func() time.Time { return instant }
}

func newTestService(repo *stubLeadRepo, opts ...Option) *Service {
	base := []Option{WithLocation(ist), WithClock(fixedClock()), WithLogger(quietLogger())}
	return NewService(repo, append(base, opts...)...)
}

func validPayload() map[string]any {
	return map[string]any{
		"name":         "Test User",
		"mobile":       "9876543210",
		"businessType": "Retail",
		"leadSource":   "Website",
		"notes":        "hi",
	}
}

func TestSubmitAppendsOneRow(t *testing.T) {
	repo := &stubLeadRepo{}
	service := newTestService(repo)

	receipt, err := service.Submit(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	if len(repo.appended) != 1 {
		t.Fatalf("expected 1 row appended, got %d", len(repo.appended))
	}
	want := domain.Lead{
		Timestamp:    "10/03/2024 14:00:15",
		Name:         "Test User",
		Mobile:       "9876543210",
		BusinessType: "Retail",
		LeadSource:   "Website",
		Notes:        "hi",
	}
	if repo.appended[0] != want {
		t.Fatalf("unexpected row %+v", repo.appended[0])
	}
	if receipt.Timestamp != want.Timestamp {
		t.Fatalf("expected receipt timestamp %s, got %s", want.Timestamp, receipt.Timestamp)
	}
	if receipt.LeadID != fixedClock()().UnixMilli() {
		t.Fatalf("unexpected lead id %d", receipt.LeadID)
	}
}

func TestSubmitDefaultsNotes(t *testing.T) {
	repo := &stubLeadRepo{}
	service := newTestService(repo)

	payload := validPayload()
	delete(payload, "notes")
	if _, err := service.Submit(context.Background(), payload); err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if repo.appended[0].Notes != "" {
		t.Fatalf("expected empty notes, got %q", repo.appended[0].Notes)
	}
}

func TestSubmitRejectsInvalidWithoutWriting(t *testing.T) {
	cases := map[string]func(map[string]any){
		"missing name":      func(p map[string]any) { delete(p, "name") },
		"short name":        func(p map[string]any) { p["name"] = " A " },
		"missing mobile":    func(p map[string]any) { delete(p, "mobile") },
		"bad mobile":        func(p map[string]any) { p["mobile"] = "1234567890" },
		"bad business type": func(p map[string]any) { p["businessType"] = "retail" },
		"missing source":    func(p map[string]any) { delete(p, "leadSource") },
		"bad source":        func(p map[string]any) { p["leadSource"] = "Billboard" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubLeadRepo{}
			invalidator := &stubInvalidator{}
			service := newTestService(repo, WithInvalidator(invalidator))

			payload := validPayload()
			mutate(payload)

			_, err := service.Submit(context.Background(), payload)
			var validationErr *validator.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(repo.appended) != 0 {
				t.Fatalf("expected no rows appended, got %d", len(repo.appended))
			}
			if invalidator.calls != 0 {
				t.Fatalf("expected no cache invalidation on rejected submission")
			}
		})
	}
}

func TestSubmitWrapsStoreError(t *testing.T) {
	storeErr := errors.New("disk full")
	repo := &stubLeadRepo{appendErr: storeErr}
	publisher := &stubPublisher{}
	service := newTestService(repo, WithPublisher(publisher))

	_, err := service.Submit(context.Background(), validPayload())
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		t.Fatalf("store error must not look like a validation error")
	}
	if len(publisher.published) != 0 {
		t.Fatalf("expected no event for failed append")
	}
}

func TestSubmitInvalidatesAndPublishes(t *testing.T) {
	repo := &stubLeadRepo{}
	invalidator := &stubInvalidator{}
	publisher := &stubPublisher{}
	service := newTestService(repo, WithInvalidator(invalidator), WithPublisher(publisher))

	receipt, err := service.Submit(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	if invalidator.calls != 1 {
		t.Fatalf("expected 1 invalidation, got %d", invalidator.calls)
	}
	if len(publisher.published) != 1 || publisher.published[0].LeadID != receipt.LeadID {
		t.Fatalf("unexpected published events %+v", publisher.published)
	}
}

func TestSubmitIgnoresFollowUpFailures(t *testing.T) {
	repo := &stubLeadRepo{}
	service := newTestService(repo,
		WithInvalidator(&stubInvalidator{err: errors.New("redis down")}),
		WithPublisher(&stubPublisher{err: errors.New("kafka down")}),
	)

	if _, err := service.Submit(context.Background(), validPayload()); err != nil {
		t.Fatalf("expected follow-up failures to be swallowed, got %v", err)
	}
	if len(repo.appended) != 1 {
		t.Fatalf("expected row to be appended")
	}
}
