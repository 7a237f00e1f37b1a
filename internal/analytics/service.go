package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rpattn/leadsathi/internal/domain"
	"github.com/rpattn/leadsathi/internal/repository"
	"github.com/rpattn/leadsathi/internal/response"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTrendDays   = 30
	DefaultRecentLimit = 10

	// Fixed divisors, not elapsed time.
	averageDays  = 30
	averageWeeks = 4
)

// Cache stores computed results between appends. Invalidate must advance
// Generation before dropping entries; results are keyed by the generation read
// before the store, so a write racing an invalidation is never served.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

// Overview counts leads in the today / week / month windows.
type Overview struct {
	Total       int    `json:"total"`
	Today       int    `json:"today"`
	Week        int    `json:"week"`
	Month       int    `json:"month"`
	LastUpdated string `json:"lastUpdated"`
}

// Bucket is one group in a breakdown.
type Bucket struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// SourceBreakdown groups leads by lead source.
type SourceBreakdown struct {
	Sources []Bucket `json:"sources"`
	Total   int      `json:"total"`
}

// BusinessTypeBreakdown groups leads by business type.
type BusinessTypeBreakdown struct {
	BusinessTypes []Bucket `json:"businessTypes"`
	Total         int      `json:"total"`
}

// TrendPoint is the number of leads captured on one day.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Trend is a per-day series, oldest first.
type Trend struct {
	Trend []TrendPoint `json:"trend"`
	Days  int          `json:"days"`
}

// RecentLeads lists the newest leads first.
type RecentLeads struct {
	Leads []domain.Lead `json:"leads"`
	Count int           `json:"count"`
}

type Growth struct {
	TodayVsYesterday float64 `json:"todayVsYesterday"`
	WeekVsLastWeek   float64 `json:"weekVsLastWeek"`
}

type Averages struct {
	PerDay  float64 `json:"perDay"`
	PerWeek float64 `json:"perWeek"`
}

// Stats combines the overview with growth rates and averages.
type Stats struct {
	Overview Overview `json:"overview"`
	Growth   Growth   `json:"growth"`
	Averages Averages `json:"averages"`
}

// Service recomputes every aggregate from a full read of the Record Store.
type Service struct {
	repo     repository.LeadRepository
	cache    Cache
	location *time.Location
	now      func() time.Time
	logger   logrus.FieldLogger
}

type Option func(*Service)

// WithLocation sets the civil offset that defines "today".
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

// WithCache enables result caching. The cache must be invalidated on every append.
func WithCache(cache Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new analytics service.
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

// Overview counts all leads and those captured today, since Monday, and since
// the first of the month.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	now := s.clock()
	var out Overview
	err := s.cached(ctx, "overview:"+domain.DateOf(now).String(), &out, func(leads []domain.Lead) {
		out = computeOverview(leads, now)
	})
	if err != nil {
		return Overview{}, err
	}
	out.LastUpdated = response.ISOTimestamp(now)
	return out, nil
}

// Sources groups leads by lead source.
func (s *Service) Sources(ctx context.Context) (SourceBreakdown, error) {
	var out SourceBreakdown
	err := s.cached(ctx, "sources", &out, func(leads []domain.Lead) {
		buckets, total := group(leads, func(l domain.Lead) string { return l.LeadSource })
		out = SourceBreakdown{Sources: buckets, Total: total}
	})
	return out, err
}

// BusinessTypes groups leads by business type.
func (s *Service) BusinessTypes(ctx context.Context) (BusinessTypeBreakdown, error) {
	var out BusinessTypeBreakdown
	err := s.cached(ctx, "businessTypes", &out, func(leads []domain.Lead) {
		buckets, total := group(leads, func(l domain.Lead) string { return l.BusinessType })
		out = BusinessTypeBreakdown{BusinessTypes: buckets, Total: total}
	})
	return out, err
}

// Trend counts leads per day over the last days calendar days ending today.
// A non-positive days yields an empty series.
func (s *Service) Trend(ctx context.Context, days int) (Trend, error) {
	now := s.clock()
	var out Trend
	key := fmt.Sprintf("trend:%d:%s", days, domain.DateOf(now).String())
	err := s.cached(ctx, key, &out, func(leads []domain.Lead) {
		out = computeTrend(leads, domain.DateOf(now), days)
	})
	return out, err
}

// Recent returns the last limit leads, newest first. A non-positive limit
// yields no leads.
func (s *Service) Recent(ctx context.Context, limit int) (RecentLeads, error) {
	var out RecentLeads
	err := s.cached(ctx, "recent:"+strconv.Itoa(limit), &out, func(leads []domain.Lead) {
		out = computeRecent(leads, limit)
	})
	return out, err
}

// Stats adds day-over-day and week-over-week growth and fixed-divisor averages
// to the overview.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	now := s.clock()
	var out Stats
	err := s.cached(ctx, "stats:"+domain.DateOf(now).String(), &out, func(leads []domain.Lead) {
		out = computeStats(leads, now)
	})
	if err != nil {
		return Stats{}, err
	}
	out.Overview.LastUpdated = response.ISOTimestamp(now)
	return out, nil
}

func (s *Service) clock() time.Time {
	return s.now().In(s.location)
}

// cached serves dest from the cache when possible, otherwise reads the full
// table, runs compute and stores the result. Cache errors degrade to a read.
func (s *Service) cached(ctx context.Context, key string, dest any, compute func([]domain.Lead)) error {
	cacheKey := s.cacheKey(ctx, key)
	if cacheKey != "" {
		hit, err := s.cache.Get(ctx, cacheKey, dest)
		if err != nil {
			s.logger.WithError(err).WithField("key", cacheKey).Warn("analytics cache read failed")
		} else if hit {
			return nil
		}
	}

	leads, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read leads: %w", err)
	}
	compute(leads)

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, dest); err != nil {
			s.logger.WithError(err).WithField("key", cacheKey).Warn("analytics cache write failed")
		}
	}
	return nil
}

// cacheKey qualifies key with the current cache generation. It returns "" when
// caching is off or the generation cannot be read.
func (s *Service) cacheKey(ctx context.Context, key string) string {
	if s.cache == nil {
		return ""
	}
	generation, err := s.cache.Generation(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("analytics cache generation unavailable")
		return ""
	}
	return key + "@" + strconv.FormatInt(generation, 10)
}

func computeOverview(leads []domain.Lead, now time.Time) Overview {
	today := domain.DateOf(now)
	weekStart := today.WeekStart()
	monthStart := today.MonthStart()

	out := Overview{Total: len(leads), LastUpdated: response.ISOTimestamp(now)}
	for _, lead := range leads {
		date, ok := lead.CapturedOn()
		if !ok {
			continue
		}
		if date == today {
			out.Today++
		}
		if !date.Before(weekStart) {
			out.Week++
		}
		if !date.Before(monthStart) {
			out.Month++
		}
	}
	return out
}

func group(leads []domain.Lead, field func(domain.Lead) string) ([]Bucket, int) {
	counts := make(map[string]int)
	order := []string{}
	total := 0
	for _, lead := range leads {
		value := field(lead)
		if value == "" {
			continue
		}
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
		total++
	}

	buckets := make([]Bucket, 0, len(order))
	for _, name := range order {
		buckets = append(buckets, Bucket{
			Name:       name,
			Count:      counts[name],
			Percentage: formatOneDecimal(float64(counts[name]) / float64(total) * 100),
		})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	return buckets, total
}

func computeTrend(leads []domain.Lead, today domain.Date, days int) Trend {
	if days <= 0 {
		return Trend{Trend: []TrendPoint{}, Days: days}
	}

	start := today.AddDays(-(days - 1))
	points := make([]TrendPoint, days)
	for i := range points {
		points[i] = TrendPoint{Date: start.AddDays(i).String()}
	}
	index := make(map[domain.Date]int, days)
	for i := 0; i < days; i++ {
		index[start.AddDays(i)] = i
	}

	for _, lead := range leads {
		date, ok := lead.CapturedOn()
		if !ok {
			continue
		}
		if i, found := index[date]; found {
			points[i].Count++
		}
	}
	return Trend{Trend: points, Days: days}
}

func computeRecent(leads []domain.Lead, limit int) RecentLeads {
	if limit <= 0 {
		return RecentLeads{Leads: []domain.Lead{}, Count: 0}
	}
	start := len(leads) - limit
	if start < 0 {
		start = 0
	}

	tail := leads[start:]
	out := make([]domain.Lead, len(tail))
	for i, lead := range tail {
		out[len(tail)-1-i] = lead
	}
	return RecentLeads{Leads: out, Count: len(out)}
}

func computeStats(leads []domain.Lead, now time.Time) Stats {
	overview := computeOverview(leads, now)

	today := domain.DateOf(now)
	yesterday := today.AddDays(-1)
	lastWeekStart := today.AddDays(-14)
	lastWeekEnd := today.AddDays(-7)

	yesterdayCount := 0
	lastWeekCount := 0
	for _, lead := range leads {
		date, ok := lead.CapturedOn()
		if !ok {
			continue
		}
		if date == yesterday {
			yesterdayCount++
		}
		if !date.Before(lastWeekStart) && date.Before(lastWeekEnd) {
			lastWeekCount++
		}
	}

	return Stats{
		Overview: overview,
		Growth: Growth{
			TodayVsYesterday: growth(overview.Today, yesterdayCount),
			WeekVsLastWeek:   growth(overview.Week, lastWeekCount),
		},
		Averages: Averages{
			PerDay:  roundOneDecimal(float64(overview.Total) / averageDays),
			PerWeek: roundOneDecimal(float64(overview.Total) / averageWeeks),
		},
	}
}

// growth is the percent change from previous to current; with no previous
// period it is 100 when current is positive and 0 otherwise.
func growth(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return roundOneDecimal(float64(current-previous) / float64(previous) * 100)
}

func roundOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}

func formatOneDecimal(value float64) string {
	return strconv.FormatFloat(roundOneDecimal(value), 'f', 1, 64)
}
