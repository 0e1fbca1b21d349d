// Package service holds the query-side business rules of the insights API.
// It is a thin orchestration layer over the store: handlers validate input,
// the store executes; the service owns only the canned aggregation
// definitions and the default filter-field list.
package service

import (
	"context"
	"fmt"

	"github.com/viku01999/insights-api/internal/insight"
	"github.com/viku01999/insights-api/internal/logging"
	"github.com/viku01999/insights-api/internal/storage"
)

// DefaultFilterFields is the field list used by the filter-enumeration
// endpoint when the caller names none. source is deliberately excluded; the
// dashboard does not offer it as a filter dimension.
var DefaultFilterFields = []string{
	"start_year",
	"end_year",
	"intensity",
	"sector",
	"topic",
	"region",
	"country",
	"relevance",
	"pestle",
	"likelihood",
}

// Widgets carries the four dashboard KPI scalars, computed unfiltered.
type Widgets struct {
	TotalInsights int64   `json:"totalInsights"`
	AvgIntensity  float64 `json:"avgIntensity"`
	AvgLikelihood float64 `json:"avgLikelihood"`
	AvgRelevance  float64 `json:"avgRelevance"`
}

// TopicAverage is a bar-chart entry: the mean intensity per topic.
type TopicAverage struct {
	Topic        string  `json:"topic"`
	AvgIntensity float64 `json:"avgIntensity"`
}

// Graphs carries the four precomputed aggregate views, all unfiltered.
type Graphs struct {
	BarChart    []TopicAverage             `json:"barChart"`
	LineChart   []insight.TimeCount        `json:"lineChart"`
	BubbleChart []insight.BubblePoint      `json:"bubbleChart"`
	StackedBar  []insight.SectorTopicCount `json:"stackedBar"`
}

// Service exposes one method per handler need.
type Service struct {
	store storage.InsightStore
	log   *logging.Logger
}

// New creates a Service over the given store.
func New(store storage.InsightStore, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Default("insights")
	}
	return &Service{store: store, log: log}
}

func (s *Service) List(ctx context.Context, f insight.Filter, page, limit int) ([]insight.Insight, error) {
	return s.store.Find(ctx, f, page, limit)
}

func (s *Service) Count(ctx context.Context, f insight.Filter) (int64, error) {
	return s.store.Count(ctx, f)
}

// UniqueFieldValues enumerates distinct filter options. An empty field list
// falls back to DefaultFilterFields.
func (s *Service) UniqueFieldValues(ctx context.Context, fields []string) (map[string][]any, error) {
	if len(fields) == 0 {
		fields = DefaultFilterFields
	}
	return s.store.DistinctValues(ctx, fields)
}

// KPIWidgets computes the four dashboard scalars with no filters applied.
func (s *Service) KPIWidgets(ctx context.Context) (Widgets, error) {
	total, err := s.store.Count(ctx, insight.Filter{})
	if err != nil {
		return Widgets{}, fmt.Errorf("total insights: %w", err)
	}
	avgIntensity, err := s.store.Average(ctx, "intensity", insight.Filter{})
	if err != nil {
		return Widgets{}, fmt.Errorf("avg intensity: %w", err)
	}
	avgLikelihood, err := s.store.Average(ctx, "likelihood", insight.Filter{})
	if err != nil {
		return Widgets{}, fmt.Errorf("avg likelihood: %w", err)
	}
	avgRelevance, err := s.store.Average(ctx, "relevance", insight.Filter{})
	if err != nil {
		return Widgets{}, fmt.Errorf("avg relevance: %w", err)
	}
	return Widgets{
		TotalInsights: total,
		AvgIntensity:  avgIntensity,
		AvgLikelihood: avgLikelihood,
		AvgRelevance:  avgRelevance,
	}, nil
}

// GraphData computes the four chart views with no filters applied.
func (s *Service) GraphData(ctx context.Context) (Graphs, error) {
	byTopic, err := s.store.AverageByGroup(ctx, "topic", "intensity")
	if err != nil {
		return Graphs{}, fmt.Errorf("avg intensity by topic: %w", err)
	}
	bar := make([]TopicAverage, 0, len(byTopic))
	for _, row := range byTopic {
		bar = append(bar, TopicAverage{Topic: row.Group, AvgIntensity: row.Average})
	}

	line, err := s.store.CountOverTime(ctx)
	if err != nil {
		return Graphs{}, fmt.Errorf("insights over time: %w", err)
	}
	bubble, err := s.store.BubbleTuples(ctx)
	if err != nil {
		return Graphs{}, fmt.Errorf("bubble tuples: %w", err)
	}
	stacked, err := s.store.StackedCounts(ctx)
	if err != nil {
		return Graphs{}, fmt.Errorf("stacked counts: %w", err)
	}

	return Graphs{
		BarChart:    bar,
		LineChart:   line,
		BubbleChart: bubble,
		StackedBar:  stacked,
	}, nil
}

func (s *Service) Create(ctx context.Context, in insight.Insight) (insight.Insight, error) {
	return s.store.Create(ctx, in)
}

func (s *Service) Get(ctx context.Context, id string) (insight.Insight, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, p insight.Patch) (insight.Insight, error) {
	return s.store.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id string) (insight.Insight, error) {
	return s.store.Delete(ctx, id)
}

// Ping reports store reachability for the health endpoint.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
