// Package storage defines the persistence contract for insight records.
// Implementations live in the mongodb and memory subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/viku01999/insights-api/internal/insight"
)

// ErrNotFound is returned when an id-addressed operation matches no record.
var ErrNotFound = errors.New("insight not found")

// InsightStore persists insight records and executes the canned
// aggregations the dashboard needs. Implementations translate the typed
// filter into their native query representation; the three score fields are
// always aggregated with the zero-fallback conversion (unconvertible or
// missing values count as 0).
type InsightStore interface {
	// Find returns the records matching f. When page and limit are both
	// positive it returns the limit-sized slice starting at offset
	// (page-1)*limit; otherwise the full matching sequence. page is
	// 1-indexed.
	Find(ctx context.Context, f insight.Filter, page, limit int) ([]insight.Insight, error)

	// Count returns the number of records matching f.
	Count(ctx context.Context, f insight.Filter) (int64, error)

	// DistinctValues returns, per requested field, the distinct values
	// observed across all records with null and empty-string values
	// dropped. Score fields yield float64 values, the rest strings.
	DistinctValues(ctx context.Context, fields []string) (map[string][]any, error)

	// Average returns the mean of field over the records matching f,
	// 0 when nothing matches.
	Average(ctx context.Context, field string, f insight.Filter) (float64, error)

	// AverageByGroup returns the mean of valueField per distinct value of
	// groupField, sorted descending by the average.
	AverageByGroup(ctx context.Context, groupField, valueField string) ([]insight.GroupAverage, error)

	// CountOverTime returns record counts grouped by the raw published
	// string, sorted ascending by that string.
	CountOverTime(ctx context.Context) ([]insight.TimeCount, error)

	// BubbleTuples returns one (relevance, likelihood, intensity, topic,
	// sector) tuple per record.
	BubbleTuples(ctx context.Context) ([]insight.BubblePoint, error)

	// StackedCounts returns record counts grouped by (sector, topic).
	StackedCounts(ctx context.Context) ([]insight.SectorTopicCount, error)

	Create(ctx context.Context, in insight.Insight) (insight.Insight, error)
	FindByID(ctx context.Context, id string) (insight.Insight, error)
	Update(ctx context.Context, id string, p insight.Patch) (insight.Insight, error)
	Delete(ctx context.Context, id string) (insight.Insight, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
