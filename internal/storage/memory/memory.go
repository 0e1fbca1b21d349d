// Package memory provides a thread-safe in-memory InsightStore. It is
// intended for tests and prototyping and keeps the implementation simple
// while matching the observable semantics of the MongoDB backend.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/viku01999/insights-api/internal/insight"
	"github.com/viku01999/insights-api/internal/storage"
)

// Store is an in-memory InsightStore.
type Store struct {
	mu      sync.RWMutex
	records map[string]insight.Insight
}

var _ storage.InsightStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[string]insight.Insight)}
}

// sorted returns all records ordered by id for deterministic iteration.
func (s *Store) sorted() []insight.Insight {
	out := make([]insight.Insight, 0, len(s.records))
	for _, in := range s.records {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out
}

func (s *Store) Find(_ context.Context, f insight.Filter, page, limit int) ([]insight.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]insight.Insight, 0)
	for _, in := range s.sorted() {
		if f.Matches(in) {
			matched = append(matched, in)
		}
	}

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		if offset >= len(matched) {
			return []insight.Insight{}, nil
		}
		end := offset + limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[offset:end]
	}
	return matched, nil
}

func (s *Store) Count(_ context.Context, f insight.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, in := range s.records {
		if f.Matches(in) {
			n++
		}
	}
	return n, nil
}

func (s *Store) DistinctValues(_ context.Context, fields []string) (map[string][]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]any, len(fields))
	for _, field := range fields {
		if insight.IsNumericField(field) {
			seen := map[float64]bool{}
			for _, in := range s.records {
				v, _ := in.FieldValue(field).(float64)
				seen[v] = true
			}
			values := make([]float64, 0, len(seen))
			for v := range seen {
				values = append(values, v)
			}
			sort.Float64s(values)
			anyValues := make([]any, 0, len(values))
			for _, v := range values {
				anyValues = append(anyValues, v)
			}
			out[field] = anyValues
			continue
		}

		seen := map[string]bool{}
		for _, in := range s.records {
			v, _ := in.FieldValue(field).(string)
			if v == "" {
				continue
			}
			seen[v] = true
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		anyValues := make([]any, 0, len(values))
		for _, v := range values {
			anyValues = append(anyValues, v)
		}
		out[field] = anyValues
	}
	return out, nil
}

func (s *Store) Average(_ context.Context, field string, f insight.Filter) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	var n int64
	for _, in := range s.records {
		if !f.Matches(in) {
			continue
		}
		sum += insight.CoerceFloat(in.FieldValue(field))
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (s *Store) AverageByGroup(_ context.Context, groupField, valueField string) ([]insight.GroupAverage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := map[string]float64{}
	counts := map[string]int64{}
	for _, in := range s.records {
		group, _ := in.FieldValue(groupField).(string)
		sums[group] += insight.CoerceFloat(in.FieldValue(valueField))
		counts[group]++
	}

	out := make([]insight.GroupAverage, 0, len(sums))
	for group, sum := range sums {
		out = append(out, insight.GroupAverage{Group: group, Average: sum / float64(counts[group])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].Group < out[j].Group
	})
	return out, nil
}

func (s *Store) CountOverTime(_ context.Context) ([]insight.TimeCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int64{}
	for _, in := range s.records {
		counts[in.Published]++
	}
	out := make([]insight.TimeCount, 0, len(counts))
	for date, count := range counts {
		out = append(out, insight.TimeCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].Date, out[j].Date) < 0
	})
	return out, nil
}

func (s *Store) BubbleTuples(_ context.Context) ([]insight.BubblePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]insight.BubblePoint, 0, len(s.records))
	for _, in := range s.sorted() {
		out = append(out, insight.BubblePoint{
			Relevance:  float64(in.Relevance),
			Likelihood: float64(in.Likelihood),
			Intensity:  float64(in.Intensity),
			Topic:      in.Topic,
			Sector:     in.Sector,
		})
	}
	return out, nil
}

func (s *Store) StackedCounts(_ context.Context) ([]insight.SectorTopicCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type key struct{ sector, topic string }
	counts := map[key]int64{}
	for _, in := range s.records {
		counts[key{in.Sector, in.Topic}]++
	}
	out := make([]insight.SectorTopicCount, 0, len(counts))
	for k, count := range counts {
		out = append(out, insight.SectorTopicCount{Sector: k.sector, Topic: k.topic, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sector != out[j].Sector {
			return out[i].Sector < out[j].Sector
		}
		return out[i].Topic < out[j].Topic
	})
	return out, nil
}

func (s *Store) Create(_ context.Context, in insight.Insight) (insight.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ID.IsZero() {
		in.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	in.CreatedAt = now
	in.UpdatedAt = now

	s.records[in.ID.Hex()] = in
	return in, nil
}

func (s *Store) FindByID(_ context.Context, id string) (insight.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.records[id]
	if !ok {
		return insight.Insight{}, storage.ErrNotFound
	}
	return in, nil
}

func (s *Store) Update(_ context.Context, id string, p insight.Patch) (insight.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.records[id]
	if !ok {
		return insight.Insight{}, storage.ErrNotFound
	}
	p.Apply(&in)
	in.UpdatedAt = time.Now().UTC()
	s.records[id] = in
	return in, nil
}

func (s *Store) Delete(_ context.Context, id string) (insight.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.records[id]
	if !ok {
		return insight.Insight{}, storage.ErrNotFound
	}
	delete(s.records, id)
	return in, nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}
