package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/viku01999/insights-api/internal/insight"
	"github.com/viku01999/insights-api/internal/storage"
)

func seed(t *testing.T, s *Store, records ...insight.Insight) []insight.Insight {
	t.Helper()
	out := make([]insight.Insight, 0, len(records))
	for _, in := range records {
		created, err := s.Create(context.Background(), in)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		out = append(out, created)
	}
	return out
}

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	s := New()
	created := seed(t, s, insight.Insight{Intensity: 7, Sector: "Energy"})[0]

	if created.ID.IsZero() {
		t.Fatalf("expected generated id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %+v", created)
	}

	got, err := s.FindByID(context.Background(), created.ID.Hex())
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got.Sector != "Energy" || got.Intensity != 7 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCountMatchesFindLength(t *testing.T) {
	s := New()
	seed(t, s,
		insight.Insight{Intensity: 1, Sector: "Energy", Topic: "oil"},
		insight.Insight{Intensity: 2, Sector: "Energy", Topic: "gas"},
		insight.Insight{Intensity: 3, Sector: "Retail", Topic: "growth"},
	)

	var f insight.Filter
	f.SetString("sector", "Energy")

	found, err := s.Find(context.Background(), f, 0, 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	count, err := s.Count(context.Background(), f)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if int64(len(found)) != count {
		t.Fatalf("count %d != len(find) %d", count, len(found))
	}
	if count != 2 {
		t.Fatalf("expected 2 matches, got %d", count)
	}
}

func TestFindPaginationReproducesFullSequence(t *testing.T) {
	s := New()
	for i := 0; i < 10; i++ {
		seed(t, s, insight.Insight{Intensity: insight.Score(i), Topic: fmt.Sprintf("t%d", i)})
	}

	full, err := s.Find(context.Background(), insight.Filter{}, 0, 0)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(full) != 10 {
		t.Fatalf("expected 10 records, got %d", len(full))
	}

	limit := 3
	var paged []insight.Insight
	for page := 1; ; page++ {
		chunk, err := s.Find(context.Background(), insight.Filter{}, page, limit)
		if err != nil {
			t.Fatalf("find page %d: %v", page, err)
		}
		if len(chunk) > limit {
			t.Fatalf("page %d has %d items, limit %d", page, len(chunk), limit)
		}
		if len(chunk) == 0 {
			break
		}
		paged = append(paged, chunk...)
	}

	if len(paged) != len(full) {
		t.Fatalf("concatenated pages have %d items, want %d", len(paged), len(full))
	}
	for i := range full {
		if paged[i].ID != full[i].ID {
			t.Fatalf("page concatenation out of order at %d", i)
		}
	}
}

func TestDistinctValuesDropEmpties(t *testing.T) {
	s := New()
	seed(t, s,
		insight.Insight{Intensity: 1, Sector: "Energy"},
		insight.Insight{Intensity: 2, Sector: "Energy"},
		insight.Insight{Intensity: 3, Sector: "Retail"},
		insight.Insight{Intensity: 4}, // no sector
	)

	values, err := s.DistinctValues(context.Background(), []string{"sector", "topic"})
	if err != nil {
		t.Fatalf("distinct: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 keys, got %v", values)
	}

	sectors := values["sector"]
	if len(sectors) != 2 || sectors[0] != "Energy" || sectors[1] != "Retail" {
		t.Fatalf("unexpected sectors: %v", sectors)
	}
	for _, v := range values["topic"] {
		if v == "" || v == nil {
			t.Fatalf("distinct must drop empty values, got %v", values["topic"])
		}
	}
}

func TestAverageOfEmptySetIsZero(t *testing.T) {
	s := New()
	avg, err := s.Average(context.Background(), "intensity", insight.Filter{})
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg != 0 {
		t.Fatalf("average over empty store = %v, want 0", avg)
	}

	seed(t, s, insight.Insight{Intensity: 4}, insight.Insight{Intensity: 8})
	avg, err = s.Average(context.Background(), "intensity", insight.Filter{})
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg != 6 {
		t.Fatalf("average = %v, want 6", avg)
	}
}

func TestAverageByGroupSortedDescending(t *testing.T) {
	s := New()
	seed(t, s,
		insight.Insight{Intensity: 2, Topic: "oil"},
		insight.Insight{Intensity: 4, Topic: "oil"},
		insight.Insight{Intensity: 9, Topic: "gas"},
		insight.Insight{Intensity: 1, Topic: "coal"},
	)

	rows, err := s.AverageByGroup(context.Background(), "topic", "intensity")
	if err != nil {
		t.Fatalf("average by group: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(rows))
	}
	if rows[0].Group != "gas" || rows[0].Average != 9 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Average > rows[i-1].Average {
			t.Fatalf("rows not sorted descending: %+v", rows)
		}
	}
}

func TestCountOverTimeSortedAscending(t *testing.T) {
	s := New()
	seed(t, s,
		insight.Insight{Intensity: 1, Published: "January, 20 2017"},
		insight.Insight{Intensity: 1, Published: "April, 06 2017"},
		insight.Insight{Intensity: 1, Published: "April, 06 2017"},
	)

	rows, err := s.CountOverTime(context.Background())
	if err != nil {
		t.Fatalf("count over time: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(rows))
	}
	// Sorted by the raw string, not parsed dates.
	if rows[0].Date != "April, 06 2017" || rows[0].Count != 2 {
		t.Fatalf("unexpected first bucket: %+v", rows[0])
	}
	if rows[1].Date != "January, 20 2017" || rows[1].Count != 1 {
		t.Fatalf("unexpected second bucket: %+v", rows[1])
	}
}

func TestBubbleTuplesKeepZeroValues(t *testing.T) {
	s := New()
	seed(t, s, insight.Insight{Intensity: 6, Relevance: 0, Likelihood: 3, Topic: "oil", Sector: "Energy"})

	points, err := s.BubbleTuples(context.Background())
	if err != nil {
		t.Fatalf("bubble tuples: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	p := points[0]
	if p.Intensity != 6 || p.Relevance != 0 || p.Likelihood != 3 || p.Topic != "oil" || p.Sector != "Energy" {
		t.Fatalf("unexpected point: %+v", p)
	}
}

func TestStackedCounts(t *testing.T) {
	s := New()
	seed(t, s,
		insight.Insight{Intensity: 1, Sector: "Energy", Topic: "oil"},
		insight.Insight{Intensity: 1, Sector: "Energy", Topic: "oil"},
		insight.Insight{Intensity: 1, Sector: "Energy", Topic: "gas"},
		insight.Insight{Intensity: 1, Sector: "Retail", Topic: "growth"},
	)

	rows, err := s.StackedCounts(context.Background())
	if err != nil {
		t.Fatalf("stacked counts: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(rows))
	}
	want := map[string]int64{"Energy/oil": 2, "Energy/gas": 1, "Retail/growth": 1}
	for _, row := range rows {
		if want[row.Sector+"/"+row.Topic] != row.Count {
			t.Fatalf("unexpected cell: %+v", row)
		}
	}
}

func TestUpdateMergesPartialFields(t *testing.T) {
	s := New()
	created := seed(t, s, insight.Insight{Intensity: 7, Sector: "Retail", Topic: "growth"})[0]

	sector := "Energy"
	updated, err := s.Update(context.Background(), created.ID.Hex(), insight.Patch{Sector: &sector})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Sector != "Energy" {
		t.Fatalf("sector not updated: %+v", updated)
	}
	if updated.Topic != "growth" || updated.Intensity != 7 {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatalf("createdAt must be immutable")
	}
}

func TestDeleteReturnsPriorStateAndNotFoundAfter(t *testing.T) {
	s := New()
	created := seed(t, s, insight.Insight{Intensity: 5, Sector: "Energy"})[0]

	deleted, err := s.Delete(context.Background(), created.ID.Hex())
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != created.ID || deleted.Sector != "Energy" {
		t.Fatalf("unexpected deleted record: %+v", deleted)
	}

	if _, err := s.FindByID(context.Background(), created.ID.Hex()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.Delete(context.Background(), created.ID.Hex()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
	if _, err := s.Update(context.Background(), created.ID.Hex(), insight.Patch{}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update of deleted record, got %v", err)
	}
}
