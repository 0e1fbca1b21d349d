package service

import (
	"context"
	"testing"

	"github.com/viku01999/insights-api/internal/insight"
	"github.com/viku01999/insights-api/internal/storage/memory"
)

func seed(t *testing.T, svc *Service, records ...insight.Insight) {
	t.Helper()
	for _, in := range records {
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestUniqueFieldValuesDefaults(t *testing.T) {
	svc := New(memory.New(), nil)
	seed(t, svc, insight.Insight{Intensity: 3, Sector: "Energy", Source: "EIA"})

	values, err := svc.UniqueFieldValues(context.Background(), nil)
	if err != nil {
		t.Fatalf("unique values: %v", err)
	}
	if len(values) != len(DefaultFilterFields) {
		t.Fatalf("expected %d default fields, got %d (%v)", len(DefaultFilterFields), len(values), values)
	}
	for _, field := range DefaultFilterFields {
		if _, ok := values[field]; !ok {
			t.Fatalf("default field %s missing from result", field)
		}
	}
	// source is deliberately not part of the default enumeration.
	if _, ok := values["source"]; ok {
		t.Fatalf("source must not be enumerated by default")
	}
}

func TestUniqueFieldValuesExplicitFields(t *testing.T) {
	svc := New(memory.New(), nil)
	seed(t, svc,
		insight.Insight{Intensity: 3, Sector: "Energy", Topic: "oil"},
		insight.Insight{Intensity: 4, Sector: "Retail", Topic: "oil"},
	)

	values, err := svc.UniqueFieldValues(context.Background(), []string{"sector", "topic"})
	if err != nil {
		t.Fatalf("unique values: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected exactly the requested fields, got %v", values)
	}
	if len(values["sector"]) != 2 || len(values["topic"]) != 1 {
		t.Fatalf("unexpected value sets: %v", values)
	}
}

func TestKPIWidgets(t *testing.T) {
	svc := New(memory.New(), nil)

	// Empty store: all KPIs are zero, never an error.
	w, err := svc.KPIWidgets(context.Background())
	if err != nil {
		t.Fatalf("widgets on empty store: %v", err)
	}
	if w.TotalInsights != 0 || w.AvgIntensity != 0 || w.AvgLikelihood != 0 || w.AvgRelevance != 0 {
		t.Fatalf("expected zero widgets, got %+v", w)
	}

	seed(t, svc,
		insight.Insight{Intensity: 4, Likelihood: 2, Relevance: 1},
		insight.Insight{Intensity: 8, Likelihood: 4, Relevance: 3},
	)

	w, err = svc.KPIWidgets(context.Background())
	if err != nil {
		t.Fatalf("widgets: %v", err)
	}
	if w.TotalInsights != 2 {
		t.Fatalf("total = %d, want 2", w.TotalInsights)
	}
	if w.AvgIntensity != 6 || w.AvgLikelihood != 3 || w.AvgRelevance != 2 {
		t.Fatalf("unexpected averages: %+v", w)
	}
}

func TestGraphData(t *testing.T) {
	svc := New(memory.New(), nil)
	seed(t, svc,
		insight.Insight{Intensity: 2, Topic: "oil", Sector: "Energy", Published: "2017-01", Relevance: 1, Likelihood: 2},
		insight.Insight{Intensity: 8, Topic: "gas", Sector: "Energy", Published: "2016-06", Relevance: 3, Likelihood: 4},
		insight.Insight{Intensity: 4, Topic: "oil", Sector: "Energy", Published: "2017-01", Relevance: 2, Likelihood: 1},
	)

	g, err := svc.GraphData(context.Background())
	if err != nil {
		t.Fatalf("graphs: %v", err)
	}

	if len(g.BarChart) != 2 {
		t.Fatalf("expected 2 bar entries, got %v", g.BarChart)
	}
	if g.BarChart[0].Topic != "gas" || g.BarChart[0].AvgIntensity != 8 {
		t.Fatalf("bar chart not sorted descending by average intensity: %v", g.BarChart)
	}
	if g.BarChart[1].Topic != "oil" || g.BarChart[1].AvgIntensity != 3 {
		t.Fatalf("unexpected second bar entry: %v", g.BarChart)
	}

	if len(g.LineChart) != 2 || g.LineChart[0].Date != "2016-06" {
		t.Fatalf("line chart not sorted ascending by published: %v", g.LineChart)
	}
	if len(g.BubbleChart) != 3 {
		t.Fatalf("expected 3 bubble points, got %d", len(g.BubbleChart))
	}
	if len(g.StackedBar) != 2 {
		t.Fatalf("expected 2 stacked cells, got %v", g.StackedBar)
	}
}
