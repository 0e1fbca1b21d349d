// Package insight contains the domain model for the insights collection:
// the record itself, the allow-listed filter and patch types used by the
// API layer, and the row types produced by the canned aggregations.
package insight

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Insight is a single business/economic data point tagged with categorical
// dimensions and scored on intensity, likelihood and relevance. Every field
// except intensity is optional. Temporal fields are kept as raw strings;
// the source data does not use a consistent date format.
type Insight struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Insight string `bson:"insight,omitempty" json:"insight,omitempty"`
	URL     string `bson:"url,omitempty" json:"url,omitempty"`
	Title   string `bson:"title,omitempty" json:"title,omitempty"`
	Source  string `bson:"source,omitempty" json:"source,omitempty"`

	Sector  string `bson:"sector,omitempty" json:"sector,omitempty"`
	Topic   string `bson:"topic,omitempty" json:"topic,omitempty"`
	Region  string `bson:"region,omitempty" json:"region,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
	Pestle  string `bson:"pestle,omitempty" json:"pestle,omitempty"`

	StartYear string `bson:"start_year,omitempty" json:"start_year,omitempty"`
	EndYear   string `bson:"end_year,omitempty" json:"end_year,omitempty"`
	Added     string `bson:"added,omitempty" json:"added,omitempty"`
	Published string `bson:"published,omitempty" json:"published,omitempty"`

	Impact string `bson:"impact,omitempty" json:"impact,omitempty"`

	Intensity  Score `bson:"intensity" json:"intensity"`
	Relevance  Score `bson:"relevance,omitempty" json:"relevance"`
	Likelihood Score `bson:"likelihood,omitempty" json:"likelihood"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Fields lists every filterable attribute name as it appears on the wire
// and in the store. NumericFields is the subset holding scores.
var (
	Fields = []string{
		"insight", "url", "title", "source",
		"sector", "topic", "region", "country", "pestle",
		"start_year", "end_year", "added", "published",
		"impact",
		"intensity", "relevance", "likelihood",
	}

	NumericFields = []string{"intensity", "relevance", "likelihood"}
)

// IsNumericField reports whether name is one of the score fields.
func IsNumericField(name string) bool {
	for _, f := range NumericFields {
		if f == name {
			return true
		}
	}
	return false
}

// FieldValue returns the value of the named attribute, a string for the
// textual fields and a float64 for the scores. Unknown names yield nil.
func (in Insight) FieldValue(name string) any {
	switch name {
	case "insight":
		return in.Insight
	case "url":
		return in.URL
	case "title":
		return in.Title
	case "source":
		return in.Source
	case "sector":
		return in.Sector
	case "topic":
		return in.Topic
	case "region":
		return in.Region
	case "country":
		return in.Country
	case "pestle":
		return in.Pestle
	case "start_year":
		return in.StartYear
	case "end_year":
		return in.EndYear
	case "added":
		return in.Added
	case "published":
		return in.Published
	case "impact":
		return in.Impact
	case "intensity":
		return float64(in.Intensity)
	case "relevance":
		return float64(in.Relevance)
	case "likelihood":
		return float64(in.Likelihood)
	}
	return nil
}

// TimeCount is one bucket of the insights-over-time series, keyed by the
// raw published string.
type TimeCount struct {
	Date  string `bson:"date" json:"date"`
	Count int64  `bson:"count" json:"count"`
}

// GroupAverage is one row of a grouped average, sorted descending by the
// average value.
type GroupAverage struct {
	Group   string  `bson:"group" json:"group"`
	Average float64 `bson:"average" json:"average"`
}

// BubblePoint is a single bubble-chart tuple: relevance vs likelihood with
// intensity as the bubble size.
type BubblePoint struct {
	Relevance  float64 `bson:"relevance" json:"relevance"`
	Likelihood float64 `bson:"likelihood" json:"likelihood"`
	Intensity  float64 `bson:"intensity" json:"intensity"`
	Topic      string  `bson:"topic" json:"topic"`
	Sector     string  `bson:"sector" json:"sector"`
}

// SectorTopicCount is one cell of the sector-by-topic stacked bar chart.
type SectorTopicCount struct {
	Sector string `bson:"sector" json:"sector"`
	Topic  string `bson:"topic" json:"topic"`
	Count  int64  `bson:"count" json:"count"`
}
