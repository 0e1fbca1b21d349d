// Package mongodb implements the InsightStore against a MongoDB collection.
// It is the sole owner of the persisted representation: filters become
// equality query documents, the canned aggregations become pipelines, and
// the score fields are always read through a $convert with zero fallback
// because legacy documents store them as strings.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/viku01999/insights-api/internal/insight"
	"github.com/viku01999/insights-api/internal/storage"
)

// Store is a MongoDB-backed InsightStore.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ storage.InsightStore = (*Store)(nil)

// Connect dials the MongoDB deployment at uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// New creates a Store over the named database and collection.
func New(client *mongo.Client, database, collection string) *Store {
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// query translates the typed filter into an equality query document.
func query(f insight.Filter) bson.M {
	q := bson.M{}
	for name, v := range f.Strings() {
		q[name] = v
	}
	for name, v := range f.Numbers() {
		q[name] = v
	}
	return q
}

// convertDouble builds the zero-fallback conversion expression for a score
// field: unconvertible or missing values count as 0.
func convertDouble(field string) bson.D {
	return bson.D{{Key: "$convert", Value: bson.D{
		{Key: "input", Value: "$" + field},
		{Key: "to", Value: "double"},
		{Key: "onError", Value: 0},
		{Key: "onNull", Value: 0},
	}}}
}

// ifNull substitutes the empty string for missing group keys so decoding
// never sees a BSON null.
func ifNull(expr string) bson.D {
	return bson.D{{Key: "$ifNull", Value: bson.A{expr, ""}}}
}

func (s *Store) Find(ctx context.Context, f insight.Filter, page, limit int) ([]insight.Insight, error) {
	opts := options.Find()
	if page > 0 && limit > 0 {
		opts.SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, query(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find insights: %w", err)
	}
	out := make([]insight.Insight, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, f insight.Filter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, query(f))
	if err != nil {
		return 0, fmt.Errorf("count insights: %w", err)
	}
	return n, nil
}

func (s *Store) DistinctValues(ctx context.Context, fields []string) (map[string][]any, error) {
	out := make(map[string][]any, len(fields))
	for _, field := range fields {
		values, err := s.coll.Distinct(ctx, field, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("distinct %s: %w", field, err)
		}
		kept := make([]any, 0, len(values))
		for _, v := range values {
			if v == nil {
				continue
			}
			if str, ok := v.(string); ok && str == "" {
				continue
			}
			kept = append(kept, v)
		}
		out[field] = kept
	}
	return out, nil
}

func (s *Store) Average(ctx context.Context, field string, f insight.Filter) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: query(f)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avgValue", Value: bson.D{{Key: "$avg", Value: convertDouble(field)}}},
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("average %s: %w", field, err)
	}
	var rows []struct {
		AvgValue float64 `bson:"avgValue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode average %s: %w", field, err)
	}
	// No matching documents produce no group at all; average-of-empty is 0.
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].AvgValue, nil
}

func (s *Store) AverageByGroup(ctx context.Context, groupField, valueField string) ([]insight.GroupAverage, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + groupField},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: convertDouble(valueField)}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "group", Value: ifNull("$_id")},
			{Key: "average", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "average", Value: -1}}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("average %s by %s: %w", valueField, groupField, err)
	}
	out := make([]insight.GroupAverage, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode grouped average: %w", err)
	}
	return out, nil
}

func (s *Store) CountOverTime(ctx context.Context) ([]insight.TimeCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$published"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "date", Value: ifNull("$_id")},
			{Key: "count", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count over time: %w", err)
	}
	out := make([]insight.TimeCount, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode time counts: %w", err)
	}
	return out, nil
}

func (s *Store) BubbleTuples(ctx context.Context) ([]insight.BubblePoint, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "relevance", Value: convertDouble("relevance")},
			{Key: "likelihood", Value: convertDouble("likelihood")},
			{Key: "intensity", Value: convertDouble("intensity")},
			{Key: "topic", Value: ifNull("$topic")},
			{Key: "sector", Value: ifNull("$sector")},
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("bubble tuples: %w", err)
	}
	out := make([]insight.BubblePoint, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode bubble tuples: %w", err)
	}
	return out, nil
}

func (s *Store) StackedCounts(ctx context.Context) ([]insight.SectorTopicCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "sector", Value: "$sector"},
				{Key: "topic", Value: "$topic"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "sector", Value: ifNull("$_id.sector")},
			{Key: "topic", Value: ifNull("$_id.topic")},
			{Key: "count", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "sector", Value: 1},
			{Key: "topic", Value: 1},
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("stacked counts: %w", err)
	}
	out := make([]insight.SectorTopicCount, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode stacked counts: %w", err)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, in insight.Insight) (insight.Insight, error) {
	if in.ID.IsZero() {
		in.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	in.CreatedAt = now
	in.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, in); err != nil {
		return insight.Insight{}, fmt.Errorf("insert insight: %w", err)
	}
	return in, nil
}

// objectID parses a client-supplied id. A malformed id can match nothing,
// so it maps to ErrNotFound rather than a validation failure.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, storage.ErrNotFound
	}
	return oid, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (insight.Insight, error) {
	oid, err := objectID(id)
	if err != nil {
		return insight.Insight{}, err
	}

	var in insight.Insight
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&in)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return insight.Insight{}, storage.ErrNotFound
	}
	if err != nil {
		return insight.Insight{}, fmt.Errorf("find insight %s: %w", id, err)
	}
	return in, nil
}

func (s *Store) Update(ctx context.Context, id string, p insight.Patch) (insight.Insight, error) {
	oid, err := objectID(id)
	if err != nil {
		return insight.Insight{}, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	for name, v := range p.Fields() {
		set[name] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var in insight.Insight
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&in)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return insight.Insight{}, storage.ErrNotFound
	}
	if err != nil {
		return insight.Insight{}, fmt.Errorf("update insight %s: %w", id, err)
	}
	return in, nil
}

func (s *Store) Delete(ctx context.Context, id string) (insight.Insight, error) {
	oid, err := objectID(id)
	if err != nil {
		return insight.Insight{}, err
	}

	var in insight.Insight
	err = s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&in)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return insight.Insight{}, storage.ErrNotFound
	}
	if err != nil {
		return insight.Insight{}, fmt.Errorf("delete insight %s: %w", id, err)
	}
	return in, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}
