package insight

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Score is a numeric rating stored inconsistently in the collection: most
// documents carry a double or int, legacy imports carry the value as a
// string, and some documents omit it entirely. Decoding maps every
// unconvertible or missing representation to 0 rather than failing, mirroring
// the $convert {onError: 0, onNull: 0} policy the aggregation pipelines use.
type Score float64

// CoerceFloat converts an arbitrary stored value to a float64, mapping
// anything unconvertible to 0.
func CoerceFloat(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	case Score:
		return float64(t)
	}
	return 0
}

func (s Score) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(float64(s))
}

func (s *Score) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeDouble:
		*s = Score(rv.Double())
	case bson.TypeInt32:
		*s = Score(rv.Int32())
	case bson.TypeInt64:
		*s = Score(rv.Int64())
	case bson.TypeString:
		*s = Score(CoerceFloat(rv.StringValue()))
	default:
		*s = 0
	}
	return nil
}

func (s *Score) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Score(CoerceFloat(v))
	return nil
}
