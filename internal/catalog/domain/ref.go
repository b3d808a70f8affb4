package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Ref is a document identifier in its string form. Documents written by
// different tools stored references as ObjectIDs, strings or numbers; all of
// them decode to one string value.
type Ref string

func (r Ref) String() string { return string(r) }

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (r *Ref) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.ObjectID:
		if len(data) < 12 {
			return fmt.Errorf("ref: short objectid (%d bytes)", len(data))
		}
		var oid primitive.ObjectID
		copy(oid[:], data[:12])
		*r = Ref(oid.Hex())
	case bsontype.String:
		s, _, ok := bsoncore.ReadString(data)
		if !ok {
			return fmt.Errorf("ref: malformed string value")
		}
		*r = Ref(s)
	case bsontype.Int32:
		v, _, ok := bsoncore.ReadInt32(data)
		if !ok {
			return fmt.Errorf("ref: malformed int32 value")
		}
		*r = Ref(strconv.FormatInt(int64(v), 10))
	case bsontype.Int64:
		v, _, ok := bsoncore.ReadInt64(data)
		if !ok {
			return fmt.Errorf("ref: malformed int64 value")
		}
		*r = Ref(strconv.FormatInt(v, 10))
	case bsontype.Double:
		v, _, ok := bsoncore.ReadDouble(data)
		if !ok {
			return fmt.Errorf("ref: malformed double value")
		}
		*r = Ref(formatNumber(v))
	case bsontype.Null, bsontype.Undefined:
		*r = ""
	default:
		return fmt.Errorf("ref: unsupported bson type %s", t)
	}
	return nil
}

// UnmarshalJSON accepts a string, a number, null or an extended-JSON
// {"$oid": "..."} object.
func (r *Ref) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("ref: %w", err)
	}
	switch v := v.(type) {
	case nil:
		*r = ""
	case string:
		*r = Ref(v)
	case float64:
		*r = Ref(formatNumber(v))
	case map[string]any:
		oid, ok := v["$oid"].(string)
		if !ok {
			return fmt.Errorf("ref: unsupported json object")
		}
		*r = Ref(oid)
	default:
		return fmt.Errorf("ref: unsupported json value %T", v)
	}
	return nil
}

// formatNumber renders whole numbers without a fraction, so 4.0 and 4 both
// become "4".
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
