package domain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
	"gopkg.in/yaml.v3"
)

// StringList is a list field that older documents sometimes stored as a
// single string. A scalar decodes to a one-element list, an empty string or
// null to nil, and numeric elements to their string form.
type StringList []string

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (l *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*l = nil
		return nil
	case bsontype.Array:
		vals, err := bsoncore.Array(data).Values()
		if err != nil {
			return fmt.Errorf("string list: %w", err)
		}
		out := make(StringList, 0, len(vals))
		for _, v := range vals {
			if s, ok := bsonScalar(v); ok {
				out = append(out, s)
			}
		}
		*l = out
		return nil
	}

	s, ok := bsonScalar(bsoncore.Value{Type: t, Data: data})
	if !ok {
		return fmt.Errorf("string list: unsupported bson type %s", t)
	}
	*l = single(s)
	return nil
}

func (l *StringList) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	switch v := v.(type) {
	case nil:
		*l = nil
	case string:
		*l = single(v)
	case float64:
		*l = StringList{formatNumber(v)}
	case []any:
		out := make(StringList, 0, len(v))
		for _, e := range v {
			switch e := e.(type) {
			case string:
				out = append(out, e)
			case float64:
				out = append(out, formatNumber(e))
			}
		}
		*l = out
	default:
		return fmt.Errorf("string list: unsupported json value %T", v)
	}
	return nil
}

func (l *StringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = single(n.Value)
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := n.Decode(&out); err != nil {
			return fmt.Errorf("string list: %w", err)
		}
		*l = out
		return nil
	}
	return fmt.Errorf("string list: line %d: expected a string or a list", n.Line)
}

func single(s string) StringList {
	if s == "" {
		return nil
	}
	return StringList{s}
}

func bsonScalar(v bsoncore.Value) (string, bool) {
	switch v.Type {
	case bsontype.String:
		return v.StringValueOK()
	case bsontype.Int32:
		i, ok := v.Int32OK()
		return strconv.FormatInt(int64(i), 10), ok
	case bsontype.Int64:
		i, ok := v.Int64OK()
		return strconv.FormatInt(i, 10), ok
	case bsontype.Double:
		f, ok := v.DoubleOK()
		return formatNumber(f), ok
	}
	return "", false
}
