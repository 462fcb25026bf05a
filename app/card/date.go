package card

import (
	"encoding/json"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Date holds a date exactly as it was authored: a string, a time.Time,
// a numeric epoch in milliseconds, or nothing. Interpretation is left to
// the listing package so malformed values never fail decoding.
type Date struct {
	raw any
}

func NewDate(v any) Date {
	switch val := v.(type) {
	case Date:
		return val
	case string, time.Time, float64:
		return Date{raw: val}
	case *time.Time:
		if val == nil {
			return Date{}
		}
		return Date{raw: *val}
	case int:
		return Date{raw: float64(val)}
	case int64:
		return Date{raw: float64(val)}
	}
	return Date{}
}

func (d Date) Value() any {
	return d.raw
}

func (d Date) IsZero() bool {
	switch val := d.raw.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case time.Time:
		return val.IsZero()
	}
	return false
}

func (d Date) String() string {
	switch val := d.raw.(type) {
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return ""
}

func (d Date) MarshalJSON() ([]byte, error) {
	switch val := d.raw.(type) {
	case string:
		return json.Marshal(val)
	case time.Time:
		return json.Marshal(val.Format(time.RFC3339))
	case float64:
		return json.Marshal(val)
	}
	return []byte("null"), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*d = Date{}
		return nil
	}
	*d = NewDate(v)
	return nil
}

func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	*d = Date{}
	if node.Kind != yaml.ScalarNode {
		return nil
	}

	switch node.ShortTag() {
	case "!!null":
		return nil
	case "!!timestamp":
		var t time.Time
		if err := node.Decode(&t); err == nil {
			*d = Date{raw: t.UTC()}
			return nil
		}
	case "!!int", "!!float":
		if f, err := strconv.ParseFloat(node.Value, 64); err == nil {
			*d = Date{raw: f}
			return nil
		}
	}

	*d = Date{raw: node.Value}
	return nil
}

// LabelSet is a list of facet labels. Decoding accepts a list of scalars or
// a single scalar; anything else decodes as the empty set.
type LabelSet []string

func (l *LabelSet) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*l = nil
		return nil
	}
	*l = labelsFrom(v)
	return nil
}

func (l *LabelSet) UnmarshalYAML(node *yaml.Node) error {
	*l = nil
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() != "!!null" && node.Value != "" {
			*l = LabelSet{node.Value}
		}
	case yaml.SequenceNode:
		out := make(LabelSet, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode && item.Value != "" {
				out = append(out, item.Value)
			}
		}
		*l = out
	}
	return nil
}

func labelsFrom(v any) LabelSet {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return LabelSet{val}
	case []any:
		out := make(LabelSet, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
