package domain

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cast"
)

// Type is the closed set of value kinds a setting can declare.
type Type string

const (
	TypeBoolean Type = "boolean"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeFloat   Type = "float"
	TypeArray   Type = "array"
	TypeJSON    Type = "json"
)

type typeFuncs struct {
	cast        func(any) (any, error)
	toStorage   func(any) (string, error)
	fromStorage func(string) (any, error)
}

var typeTable = map[Type]typeFuncs{
	TypeBoolean: {
		cast: func(v any) (any, error) { return cast.ToBoolE(v) },
		toStorage: func(v any) (string, error) {
			b, err := cast.ToBoolE(v)
			if err != nil {
				return "", err
			}
			return strconv.FormatBool(b), nil
		},
		fromStorage: func(raw string) (any, error) { return strconv.ParseBool(raw) },
	},
	TypeString: {
		cast: func(v any) (any, error) { return cast.ToStringE(v) },
		toStorage: func(v any) (string, error) {
			return cast.ToStringE(v)
		},
		fromStorage: func(raw string) (any, error) { return raw, nil },
	},
	TypeInteger: {
		cast: func(v any) (any, error) { return cast.ToInt64E(v) },
		toStorage: func(v any) (string, error) {
			n, err := cast.ToInt64E(v)
			if err != nil {
				return "", err
			}
			return strconv.FormatInt(n, 10), nil
		},
		fromStorage: func(raw string) (any, error) { return strconv.ParseInt(raw, 10, 64) },
	},
	TypeFloat: {
		cast: func(v any) (any, error) { return cast.ToFloat64E(v) },
		toStorage: func(v any) (string, error) {
			f, err := cast.ToFloat64E(v)
			if err != nil {
				return "", err
			}
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		},
		fromStorage: func(raw string) (any, error) { return strconv.ParseFloat(raw, 64) },
	},
	TypeArray: {
		cast: func(v any) (any, error) {
			var out []any
			if err := jsonNormalize(v, &out); err != nil {
				return nil, err
			}
			return out, nil
		},
		toStorage: func(v any) (string, error) {
			var out []any
			if err := jsonNormalize(v, &out); err != nil {
				return "", err
			}
			encoded, err := json.Marshal(out)
			if err != nil {
				return "", err
			}
			return string(encoded), nil
		},
		fromStorage: func(raw string) (any, error) {
			var out []any
			if err := json.Unmarshal([]byte(raw), &out); err != nil {
				return nil, err
			}
			return out, nil
		},
	},
	TypeJSON: {
		cast: func(v any) (any, error) {
			var out map[string]any
			if err := jsonNormalize(v, &out); err != nil {
				return nil, err
			}
			return out, nil
		},
		toStorage: func(v any) (string, error) {
			var out map[string]any
			if err := jsonNormalize(v, &out); err != nil {
				return "", err
			}
			encoded, err := json.Marshal(out)
			if err != nil {
				return "", err
			}
			return string(encoded), nil
		},
		fromStorage: func(raw string) (any, error) {
			var out map[string]any
			if err := json.Unmarshal([]byte(raw), &out); err != nil {
				return nil, err
			}
			return out, nil
		},
	},
}

// jsonNormalize round-trips v through JSON so casting yields the same shapes
// fromStorage produces (numbers as float64, nested maps as map[string]any).
func jsonNormalize(v any, out any) error {
	if raw, ok := v.(string); ok {
		return json.Unmarshal([]byte(raw), out)
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, out)
}

// Valid reports whether t is one of the declared kinds.
func (t Type) Valid() bool {
	_, ok := typeTable[t]
	return ok
}

// Cast coerces v to the canonical in-memory representation for t.
func (t Type) Cast(v any) (any, error) {
	funcs, ok := typeTable[t]
	if !ok {
		return nil, ErrInvalidType
	}
	return funcs.cast(v)
}

// Validate reports whether v can be represented as t.
func (t Type) Validate(v any) bool {
	funcs, ok := typeTable[t]
	if !ok {
		return false
	}
	_, err := funcs.cast(v)
	return err == nil
}

// ToStorage serializes v to its persisted string form.
func (t Type) ToStorage(v any) (string, error) {
	funcs, ok := typeTable[t]
	if !ok {
		return "", ErrInvalidType
	}
	return funcs.toStorage(v)
}

// FromStorage parses the persisted string form back into a typed value.
func (t Type) FromStorage(raw string) (any, error) {
	funcs, ok := typeTable[t]
	if !ok {
		return nil, ErrInvalidType
	}
	return funcs.fromStorage(raw)
}
